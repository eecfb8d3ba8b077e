// Package slog provides log/slog decorators for the squirrel services.
package slog
