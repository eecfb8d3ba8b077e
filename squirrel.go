// Package squirrel fetches web pages, flattens them into annotated text or
// extracts named fields by CSS selector, and keeps a history of every scrape.
//
// This package contains domain types, interfaces and the text extraction
// algorithm, following Ben Johnson's Standard Package Layout. Implementations
// live in subdirectories named after their primary dependency (e.g., sqlite/,
// goquery/, http/).
package squirrel
