package squirrel

import (
	"context"
	"fmt"
	"regexp"
)

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch performs a GET request and returns the response.
	// Responses with a 4xx status are returned without error so the caller
	// can report them; every other failure is returned as a *FetchError.
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Response is a fetched page.
type Response struct {
	URL        string
	StatusCode int
	StatusText string
	Body       string
}

// IsClientError reports whether the response carries a 4xx status.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// FetchErrorKind classifies a failed fetch.
type FetchErrorKind string

// FetchErrorKind constants.
const (
	FetchInvalidURL  FetchErrorKind = "invalid_url"
	FetchTimeout     FetchErrorKind = "timeout"
	FetchHTTPError   FetchErrorKind = "http_error"
	FetchServerError FetchErrorKind = "server_error"
	FetchNoResponse  FetchErrorKind = "no_response"
	FetchUnknown     FetchErrorKind = "unknown"
)

// Messages reported to users for each failure kind.
const (
	MessageInvalidURL = "有効なURLを入力してください。URLはhttp://またはhttps://で始まる必要があります。"
	MessageTimeout    = "リクエストがタイムアウトしました。URLが正しいか確認してください。"
	MessageNoResponse = "サーバーからの応答がありませんでした。URLが正しいか、サーバーが稼働しているか確認してください。"
)

// FetchError describes why a page could not be fetched.
type FetchError struct {
	Kind       FetchErrorKind
	Status     int
	StatusText string
	Detail     string
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	switch e.Kind {
	case FetchHTTPError, FetchServerError:
		return fmt.Sprintf("fetch %s: %d %s", e.Kind, e.Status, e.StatusText)
	}
	if e.Detail != "" {
		return fmt.Sprintf("fetch %s: %s", e.Kind, e.Detail)
	}
	return fmt.Sprintf("fetch %s", e.Kind)
}

// Message returns the user-facing description of the failure.
func (e *FetchError) Message() string {
	switch e.Kind {
	case FetchInvalidURL:
		return MessageInvalidURL
	case FetchTimeout:
		return MessageTimeout
	case FetchHTTPError, FetchServerError:
		return fmt.Sprintf("HTTPエラー: %d - %s", e.Status, e.StatusText)
	case FetchNoResponse:
		return MessageNoResponse
	default:
		return fmt.Sprintf("スクレイピングエラー: %s", e.Detail)
	}
}

var urlPattern = regexp.MustCompile(`^https?://.+`)

// ValidateURL returns a FetchInvalidURL error unless url starts with
// http:// or https:// followed by at least one character.
func ValidateURL(url string) error {
	if !urlPattern.MatchString(url) {
		return &FetchError{Kind: FetchInvalidURL, Detail: fmt.Sprintf("invalid url %q", url)}
	}
	return nil
}
