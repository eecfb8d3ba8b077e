package squirrel_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	t.Parallel()

	valid := []string{
		"http://example.com",
		"https://example.com/path?q=1",
		"https://x",
	}
	for _, url := range valid {
		t.Run("accepts "+url, func(t *testing.T) {
			t.Parallel()
			assert.NoError(t, squirrel.ValidateURL(url))
		})
	}

	invalid := []string{
		"",
		"example.com",
		"ftp://example.com",
		"http://",
		"https://",
		"HTTP://example.com",
		" https://example.com",
		"javascript:alert(1)",
	}
	for _, url := range invalid {
		t.Run(fmt.Sprintf("rejects %q", url), func(t *testing.T) {
			t.Parallel()

			err := squirrel.ValidateURL(url)

			var fe *squirrel.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, squirrel.FetchInvalidURL, fe.Kind)
			assert.Equal(t, squirrel.MessageInvalidURL, fe.Message())
		})
	}
}

func TestFetchError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *squirrel.FetchError
		want string
	}{
		{"timeout", &squirrel.FetchError{Kind: squirrel.FetchTimeout}, squirrel.MessageTimeout},
		{"http error", &squirrel.FetchError{Kind: squirrel.FetchHTTPError, Status: 404, StatusText: "Not Found"}, "HTTPエラー: 404 - Not Found"},
		{"server error", &squirrel.FetchError{Kind: squirrel.FetchServerError, Status: 503, StatusText: "Service Unavailable"}, "HTTPエラー: 503 - Service Unavailable"},
		{"no response", &squirrel.FetchError{Kind: squirrel.FetchNoResponse}, squirrel.MessageNoResponse},
		{"unknown", &squirrel.FetchError{Kind: squirrel.FetchUnknown, Detail: "stopped after 5 redirects"}, "スクレイピングエラー: stopped after 5 redirects"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.err.Message())
		})
	}
}

func TestFetchError_Error(t *testing.T) {
	t.Parallel()

	err := &squirrel.FetchError{Kind: squirrel.FetchServerError, Status: 500, StatusText: "Internal Server Error"}

	assert.Equal(t, "fetch server_error: 500 Internal Server Error", err.Error())
}

func TestResponse_IsClientError(t *testing.T) {
	t.Parallel()

	assert.True(t, (&squirrel.Response{StatusCode: 404}).IsClientError())
	assert.True(t, (&squirrel.Response{StatusCode: 400}).IsClientError())
	assert.False(t, (&squirrel.Response{StatusCode: 200}).IsClientError())
	assert.False(t, (&squirrel.Response{StatusCode: 500}).IsClientError())
}
