package squirrel_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/fwojciec/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_MarshalJSON(t *testing.T) {
	t.Parallel()

	t.Run("encodes flat text as string data", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(squirrel.Succeed(squirrel.FlatText("<h1>Hi</h1>")))

		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":"<h1>Hi</h1>"}`, string(b))
	})

	t.Run("encodes field map as object data", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(squirrel.Succeed(squirrel.FieldMap(map[string]string{"title": "<h1>Hi</h1>", "missing": ""})))

		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":{"title":"<h1>Hi</h1>","missing":""}}`, string(b))
	})

	t.Run("encodes empty flat text", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(squirrel.Succeed(squirrel.FlatText("")))

		require.NoError(t, err)
		assert.JSONEq(t, `{"success":true,"data":""}`, string(b))
	})

	t.Run("encodes failure without data", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(squirrel.Fail("boom"))

		require.NoError(t, err)
		assert.JSONEq(t, `{"success":false,"error":"boom"}`, string(b))
	})
}

func TestResult_RoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("field map keeps keys and values", func(t *testing.T) {
		t.Parallel()

		in := squirrel.Succeed(squirrel.FieldMap(map[string]string{
			"title":   "<h1>Hi</h1>",
			"missing": "",
			"list":    "<li>a</li>\n<li>b</li>",
		}))

		b, err := json.Marshal(in)
		require.NoError(t, err)

		var out squirrel.Result
		require.NoError(t, json.Unmarshal(b, &out))

		assert.True(t, out.Success)
		assert.True(t, out.Data.IsFieldMap())
		assert.Equal(t, in.Data.Fields, out.Data.Fields)
	})

	t.Run("flat text stays flat text", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(squirrel.Succeed(squirrel.FlatText("<p>x</p>")))
		require.NoError(t, err)

		var out squirrel.Result
		require.NoError(t, json.Unmarshal(b, &out))

		assert.False(t, out.Data.IsFieldMap())
		assert.Equal(t, "<p>x</p>", out.Data.Text)
	})

	t.Run("failure keeps message", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(squirrel.Fail(squirrel.MessageNoResponse))
		require.NoError(t, err)

		var out squirrel.Result
		require.NoError(t, json.Unmarshal(b, &out))

		assert.False(t, out.Success)
		assert.Equal(t, squirrel.MessageNoResponse, out.Error)
	})
}

func TestFailWith(t *testing.T) {
	t.Parallel()

	t.Run("uses fetch error message", func(t *testing.T) {
		t.Parallel()

		r := squirrel.FailWith(&squirrel.FetchError{Kind: squirrel.FetchHTTPError, Status: 404, StatusText: "Not Found"})

		assert.False(t, r.Success)
		assert.Equal(t, "HTTPエラー: 404 - Not Found", r.Error)
	})

	t.Run("prefixes other errors as extraction errors", func(t *testing.T) {
		t.Parallel()

		r := squirrel.FailWith(errors.New("bad markup"))

		assert.Equal(t, "Extraction error: bad markup", r.Error)
	})
}

func TestFieldMap_NilBecomesEmpty(t *testing.T) {
	t.Parallel()

	p := squirrel.FieldMap(nil)

	assert.True(t, p.IsFieldMap())
	assert.Empty(t, p.Fields)
}
