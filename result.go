package squirrel

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Payload is the output of a successful extraction: either a flattened
// text blob, or one extracted string per selector field.
type Payload struct {
	Text   string
	Fields map[string]string
}

// FlatText returns a payload holding a flattened text blob.
func FlatText(text string) Payload {
	return Payload{Text: text}
}

// FieldMap returns a payload holding extracted fields.
// A nil map is replaced by an empty one so the payload stays a field map.
func FieldMap(fields map[string]string) Payload {
	if fields == nil {
		fields = map[string]string{}
	}
	return Payload{Fields: fields}
}

// IsFieldMap reports whether the payload holds extracted fields.
func (p Payload) IsFieldMap() bool {
	return p.Fields != nil
}

// MarshalJSON encodes the payload as a JSON string or object.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.IsFieldMap() {
		return marshalJSON(p.Fields)
	}
	return marshalJSON(p.Text)
}

// UnmarshalJSON decodes a JSON string or object into the payload.
func (p *Payload) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var fields map[string]string
		if err := json.Unmarshal(b, &fields); err != nil {
			return err
		}
		*p = FieldMap(fields)
		return nil
	}
	var text string
	if err := json.Unmarshal(b, &text); err != nil {
		return err
	}
	*p = FlatText(text)
	return nil
}

// Result is the outcome of a single scrape. Exactly one of Data or Error
// is meaningful, selected by Success.
type Result struct {
	Success bool
	Data    Payload
	Error   string
}

// Succeed returns a successful result carrying p.
func Succeed(p Payload) *Result {
	return &Result{Success: true, Data: p}
}

// Fail returns a failed result carrying msg.
func Fail(msg string) *Result {
	return &Result{Error: msg}
}

// FailWith converts err into a failed result. Fetch errors report their
// user-facing message; anything else is treated as an extraction failure.
func FailWith(err error) *Result {
	var fe *FetchError
	if errors.As(err, &fe) {
		return Fail(fe.Message())
	}
	return Fail("Extraction error: " + err.Error())
}

type resultJSON struct {
	Success bool     `json:"success"`
	Data    *Payload `json:"data,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// MarshalJSON encodes the result as {success, data?, error?}.
func (r *Result) MarshalJSON() ([]byte, error) {
	v := resultJSON{Success: r.Success, Error: r.Error}
	if r.Success {
		v.Data = &r.Data
	}
	return marshalJSON(v)
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (r *Result) UnmarshalJSON(b []byte) error {
	var v resultJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*r = Result{Success: v.Success, Error: v.Error}
	if v.Data != nil {
		r.Data = *v.Data
	}
	return nil
}

// marshalJSON encodes v without escaping the markup in extracted text.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
