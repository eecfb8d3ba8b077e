package squirrel

import "strings"

// FormatResult formats a result for display.
// Flat text is returned as is; fields are rendered as "## name" sections
// in name order, separated by blank lines. Failures render their message.
func FormatResult(r *Result) string {
	if !r.Success {
		return "error: " + r.Error
	}
	if !r.Data.IsFieldMap() {
		return r.Data.Text
	}

	names := SelectorMap(r.Data.Fields).Names()
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, "## "+name+"\n"+r.Data.Fields[name])
	}
	return strings.Join(parts, "\n\n")
}
