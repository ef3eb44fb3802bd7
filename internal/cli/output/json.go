package output

import (
	"encoding/json"
	"io"
)

// JSONFormatter prints results as indented JSON objects.
// Stored values are written verbatim; characters such as <, > and & are
// not escaped.
type JSONFormatter struct{}

// Format writes data followed by a newline.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
