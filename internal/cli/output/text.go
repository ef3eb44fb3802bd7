package output

import (
	"fmt"
	"io"
	"strconv"
)

// TextFormatter prints results the way redis-cli does.
type TextFormatter struct{}

// Format writes data followed by a newline.
func (f *TextFormatter) Format(w io.Writer, data any) error {
	var err error
	switch d := data.(type) {
	case Result:
		_, err = fmt.Fprintln(w, text(d))
	case *Result:
		_, err = fmt.Fprintln(w, text(*d))
	default:
		_, err = fmt.Fprintln(w, d)
	}
	return err
}

func text(r Result) string {
	if r.Value == nil {
		return "(nil)"
	}
	if r.Type == TypeStatus {
		return *r.Value
	}
	return strconv.Quote(*r.Value)
}
