// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
)

// ReportWriters maps an output format to its handler. Handlers register
// themselves in init().
var ReportWriters = map[string]func(w io.Writer, data interface{}) error{}

// RegisterReport is idempotent, last wins.
func RegisterReport(format string, fn func(io.Writer, interface{}) error) { ReportWriters[format] = fn }

// WriteReport dispatches to the handler registered for format.
func WriteReport(format string, w io.Writer, payload interface{}) error {
	fn, ok := ReportWriters[format]
	if !ok {
		return fmt.Errorf("unknown report format %q (no writer registered)", format)
	}
	return fn(w, payload)
}
