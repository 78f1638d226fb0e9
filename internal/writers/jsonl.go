// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"meshwidth/internal/aggregate"
	"meshwidth/internal/jsonlutil"
	"meshwidth/internal/output"
)

// StartReportJSONLWriter streams each dataset result as one JSON line (v1).
func StartReportJSONLWriter(out io.Writer, bufSize int) (chan<- aggregate.Result, <-chan error) {
	return jsonlutil.Start[aggregate.Result](out, bufSize,
		func(enc *json.Encoder, r aggregate.Result) error {
			return enc.Encode(output.ToAPIReport(r))
		},
		IsBrokenPipe,
	)
}
