// internal/output/text.go
package output

import (
	"bufio"
	"fmt"
	"io"

	"meshwidth/internal/aggregate"
)

// WriteText prints the TSV table: an optional header, then one row per
// result. When render is non-nil its block follows each row.
func WriteText(w io.Writer, list []aggregate.Result, thresholds []float64, header bool, render func(aggregate.Result) string) error {
	ch := make(chan aggregate.Result, len(list))
	for _, r := range list {
		ch <- r
	}
	close(ch)
	return StreamText(w, ch, thresholds, header, render)
}

// StreamText is WriteText over a channel; rows appear as results arrive.
func StreamText(w io.Writer, in <-chan aggregate.Result, thresholds []float64, header bool, render func(aggregate.Result) string) error {
	bw := bufio.NewWriter(w)
	if header {
		if _, err := fmt.Fprintln(bw, TSVHeader(thresholds)); err != nil {
			return err
		}
	}
	for r := range in {
		if _, err := fmt.Fprintln(bw, FormatRowTSV(r, thresholds)); err != nil {
			return err
		}
		if render != nil {
			if _, err := io.WriteString(bw, render(r)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
