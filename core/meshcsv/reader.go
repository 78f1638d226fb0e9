// core/meshcsv/reader.go
package meshcsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"meshwidth/core/mesh"
)

// Stats describes one pass over a dataset file.
type Stats struct {
	Rows    int // data rows read
	Skipped int // rows without a usable mesh field
}

// ReadCandidatesFrom reads every CSV row of r and returns the packed mesh
// fields of rows that pass mesh.Candidate. Short rows are skipped, not
// errors. ctx is checked between rows.
func ReadCandidatesFrom(ctx context.Context, r io.Reader) ([]string, Stats, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var (
		st  Stats
		out []string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, st, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, st, fmt.Errorf("line %d: %w", pe.Line, pe.Err)
			}
			return nil, st, err
		}
		st.Rows++
		f, ok := mesh.Candidate(row)
		if !ok {
			st.Skipped++
			continue
		}
		out = append(out, strings.Clone(f))
	}
	return out, st, nil
}

// ReadCandidates opens path (gzip and "-" aware) and reads it in one pass.
func ReadCandidates(ctx context.Context, path string) ([]string, Stats, error) {
	rc, err := openReader(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer func() { _ = rc.Close() }()

	out, st, err := ReadCandidatesFrom(ctx, rc)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return nil, st, fmt.Errorf("%s: %w", path, err)
	}
	return out, st, err
}

// Label names a dataset after its file: base name without a trailing .gz
// and without the last extension. Stdin is labelled "stdin".
func Label(path string) string {
	if path == "-" {
		return "stdin"
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
