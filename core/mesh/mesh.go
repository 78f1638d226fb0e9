// core/mesh/mesh.go
package mesh

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Row shape of a segmentation export: the packed mesh lives in column 6,
// and anything shorter than MinFieldLen cannot hold four coordinate lists.
const (
	Column      = 6
	MinColumns  = Column + 1
	MinFieldLen = 10
)

// ErrMalformed marks a record that cannot be turned into paired boundary
// points. Callers skip the record and keep going.
var ErrMalformed = errors.New("malformed mesh record")

// Record holds the two sides of a cell outline at matched positions:
// (X1[i],Y1[i]) pairs with (X2[i],Y2[i]).
type Record struct {
	X1, Y1, X2, Y2 []float64
}

// Len is the number of matched positions.
func (r Record) Len() int { return len(r.X1) }

// Candidate returns the packed mesh field of a CSV row, or false when the
// row is too short or the field too small to be a mesh.
func Candidate(row []string) (string, bool) {
	if len(row) < MinColumns {
		return "", false
	}
	f := row[Column]
	if len(f) < MinFieldLen {
		return "", false
	}
	return f, true
}

var decoration = strings.NewReplacer("[", "", "]", "", "'", "")

// Parse decodes a packed "x1 ; y1 ; x2 ; y2" field. Brackets and single
// quotes are export artifacts and are dropped before splitting. Every
// coordinate must be a finite number; "nan" and "inf" are bad tokens.
func Parse(raw string) (Record, error) {
	segs := strings.Split(decoration.Replace(raw), ";")
	if len(segs) < 4 {
		return Record{}, fmt.Errorf("%w: want 4 ';'-separated lists, got %d", ErrMalformed, len(segs))
	}
	var lists [4][]float64
	for k := 0; k < 4; k++ {
		toks := strings.Fields(segs[k])
		vals := make([]float64, len(toks))
		for i, tok := range toks {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return Record{}, fmt.Errorf("%w: list %d value %d: bad number %q", ErrMalformed, k, i, tok)
			}
			vals[i] = v
		}
		lists[k] = vals
	}
	r := Record{X1: lists[0], Y1: lists[1], X2: lists[2], Y2: lists[3]}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// Validate checks that the four lists line up.
func (r Record) Validate() error {
	n := len(r.X1)
	if len(r.Y1) != n || len(r.X2) != n || len(r.Y2) != n {
		return fmt.Errorf("%w: list lengths differ (x1=%d y1=%d x2=%d y2=%d)",
			ErrMalformed, len(r.X1), len(r.Y1), len(r.X2), len(r.Y2))
	}
	return nil
}

// Format writes r back in the export's packed form. Parse(Format(r))
// yields r again.
func Format(r Record) string {
	var b strings.Builder
	b.WriteString("[ '")
	for k, list := range [][]float64{r.X1, r.Y1, r.X2, r.Y2} {
		if k > 0 {
			b.WriteString(" ; ")
		}
		for i, v := range list {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	b.WriteString("' ]")
	return b.String()
}
