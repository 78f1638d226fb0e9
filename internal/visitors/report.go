// internal/visitors/report.go
package visitors

import (
	"context"
	"errors"

	"meshwidth/internal/aggregate"
)

// Report inspects each dataset result on its way to the writer: it warns
// about failures and skipped records, keeps a copy for the figure, and
// drops profiles the writer will not print.
type Report struct {
	Warn         func(format string, a ...any)
	KeepProfiles bool
	Collect      *[]aggregate.Result // nil = no figure
}

func (v Report) Visit(r aggregate.Result) (bool, aggregate.Result, error) {
	if v.Warn != nil {
		switch {
		case r.Err != nil && !errors.Is(r.Err, context.Canceled):
			v.Warn("%s: %v", r.Label, r.Err)
		case r.Err == nil && r.Rejected > 0:
			v.Warn("%s: skipped %d malformed mesh record(s)", r.Label, r.Rejected)
		}
	}
	if v.Collect != nil {
		*v.Collect = append(*v.Collect, r)
	}
	if !v.KeepProfiles {
		r.Profiles = nil
	}
	return true, r, nil
}
