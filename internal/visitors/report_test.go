package visitors

import (
	"context"
	"fmt"
	"testing"

	"meshwidth/core/profile"
	"meshwidth/internal/aggregate"
)

func TestReport_WarnsAndStrips(t *testing.T) {
	var warns []string
	var fig []aggregate.Result
	v := Report{
		Warn:    func(f string, a ...any) { warns = append(warns, fmt.Sprintf(f, a...)) },
		Collect: &fig,
	}
	in := aggregate.Result{
		Dataset:  aggregate.Dataset{Label: "wt"},
		Rejected: 2,
		Profiles: []profile.Profile{{Length: []float64{0, 1}, Width: []float64{1, 1}, MaxWidth: 1}},
	}
	keep, out, err := v.Visit(in)
	if !keep || err != nil {
		t.Fatalf("keep=%v err=%v", keep, err)
	}
	if out.Profiles != nil {
		t.Fatalf("profiles must be stripped for the writer")
	}
	if len(fig) != 1 || len(fig[0].Profiles) != 1 {
		t.Fatalf("figure copy must keep profiles: %+v", fig)
	}
	if len(warns) != 1 || warns[0] != "wt: skipped 2 malformed mesh record(s)" {
		t.Fatalf("warns %v", warns)
	}
}

func TestReport_CancelledIsQuiet(t *testing.T) {
	n := 0
	v := Report{Warn: func(string, ...any) { n++ }, KeepProfiles: true}
	_, _, _ = v.Visit(aggregate.Result{Err: fmt.Errorf("x: %w", context.Canceled)})
	_, _, _ = v.Visit(aggregate.Result{Err: fmt.Errorf("boom")})
	if n != 1 {
		t.Fatalf("want 1 warning, got %d", n)
	}
}
