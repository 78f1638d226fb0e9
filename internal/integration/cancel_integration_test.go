package integration

import (
	"context"
	"io"
	"testing"

	"meshwidth/internal/app"
)

func TestCtrlC_Exit130(t *testing.T) {
	fn := write(t, "wt.csv", cell(1.0), cell(1.2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := app.RunContext(ctx, []string{"--seed", "1", fn}, io.Discard, io.Discard)
	if code != 130 {
		t.Fatalf("expected exit 130 on cancel, got %d", code)
	}
}
