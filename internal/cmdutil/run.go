package cmdutil

import (
	"context"

	"meshwidth/internal/aggregate"
)

// RunStream aggregates datasets, applies a visitor, and streams results via
// send in input order. It returns the number of datasets that produced
// statistics and the first error encountered.
func RunStream[T any](
	ctx context.Context,
	agg *aggregate.Aggregator,
	datasets []aggregate.Dataset,
	visit func(aggregate.Result) (bool, T, error),
	send func(T) error,
) (int, error) {
	ok := 0
	err := agg.Stream(ctx, datasets, func(r aggregate.Result) error {
		keep, out, vErr := visit(r)
		if vErr != nil {
			return vErr
		}
		if r.Err == nil {
			ok++
		}
		if !keep {
			return nil
		}
		return send(out)
	})
	return ok, err
}
