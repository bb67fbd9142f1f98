// Package parallel fans vectorized loops out across goroutines. It is a
// drop-in Executor for ForAll stages whose per-index calls are independent
// and expensive enough to pay for the scheduling.
package parallel

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arnevik/axle"
	"github.com/arnevik/axle/pkg/tree"
)

// Executor returns an axle.Executor running loop indexes concurrently, at
// most workers at a time; workers <= 0 means one goroutine per index.
// Results stack in index order regardless of completion order, and the
// first per-index error wins after all started work settles.
func Executor(reg *tree.Registry, workers int) axle.Executor {
	if reg == nil {
		reg = tree.Default
	}
	return func(dim string, fn func(vals []any) (any, error), pieces []any, axes []axle.Axis) (any, error) {
		n, err := axle.LoopExtent(dim, pieces, axes)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("parallel: dimension %q has zero extent, nothing to loop over", dim)
		}

		var g errgroup.Group
		if workers > 0 {
			g.SetLimit(workers)
		}
		results := make([]any, n)
		for i := 0; i < n; i++ {
			g.Go(func() error {
				vals, err := axle.SliceAt(pieces, axes, i)
				if err != nil {
					return err
				}
				out, err := fn(vals)
				if err != nil {
					return fmt.Errorf("parallel: %s[%d]: %w", dim, i, err)
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return axle.StackResults(reg, results)
	}
}
