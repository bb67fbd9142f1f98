package axle

import (
	"fmt"
	"log/slog"

	"github.com/arnevik/axle/internal/logging"
)

// ForAll vectorizes its inner transformation over one named dimension: the
// inner stage is written as if the dimension did not exist, and ForAll
// loops it across the dimension's extent, stacking the results along a new
// leading axis.
//
// Building resolves where the dimension lives in the input Spec, builds
// the inner stage against the Spec with the dimension removed, and
// prepends the dimension to every leaf of the inner output Spec. Calling
// slices each argument on its resolved axis per index; argument subtrees
// that never carry the dimension broadcast unchanged.
type ForAll struct {
	dim   string
	inner Transformation
	exec  Executor
	log   *slog.Logger
}

// ForAllOption configures a ForAll.
type ForAllOption func(*ForAll)

// WithExecutor replaces the sequential loop with a custom strategy, for
// example the errgroup executor in pkg/adapters/parallel.
func WithExecutor(e Executor) ForAllOption {
	return func(t *ForAll) { t.exec = e }
}

// WithLogger attaches a logger; loop resolution is reported at debug
// level. The default logger discards everything.
func WithLogger(l *slog.Logger) ForAllOption {
	return func(t *ForAll) {
		if l != nil {
			t.log = l
		}
	}
}

// NewForAll returns a ForAll over the named dimension. It has no inner
// transformation yet; Compose supplies one.
func NewForAll(dim string, opts ...ForAllOption) *ForAll {
	t := &ForAll{dim: dim, log: logging.NewNop()}
	for _, o := range opts {
		o(t)
	}
	return t
}

func (t *ForAll) wrap(inner Transformation) Transformation {
	c := *t
	c.inner = inner
	return &c
}

// Build resolves the loop against the input Spec. The dimension must
// appear in at least one leaf; a Spec that nowhere carries it fails with a
// *DimensionNotFoundError before any inner work happens.
func (t *ForAll) Build(input *Spec) (*Bound, error) {
	if input == nil {
		return nil, fmt.Errorf("axle: for_all %q built without an input spec", t.dim)
	}
	if input.IndexFor(t.dim).AllAbsent() {
		return nil, &DimensionNotFoundError{Dimension: t.dim}
	}
	if t.inner == nil {
		return nil, fmt.Errorf("axle: for_all %q has no inner transformation; use Compose to wrap one", t.dim)
	}

	innerBound, err := t.inner.Build(input.Remove(t.dim))
	if err != nil {
		return nil, fmt.Errorf("axle: building inner transformation of for_all %q: %w", t.dim, err)
	}
	output := innerBound.OutputSpec().UpdateLeaves(func(sh Shape) Shape {
		return append(Shape{t.dim}, sh...)
	})

	dim := t.dim
	reg := input.Registry()
	specRoot := input.root
	exec := t.exec
	if exec == nil {
		exec = Sequential(reg)
	}
	log := t.log
	log.Debug("resolved loop dimension", "dimension", dim)

	call := func(args Args) (any, error) {
		plan, err := planLoop(reg, specRoot, map[string]any(args), dim)
		if err != nil {
			return nil, err
		}
		// extent check here carries the real argument paths; executors
		// only see flattened piece indexes
		n, err := plan.extent(dim)
		if err != nil {
			return nil, err
		}
		log.Debug("looping", "dimension", dim, "extent", n, "pieces", len(plan.pieces))

		fn := func(vals []any) (any, error) {
			rebuilt, err := plan.rebuild(vals)
			if err != nil {
				return nil, err
			}
			m, ok := rebuilt.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("axle: rebuilt arguments are %T, want a map", rebuilt)
			}
			return innerBound.Call(Args(m))
		}
		return exec(dim, fn, plan.pieces, plan.axes)
	}

	return &Bound{call: call, input: input, output: output}, nil
}
