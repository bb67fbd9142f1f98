package axle

import (
	"fmt"

	"github.com/arnevik/axle/pkg/tensor"
)

// FoldFunc combines the running carry with one per-index result.
type FoldFunc func(carry, value any) (any, error)

// Reduce folds the per-index results of its inner transformation along one
// dimension instead of stacking them. The input-side handling matches
// ForAll exactly; the output Spec passes through unchanged because the
// folded dimension never materializes in the result.
type Reduce struct {
	dim        string
	fold       FoldFunc
	initial    any
	hasInitial bool
	inner      Transformation
}

// ReduceOption configures a Reduce.
type ReduceOption func(*Reduce)

// WithInitial seeds the fold. Without it the first per-index result seeds
// the carry, and reducing over a zero extent is an error.
func WithInitial(v any) ReduceOption {
	return func(t *Reduce) {
		t.initial = v
		t.hasInitial = true
	}
}

// NewReduce returns a Reduce folding fold over the named dimension. It has
// no inner transformation yet; Compose supplies one.
func NewReduce(dim string, fold FoldFunc, opts ...ReduceOption) *Reduce {
	t := &Reduce{dim: dim, fold: fold}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Sum folds with elementwise addition (tensor.Add).
func Sum(dim string, opts ...ReduceOption) *Reduce {
	return NewReduce(dim, func(carry, value any) (any, error) {
		return tensor.Add(carry, value)
	}, opts...)
}

// Product folds with elementwise multiplication (tensor.Mul).
func Product(dim string, opts ...ReduceOption) *Reduce {
	return NewReduce(dim, func(carry, value any) (any, error) {
		return tensor.Mul(carry, value)
	}, opts...)
}

func (t *Reduce) wrap(inner Transformation) Transformation {
	c := *t
	c.inner = inner
	return &c
}

// Build resolves the fold against the input Spec, the same way ForAll
// resolves its loop.
func (t *Reduce) Build(input *Spec) (*Bound, error) {
	if input == nil {
		return nil, fmt.Errorf("axle: reduce over %q built without an input spec", t.dim)
	}
	if input.IndexFor(t.dim).AllAbsent() {
		return nil, &DimensionNotFoundError{Dimension: t.dim}
	}
	if t.inner == nil {
		return nil, fmt.Errorf("axle: reduce over %q has no inner transformation; use Compose to wrap one", t.dim)
	}
	if t.fold == nil {
		return nil, fmt.Errorf("axle: reduce over %q has no fold function", t.dim)
	}

	innerBound, err := t.inner.Build(input.Remove(t.dim))
	if err != nil {
		return nil, fmt.Errorf("axle: building inner transformation of reduce over %q: %w", t.dim, err)
	}

	dim := t.dim
	reg := input.Registry()
	specRoot := input.root
	fold := t.fold
	initial, hasInitial := t.initial, t.hasInitial

	call := func(args Args) (any, error) {
		plan, err := planLoop(reg, specRoot, map[string]any(args), dim)
		if err != nil {
			return nil, err
		}
		n, err := plan.extent(dim)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			if hasInitial {
				return initial, nil
			}
			return nil, fmt.Errorf("axle: reducing dimension %q over zero extent with no initial value", dim)
		}

		carry := initial
		seeded := hasInitial
		for i := 0; i < n; i++ {
			vals, err := SliceAt(plan.pieces, plan.axes, i)
			if err != nil {
				return nil, err
			}
			rebuilt, err := plan.rebuild(vals)
			if err != nil {
				return nil, err
			}
			m, ok := rebuilt.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("axle: rebuilt arguments are %T, want a map", rebuilt)
			}
			res, err := innerBound.Call(Args(m))
			if err != nil {
				return nil, fmt.Errorf("axle: %s[%d]: %w", dim, i, err)
			}
			if !seeded {
				carry = res
				seeded = true
				continue
			}
			carry, err = fold(carry, res)
			if err != nil {
				return nil, fmt.Errorf("axle: folding %s[%d]: %w", dim, i, err)
			}
		}
		return carry, nil
	}

	return &Bound{call: call, input: input, output: innerBound.OutputSpec()}, nil
}
