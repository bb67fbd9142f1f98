package axle

import (
	"fmt"

	"github.com/arnevik/axle/pkg/tensor"
	"github.com/arnevik/axle/pkg/tree"
)

// Executor is the loop strategy a ForAll delegates to once arguments are
// flattened. It receives the dimension being looped, the per-index
// callable, and the flattened pieces with their axes.
//
// The contract: resolve the loop extent from the mapped pieces (pieces
// whose axis is AxisNone broadcast unchanged), call fn once per index with
// the mapped pieces sliced at that index, and return the per-index results
// stacked along a new leading axis in index order. LoopExtent, SliceAt and
// StackResults implement the three steps; Sequential composes them and is
// the reference implementation.
type Executor func(dim string, fn func(vals []any) (any, error), pieces []any, axes []Axis) (any, error)

// Sequential returns the default executor: a plain loop in index order.
// A nil registry means tree.Default.
func Sequential(reg *tree.Registry) Executor {
	if reg == nil {
		reg = tree.Default
	}
	return func(dim string, fn func(vals []any) (any, error), pieces []any, axes []Axis) (any, error) {
		n, err := LoopExtent(dim, pieces, axes)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("axle: dimension %q has zero extent, nothing to loop over", dim)
		}
		results := make([]any, n)
		for i := 0; i < n; i++ {
			vals, err := SliceAt(pieces, axes, i)
			if err != nil {
				return nil, err
			}
			out, err := fn(vals)
			if err != nil {
				return nil, fmt.Errorf("axle: %s[%d]: %w", dim, i, err)
			}
			results[i] = out
		}
		return StackResults(reg, results)
	}
}

// LoopExtent resolves the loop extent of dim: the shared extent of every
// mapped piece on its axis. Disagreement yields a *ShapeMismatchError; no
// mapped piece at all yields a *DimensionNotFoundError.
func LoopExtent(dim string, pieces []any, axes []Axis) (int, error) {
	if len(pieces) != len(axes) {
		return 0, fmt.Errorf("axle: %d pieces with %d axes", len(pieces), len(axes))
	}
	var obs []ExtentConflict
	for i, piece := range pieces {
		if axes[i] == AxisNone {
			continue
		}
		ext := tensor.ExtentsOf(piece)
		ax := int(axes[i])
		if len(ext) <= ax {
			return 0, fmt.Errorf("axle: piece %d has rank %d but dimension %q should sit on axis %d", i, len(ext), dim, ax)
		}
		obs = append(obs, ExtentConflict{Path: tree.Path{fmt.Sprintf("piece[%d]", i)}, Axis: ax, Extent: ext[ax]})
	}
	if len(obs) == 0 {
		return 0, &DimensionNotFoundError{Dimension: dim}
	}
	for _, c := range obs[1:] {
		if c.Extent != obs[0].Extent {
			return 0, &ShapeMismatchError{Dimension: dim, Conflicts: obs}
		}
	}
	return obs[0].Extent, nil
}

// SliceAt returns every piece at loop index i: mapped pieces sliced on
// their axis, broadcast pieces passed through.
func SliceAt(pieces []any, axes []Axis, i int) ([]any, error) {
	vals := make([]any, len(pieces))
	for j, p := range pieces {
		if axes[j] == AxisNone {
			vals[j] = p
			continue
		}
		v, err := tensor.Take(p, int(axes[j]), i)
		if err != nil {
			return nil, fmt.Errorf("axle: slicing piece %d: %w", j, err)
		}
		vals[j] = v
	}
	return vals, nil
}

// StackResults combines per-index result trees into one tree whose array
// leaves gained a leading loop axis. Mappings and registered containers
// are stacked leaf by leaf; []any values count as array rows and stack
// whole. Every result must mirror the first one.
func StackResults(reg *tree.Registry, results []any) (any, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("axle: no results to stack")
	}
	if reg == nil {
		reg = tree.Default
	}
	isLeaf := func(v any) bool {
		if _, ok := v.([]any); ok {
			return true
		}
		return !reg.IsComposite(v)
	}
	return reg.MapLeaves(results[0], isLeaf, func(p tree.Path, _ any) (any, error) {
		column := make([]any, len(results))
		for k, res := range results {
			v, err := reg.Get(res, p)
			if err != nil {
				return nil, fmt.Errorf("axle: result %d does not mirror result 0 at %s: %w", k, p, err)
			}
			column[k] = v
		}
		return tensor.Stack(column)
	})
}
