package axle

import (
	"fmt"
	"strings"

	"github.com/arnevik/axle/pkg/tree"
)

// DimensionNotFoundError reports a dimension name that the addressed shape,
// or the whole spec, does not know. Shape is empty when the lookup was
// tree-wide.
type DimensionNotFoundError struct {
	Dimension string
	Shape     Shape
}

func (e *DimensionNotFoundError) Error() string {
	if len(e.Shape) > 0 {
		return fmt.Sprintf("dimension %q not found in shape %s", e.Dimension, e.Shape)
	}
	return fmt.Sprintf("dimension %q not found in any leaf of the spec", e.Dimension)
}

// RankMismatchError reports a data leaf with fewer axes than its shape
// names.
type RankMismatchError struct {
	Path    tree.Path
	Shape   Shape
	Extents []int
}

func (e *RankMismatchError) Error() string {
	return fmt.Sprintf("leaf %s: shape %s names %d dimensions but the value has rank %d (extents %v)",
		e.Path, e.Shape, e.Shape.Rank(), len(e.Extents), e.Extents)
}

// ExtentConflict is one observation of a dimension's extent at a particular
// leaf and axis.
type ExtentConflict struct {
	Path   tree.Path
	Axis   int
	Extent int
}

func (c ExtentConflict) String() string {
	return fmt.Sprintf("%s[axis %d]=%d", c.Path, c.Axis, c.Extent)
}

// ShapeMismatchError reports a dimension whose extent differs between
// leaves that share its name. Conflicts lists every observation of the
// dimension so the disagreeing leaves can be identified.
type ShapeMismatchError struct {
	Dimension string
	Conflicts []ExtentConflict
}

func (e *ShapeMismatchError) Error() string {
	parts := make([]string, len(e.Conflicts))
	for i, c := range e.Conflicts {
		parts[i] = c.String()
	}
	return fmt.Sprintf("dimension %q has conflicting extents: %s", e.Dimension, strings.Join(parts, ", "))
}

// StructureMismatchError reports a point where the data tree stops
// mirroring the spec tree: different container keys, a container where the
// spec expects none, or the other way around.
type StructureMismatchError struct {
	Path   tree.Path
	Detail string
}

func (e *StructureMismatchError) Error() string {
	return fmt.Sprintf("structure mismatch at %s: %s", e.Path, e.Detail)
}
