package axle

import (
	"fmt"
	"strconv"

	"github.com/arnevik/axle/pkg/tree"
)

// Axis is the position of a dimension within one leaf's shape, or AxisNone
// when the leaf does not carry the dimension.
type Axis int

// AxisNone marks a leaf that does not carry the looked-up dimension.
const AxisNone Axis = -1

func (a Axis) String() string {
	if a == AxisNone {
		return "none"
	}
	return strconv.Itoa(int(a))
}

// AxisLeaf is one leaf of an AxisMap.
type AxisLeaf struct {
	Path tree.Path
	Axis Axis
}

// AxisMap mirrors a Spec's tree with an Axis per leaf. It is the result of
// Spec.IndexFor and the input the loop machinery plans slicing from.
type AxisMap struct {
	reg  *tree.Registry
	root any
}

// At returns the axis at the given leaf path.
func (m *AxisMap) At(path ...string) (Axis, error) {
	v, err := m.reg.Get(m.root, tree.Path(path))
	if err != nil {
		return AxisNone, err
	}
	a, ok := v.(Axis)
	if !ok {
		return AxisNone, fmt.Errorf("axle: %s is not a leaf of the axis map", tree.Path(path))
	}
	return a, nil
}

// Leaves returns every leaf with its path, in spec traversal order.
func (m *AxisMap) Leaves() []AxisLeaf {
	leaves, err := m.reg.Leaves(m.root, isAxis)
	if err != nil {
		return nil
	}
	out := make([]AxisLeaf, len(leaves))
	for i, l := range leaves {
		out[i] = AxisLeaf{Path: l.Path, Axis: l.Value.(Axis)}
	}
	return out
}

// AllAbsent reports whether no leaf carries the dimension.
func (m *AxisMap) AllAbsent() bool {
	for _, l := range m.Leaves() {
		if l.Axis != AxisNone {
			return false
		}
	}
	return true
}

// Tree returns the map as a plain tree whose leaves are int axis positions,
// or nil where the dimension is absent. Handy for display and comparisons.
func (m *AxisMap) Tree() any {
	out, err := m.reg.MapLeaves(m.root, isAxis, func(_ tree.Path, v any) (any, error) {
		a := v.(Axis)
		if a == AxisNone {
			return nil, nil
		}
		return int(a), nil
	})
	if err != nil {
		return nil
	}
	return out
}

func (m *AxisMap) String() string {
	return fmt.Sprintf("%v", m.Tree())
}

func isAxis(v any) bool {
	_, ok := v.(Axis)
	return ok
}
