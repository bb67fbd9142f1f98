package tensor

import (
	"fmt"
	"strings"
)

// Dense is a row-major float64 array. The payload is one contiguous buffer;
// index arithmetic is plain offset math, there are no views or strides.
// A Dense with no extents is a scalar holding a single element.
type Dense struct {
	extents []int
	data    []float64
}

// NewDense wraps data as an array with the given extents. The data length
// must equal the product of the extents. The slices are used directly, not
// copied.
func NewDense(extents []int, data []float64) (*Dense, error) {
	n := 1
	for _, e := range extents {
		if e < 0 {
			return nil, fmt.Errorf("tensor: negative extent %d", e)
		}
		n *= e
	}
	if n != len(data) {
		return nil, fmt.Errorf("tensor: extents %v need %d elements, got %d", extents, n, len(data))
	}
	return &Dense{extents: extents, data: data}, nil
}

// Zeros returns a zero-filled array with the given extents.
func Zeros(extents ...int) *Dense {
	n := 1
	for _, e := range extents {
		n *= e
	}
	return &Dense{extents: append([]int(nil), extents...), data: make([]float64, n)}
}

// Full returns an array with every element set to v.
func Full(v float64, extents ...int) *Dense {
	d := Zeros(extents...)
	for i := range d.data {
		d.data[i] = v
	}
	return d
}

// Arange returns the 1-D array [0, 1, ..., n-1].
func Arange(n int) *Dense {
	d := Zeros(n)
	for i := range d.data {
		d.data[i] = float64(i)
	}
	return d
}

// Extents returns a copy of the array's extents, outermost first. It is
// empty but never nil for a scalar.
func (d *Dense) Extents() []int {
	out := make([]int, len(d.extents))
	copy(out, d.extents)
	return out
}

// Rank returns the number of axes.
func (d *Dense) Rank() int { return len(d.extents) }

// Size returns the total number of elements.
func (d *Dense) Size() int { return len(d.data) }

// Data returns the backing buffer. Mutating it mutates the array.
func (d *Dense) Data() []float64 { return d.data }

// At returns the element at the given index, one coordinate per axis.
func (d *Dense) At(idx ...int) float64 {
	off, err := d.offset(idx)
	if err != nil {
		panic("tensor: " + err.Error())
	}
	return d.data[off]
}

func (d *Dense) offset(idx []int) (int, error) {
	if len(idx) != len(d.extents) {
		return 0, fmt.Errorf("index %v has %d coordinates, array has rank %d", idx, len(idx), len(d.extents))
	}
	off := 0
	for i, x := range idx {
		if x < 0 || x >= d.extents[i] {
			return 0, fmt.Errorf("index %d out of range for axis %d (extent %d)", x, i, d.extents[i])
		}
		off = off*d.extents[i] + x
	}
	return off, nil
}

// Take returns the sub-array at index i along the given axis. The result
// has one axis fewer; taking from a 1-D array yields a scalar Dense.
func (d *Dense) Take(axis, i int) (*Dense, error) {
	if axis < 0 || axis >= len(d.extents) {
		return nil, fmt.Errorf("tensor: axis %d out of range for extents %v", axis, d.extents)
	}
	if i < 0 || i >= d.extents[axis] {
		return nil, fmt.Errorf("tensor: index %d out of range on axis %d (extent %d)", i, axis, d.extents[axis])
	}

	outer := 1
	for _, e := range d.extents[:axis] {
		outer *= e
	}
	inner := 1
	for _, e := range d.extents[axis+1:] {
		inner *= e
	}

	out := make([]float64, outer*inner)
	step := d.extents[axis] * inner
	for o := 0; o < outer; o++ {
		src := o*step + i*inner
		copy(out[o*inner:(o+1)*inner], d.data[src:src+inner])
	}

	extents := make([]int, 0, len(d.extents)-1)
	extents = append(extents, d.extents[:axis]...)
	extents = append(extents, d.extents[axis+1:]...)
	return &Dense{extents: extents, data: out}, nil
}

// Equal reports whether both arrays have the same extents and elements.
func (d *Dense) Equal(o *Dense) bool {
	if o == nil || len(d.extents) != len(o.extents) {
		return false
	}
	for i := range d.extents {
		if d.extents[i] != o.extents[i] {
			return false
		}
	}
	for i := range d.data {
		if d.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

func (d *Dense) String() string {
	parts := make([]string, len(d.extents))
	for i, e := range d.extents {
		parts[i] = fmt.Sprint(e)
	}
	return "Dense(" + strings.Join(parts, "x") + ")"
}

// StackDense combines arrays of identical extents into one array with a new
// leading axis of extent len(parts), preserving order.
func StackDense(parts []*Dense) (*Dense, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("tensor: cannot stack zero arrays")
	}
	first := parts[0]
	for k, p := range parts[1:] {
		if len(p.extents) != len(first.extents) {
			return nil, fmt.Errorf("tensor: stack rank mismatch at %d: %v vs %v", k+1, p.extents, first.extents)
		}
		for i := range p.extents {
			if p.extents[i] != first.extents[i] {
				return nil, fmt.Errorf("tensor: stack extent mismatch at %d: %v vs %v", k+1, p.extents, first.extents)
			}
		}
	}

	data := make([]float64, 0, len(parts)*len(first.data))
	for _, p := range parts {
		data = append(data, p.data...)
	}
	extents := append([]int{len(parts)}, first.extents...)
	return &Dense{extents: extents, data: data}, nil
}
