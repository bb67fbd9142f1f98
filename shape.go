package axle

import "strings"

// Shape names the leading dimensions of one array leaf, outermost axis
// first. Position is meaning: Shape{"batch", "width"} says axis 0 runs over
// batch and axis 1 over width. An array may carry more axes than its Shape
// names; the trailing ones are simply not addressable by name.
//
// Shapes are value-like: every operation returns a new Shape and leaves the
// receiver alone.
type Shape []string

// Rank returns the number of named dimensions.
func (s Shape) Rank() int { return len(s) }

// Contains reports whether the dimension is named by this shape.
func (s Shape) Contains(name string) bool {
	for _, d := range s {
		if d == name {
			return true
		}
	}
	return false
}

// Index returns the axis position of the dimension. The error is a
// *DimensionNotFoundError when the shape does not name it.
func (s Shape) Index(name string) (int, error) {
	for i, d := range s {
		if d == name {
			return i, nil
		}
	}
	return 0, &DimensionNotFoundError{Dimension: name, Shape: s.Clone()}
}

// Remove returns a copy of the shape without the dimension; later
// dimensions shift one axis down. The error is a *DimensionNotFoundError
// when the shape does not name it.
func (s Shape) Remove(name string) (Shape, error) {
	i, err := s.Index(name)
	if err != nil {
		return nil, err
	}
	out := make(Shape, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, nil
}

// Clone returns an independent copy.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// Equal reports whether both shapes name the same dimensions in the same
// order.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

func (s Shape) String() string {
	return "[" + strings.Join(s, ", ") + "]"
}
