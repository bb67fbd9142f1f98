package tensor

import (
	"fmt"
	"reflect"
)

// Shaped is implemented by leaf values that know their own extents,
// outermost axis first. Dense and Meta implement it; user leaf types can
// too, which is enough for validation against a Spec.
type Shaped interface {
	Extents() []int
}

// Meta describes the extents of an array that is not present: rank and
// extents with no payload. It lets shape declarations be validated before
// any data exists, for example from a manifest file.
type Meta []int

// Extents returns a copy of the described extents.
func (m Meta) Extents() []int {
	out := make([]int, len(m))
	copy(out, m)
	return out
}

// Rank returns the number of described axes.
func (m Meta) Rank() int { return len(m) }

// Take returns the descriptor of the slice at index i along axis: the same
// extents with that axis removed.
func (m Meta) Take(axis, i int) (Meta, error) {
	if axis < 0 || axis >= len(m) {
		return nil, fmt.Errorf("tensor: axis %d out of range for extents %v", axis, []int(m))
	}
	if i < 0 || i >= m[axis] {
		return nil, fmt.Errorf("tensor: index %d out of range on axis %d (extent %d)", i, axis, m[axis])
	}
	out := make(Meta, 0, len(m)-1)
	out = append(out, m[:axis]...)
	out = append(out, m[axis+1:]...)
	return out, nil
}

func (m Meta) String() string { return fmt.Sprintf("Meta%v", []int(m)) }

// ExtentsOf returns the extents of an arbitrary leaf value. Values
// implementing Shaped report their own; nested slices and arrays are
// measured from their first elements; everything else is a scalar with no
// extents. The result is always non-nil.
func ExtentsOf(v any) []int {
	if s, ok := v.(Shaped); ok {
		ext := s.Extents()
		if ext == nil {
			ext = []int{}
		}
		return ext
	}
	rv := reflect.ValueOf(v)
	ext := []int{}
	for rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		ext = append(ext, rv.Len())
		if rv.Len() == 0 {
			break
		}
		rv = reflect.ValueOf(rv.Index(0).Interface())
	}
	return ext
}

// Take returns the slice of v at index i along the given axis. Dense and
// Meta values slice natively; nested slices and arrays are sliced
// structurally. Scalars cannot be sliced.
func Take(v any, axis, i int) (any, error) {
	switch t := v.(type) {
	case *Dense:
		return t.Take(axis, i)
	case Meta:
		return t.Take(axis, i)
	}

	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, fmt.Errorf("tensor: cannot slice %T along axis %d", v, axis)
	}
	if axis == 0 {
		if i < 0 || i >= rv.Len() {
			return nil, fmt.Errorf("tensor: index %d out of range (extent %d)", i, rv.Len())
		}
		return rv.Index(i).Interface(), nil
	}
	if rv.Len() == 0 {
		return nil, fmt.Errorf("tensor: cannot slice axis %d of an empty outer axis", axis)
	}

	parts := make([]any, rv.Len())
	for j := 0; j < rv.Len(); j++ {
		sub, err := Take(rv.Index(j).Interface(), axis-1, i)
		if err != nil {
			return nil, err
		}
		parts[j] = sub
	}
	return assemble(parts), nil
}

// Stack combines per-index values into one value with a new leading axis,
// preserving order. Dense arrays stack into a Dense, Meta descriptors into
// a Meta, and uniformly typed Go values into a typed slice; anything mixed
// falls back to []any.
func Stack(parts []any) (any, error) {
	if len(parts) == 0 {
		return nil, fmt.Errorf("tensor: cannot stack zero values")
	}

	if _, ok := parts[0].(*Dense); ok {
		ds := make([]*Dense, len(parts))
		for i, p := range parts {
			d, ok := p.(*Dense)
			if !ok {
				return nil, fmt.Errorf("tensor: cannot stack %T with Dense", p)
			}
			ds[i] = d
		}
		return StackDense(ds)
	}

	if first, ok := parts[0].(Meta); ok {
		for i, p := range parts[1:] {
			m, ok := p.(Meta)
			if !ok || !sameExtents(m, first) {
				return nil, fmt.Errorf("tensor: cannot stack %v with %v at index %d", p, first, i+1)
			}
		}
		return append(Meta{len(parts)}, first...), nil
	}

	return assemble(parts), nil
}

// assemble turns parts into a single slice value, typed when every part
// shares one dynamic type.
func assemble(parts []any) any {
	t := reflect.TypeOf(parts[0])
	uniform := t != nil
	for _, p := range parts[1:] {
		if reflect.TypeOf(p) != t {
			uniform = false
			break
		}
	}
	if !uniform {
		return append([]any(nil), parts...)
	}
	out := reflect.MakeSlice(reflect.SliceOf(t), len(parts), len(parts))
	for i, p := range parts {
		out.Index(i).Set(reflect.ValueOf(p))
	}
	return out.Interface()
}

// Add returns the elementwise sum of two leaf values. Dense arrays add per
// element (extents must agree), a scalar added to a Dense broadcasts, and
// numeric scalars add as float64.
func Add(a, b any) (any, error) { return zip(a, b, "add", func(x, y float64) float64 { return x + y }) }

// Mul returns the elementwise product of two leaf values, with the same
// pairings as Add.
func Mul(a, b any) (any, error) { return zip(a, b, "multiply", func(x, y float64) float64 { return x * y }) }

func zip(a, b any, verb string, op func(x, y float64) float64) (any, error) {
	da, aIsDense := a.(*Dense)
	db, bIsDense := b.(*Dense)

	switch {
	case aIsDense && bIsDense:
		if !sameExtents(da.extents, db.extents) {
			return nil, fmt.Errorf("tensor: cannot %s extents %v and %v", verb, da.extents, db.extents)
		}
		out := Zeros(da.extents...)
		for i := range out.data {
			out.data[i] = op(da.data[i], db.data[i])
		}
		return out, nil

	case aIsDense:
		y, err := scalarOf(b)
		if err != nil {
			return nil, fmt.Errorf("tensor: cannot %s %T into Dense: %w", verb, b, err)
		}
		out := Zeros(da.extents...)
		for i := range out.data {
			out.data[i] = op(da.data[i], y)
		}
		return out, nil

	case bIsDense:
		x, err := scalarOf(a)
		if err != nil {
			return nil, fmt.Errorf("tensor: cannot %s %T into Dense: %w", verb, a, err)
		}
		out := Zeros(db.extents...)
		for i := range out.data {
			out.data[i] = op(x, db.data[i])
		}
		return out, nil
	}

	x, errA := scalarOf(a)
	y, errB := scalarOf(b)
	if errA != nil || errB != nil {
		return nil, fmt.Errorf("tensor: cannot %s %T and %T", verb, a, b)
	}
	return op(x, y), nil
}

func scalarOf(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("%T is not a numeric scalar", v)
}

func sameExtents(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
