// Package tensor is axle's boundary toward array-like leaf values.
//
// The spec engine never interprets leaf data itself; whenever it needs a
// value's extents, a slice of it along one axis, or a stack of per-index
// results, it goes through the helpers here. They understand, in order:
// anything implementing Shaped, the flat Dense array, the payload-free Meta
// descriptor, nested Go slices and arrays, and plain scalars.
//
// Dense is intentionally minimal: a row-major float64 buffer with just the
// operations the loop machinery needs. It is a reference leaf type, not a
// numerics library.
package tensor
