package tree

import (
	"fmt"
	"strings"
)

// Path addresses a node as the sequence of child keys from the root.
type Path []string

// Child returns a new Path extended by key. The receiver is not modified.
func (p Path) Child(key string) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = key
	return out
}

func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	return strings.Join(p, ".")
}

// Leaf is one leaf of a tree together with its address.
type Leaf struct {
	Path  Path
	Value any
}

// Get returns the node at path. It fails if the path traverses a leaf or
// names a key that does not exist.
func (r *Registry) Get(node any, path Path) (any, error) {
	cur := node
	for i, key := range path {
		a, ok := r.Lookup(cur)
		if !ok {
			return nil, fmt.Errorf("tree: %s is a leaf, cannot descend into %q", Path(path[:i]), key)
		}
		keys, children, err := a.Decompose(cur)
		if err != nil {
			return nil, err
		}
		idx := indexOfKey(keys, key)
		if idx < 0 {
			return nil, fmt.Errorf("tree: no key %q at %s", key, Path(path[:i]))
		}
		cur = children[idx]
	}
	return cur, nil
}

// Set returns a copy of node with the value at path replaced. Containers on
// the path are rebuilt; everything off the path is shared with the input.
func (r *Registry) Set(node any, path Path, value any) (any, error) {
	if len(path) == 0 {
		return value, nil
	}
	a, ok := r.Lookup(node)
	if !ok {
		return nil, fmt.Errorf("tree: cannot descend into leaf %T", node)
	}
	keys, children, err := a.Decompose(node)
	if err != nil {
		return nil, err
	}
	idx := indexOfKey(keys, path[0])
	if idx < 0 {
		return nil, fmt.Errorf("tree: no key %q", path[0])
	}
	child, err := r.Set(children[idx], path[1:], value)
	if err != nil {
		return nil, err
	}
	rebuilt := make([]any, len(children))
	copy(rebuilt, children)
	rebuilt[idx] = child
	return a.Reconstruct(node, keys, rebuilt)
}

// Keys returns the child keys of node, or false if node is a leaf.
func (r *Registry) Keys(node any) ([]string, bool) {
	a, ok := r.Lookup(node)
	if !ok {
		return nil, false
	}
	keys, _, err := a.Decompose(node)
	if err != nil {
		return nil, false
	}
	return keys, true
}

// Leaves collects every leaf of node in traversal order. A node is a leaf
// when isLeaf returns true for it or when it has no registered adapter;
// a nil isLeaf matches nothing.
func (r *Registry) Leaves(node any, isLeaf func(any) bool) ([]Leaf, error) {
	var out []Leaf
	err := r.walk(Path{}, node, isLeaf, func(p Path, v any) error {
		out = append(out, Leaf{Path: p, Value: v})
		return nil
	})
	return out, err
}

// MapLeaves returns a copy of node with fn applied to every leaf. Shared
// structure above unchanged leaves is still rebuilt node by node, so the
// result never aliases a container of the input.
func (r *Registry) MapLeaves(node any, isLeaf func(any) bool, fn func(Path, any) (any, error)) (any, error) {
	return r.mapLeaves(Path{}, node, isLeaf, fn)
}

func (r *Registry) mapLeaves(p Path, node any, isLeaf func(any) bool, fn func(Path, any) (any, error)) (any, error) {
	if isLeaf != nil && isLeaf(node) {
		return fn(p, node)
	}
	a, ok := r.Lookup(node)
	if !ok {
		return fn(p, node)
	}
	keys, children, err := a.Decompose(node)
	if err != nil {
		return nil, err
	}
	rebuilt := make([]any, len(children))
	for i, child := range children {
		rebuilt[i], err = r.mapLeaves(p.Child(keys[i]), child, isLeaf, fn)
		if err != nil {
			return nil, err
		}
	}
	return a.Reconstruct(node, keys, rebuilt)
}

func (r *Registry) walk(p Path, node any, isLeaf func(any) bool, visit func(Path, any) error) error {
	if isLeaf != nil && isLeaf(node) {
		return visit(p, node)
	}
	a, ok := r.Lookup(node)
	if !ok {
		return visit(p, node)
	}
	keys, children, err := a.Decompose(node)
	if err != nil {
		return err
	}
	for i, child := range children {
		if err := r.walk(p.Child(keys[i]), child, isLeaf, visit); err != nil {
			return err
		}
	}
	return nil
}

func indexOfKey(keys []string, key string) int {
	for i, k := range keys {
		if k == key {
			return i
		}
	}
	return -1
}
