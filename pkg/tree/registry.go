package tree

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"sync"
)

// Adapter decomposes one container type into keyed children and rebuilds it.
//
// The two functions must be inverses: Reconstruct(node, Decompose(node))
// returns a value equivalent to node. Decompose must be deterministic so
// that repeated walks of the same tree visit children in the same order.
type Adapter struct {
	// Decompose returns the child keys and the children of node, in a
	// stable order. Keys are strings even for positional containers.
	Decompose func(node any) (keys []string, children []any, err error)

	// Reconstruct builds a new container of the same kind as node from
	// keys and children. It must not mutate node. The number of children
	// may differ from the original (merges add keys, removals drop them).
	Reconstruct func(node any, keys []string, children []any) (any, error)
}

// Registry maps Go types to their Adapter. Lookups use the dynamic type of
// the value, so pointer and value types register independently.
type Registry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]Adapter
}

// NewRegistry returns a registry with the builtin container types
// registered: map[string]any (children ordered by sorted key) and []any
// (children ordered by index).
func NewRegistry() *Registry {
	r := &Registry{byType: make(map[reflect.Type]Adapter)}
	r.Register(map[string]any(nil), mapAdapter())
	r.Register([]any(nil), sliceAdapter())
	return r
}

// Default is the registry used when no explicit one is supplied. Custom
// container types registered here are visible to every default-configured
// Spec.
var Default = NewRegistry()

// Register installs an adapter for the dynamic type of prototype. An
// existing adapter for the same type is overwritten.
func (r *Registry) Register(prototype any, a Adapter) {
	t := reflect.TypeOf(prototype)
	if t == nil {
		panic("tree: cannot register adapter for untyped nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byType[t] = a
}

// Lookup returns the adapter for the dynamic type of v. The second return
// is false when v is nil or no adapter is registered, meaning v is a leaf.
func (r *Registry) Lookup(v any) (Adapter, bool) {
	t := reflect.TypeOf(v)
	if t == nil {
		return Adapter{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byType[t]
	return a, ok
}

// IsComposite reports whether v has a registered adapter.
func (r *Registry) IsComposite(v any) bool {
	_, ok := r.Lookup(v)
	return ok
}

func mapAdapter() Adapter {
	return Adapter{
		Decompose: func(node any) ([]string, []any, error) {
			m, ok := node.(map[string]any)
			if !ok {
				return nil, nil, fmt.Errorf("tree: expected map[string]any, got %T", node)
			}
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			children := make([]any, len(keys))
			for i, k := range keys {
				children[i] = m[k]
			}
			return keys, children, nil
		},
		Reconstruct: func(_ any, keys []string, children []any) (any, error) {
			if len(keys) != len(children) {
				return nil, fmt.Errorf("tree: %d keys for %d children", len(keys), len(children))
			}
			m := make(map[string]any, len(keys))
			for i, k := range keys {
				m[k] = children[i]
			}
			return m, nil
		},
	}
}

func sliceAdapter() Adapter {
	return Adapter{
		Decompose: func(node any) ([]string, []any, error) {
			s, ok := node.([]any)
			if !ok {
				return nil, nil, fmt.Errorf("tree: expected []any, got %T", node)
			}
			keys := make([]string, len(s))
			children := make([]any, len(s))
			for i, v := range s {
				keys[i] = strconv.Itoa(i)
				children[i] = v
			}
			return keys, children, nil
		},
		Reconstruct: func(_ any, keys []string, children []any) (any, error) {
			if len(keys) != len(children) {
				return nil, fmt.Errorf("tree: %d keys for %d children", len(keys), len(children))
			}
			out := make([]any, len(children))
			copy(out, children)
			return out, nil
		},
	}
}
