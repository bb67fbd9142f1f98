package dsl

import (
	"fmt"

	"github.com/arnevik/axle"
	"github.com/arnevik/axle/pkg/tree"
)

// Builder manages the spec tree construction.
type Builder struct {
	root map[string]any
	opts []axle.Option
	err  error
}

// New creates a new spec builder.
func New() *Builder {
	return &Builder{
		root: make(map[string]any),
	}
}

// WithRegistry makes Build compile the spec against reg instead of the
// default capability registry.
func (b *Builder) WithRegistry(reg *tree.Registry) *Builder {
	b.opts = append(b.opts, axle.WithRegistry(reg))
	return b
}

// Leaf places a shape leaf at key, naming its leading axes outermost
// first. No dims means a rank-0 leaf.
func (b *Builder) Leaf(key string, dims ...string) *Builder {
	b.put("", b.root, key, axle.Shape(dims))
	return b
}

// Group creates a new container under key.
// If the group already exists, it returns the existing builder.
func (b *Builder) Group(key string) *GroupBuilder {
	return b.group("", b.root, key)
}

// List creates a new sequence container under key.
func (b *Builder) List(key string) *ListBuilder {
	path := key
	l := &ListBuilder{builder: b, path: path}
	b.put("", b.root, key, l)
	return l
}

// Build compiles the tree into a Spec.
func (b *Builder) Build() (*axle.Spec, error) {
	if b.err != nil {
		return nil, b.err
	}
	spec, err := axle.New(resolve(b.root), b.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build spec: %w", err)
	}
	return spec, nil
}

// MustBuild is like Build but panics on error. Useful for specs that are
// fixed at compile time, like tests and package literals.
func (b *Builder) MustBuild() *axle.Spec {
	spec, err := b.Build()
	if err != nil {
		panic(err)
	}
	return spec
}

func (b *Builder) put(at string, node map[string]any, key string, v any) {
	if key == "" {
		b.fail(fmt.Errorf("dsl: empty key at %q", at))
		return
	}
	if _, ok := node[key]; ok {
		b.fail(fmt.Errorf("dsl: duplicate key %q at %q", key, at))
		return
	}
	node[key] = v
}

func (b *Builder) group(at string, node map[string]any, key string) *GroupBuilder {
	path := join(at, key)
	if cur, ok := node[key]; ok {
		if g, ok := cur.(*GroupBuilder); ok {
			return g
		}
		b.fail(fmt.Errorf("dsl: key %q already holds a %T", path, node[key]))
		return &GroupBuilder{builder: b, node: make(map[string]any), path: path}
	}
	g := &GroupBuilder{builder: b, node: make(map[string]any), path: path}
	node[key] = g
	return g
}

// fail records the first error; Build reports it.
func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func join(at, key string) string {
	if at == "" {
		return key
	}
	return at + "." + key
}

// resolve flattens nested sub-builders into the plain containers the
// spec constructor accepts.
func resolve(v any) any {
	switch n := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, c := range n {
			out[k] = resolve(c)
		}
		return out
	case *GroupBuilder:
		return resolve(n.node)
	case *ListBuilder:
		out := make([]any, len(n.items))
		for i, c := range n.items {
			out[i] = resolve(c)
		}
		return out
	default:
		return v
	}
}
