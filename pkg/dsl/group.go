package dsl

import (
	"fmt"

	"github.com/arnevik/axle"
)

// GroupBuilder provides a fluent API for filling one container of the tree.
type GroupBuilder struct {
	builder *Builder
	node    map[string]any
	path    string
}

// Leaf places a shape leaf at key inside this group.
func (g *GroupBuilder) Leaf(key string, dims ...string) *GroupBuilder {
	g.builder.put(g.path, g.node, key, axle.Shape(dims))
	return g
}

// Group creates a nested container under key.
// If the group already exists, it returns the existing builder.
func (g *GroupBuilder) Group(key string) *GroupBuilder {
	return g.builder.group(g.path, g.node, key)
}

// List creates a nested sequence container under key.
func (g *GroupBuilder) List(key string) *ListBuilder {
	l := &ListBuilder{builder: g.builder, path: join(g.path, key)}
	g.builder.put(g.path, g.node, key, l)
	return l
}

// ListBuilder fills a sequence container. Entries keep the order they
// were appended in.
type ListBuilder struct {
	builder *Builder
	items   []any
	path    string
}

// Leaf appends a shape leaf to the sequence.
func (l *ListBuilder) Leaf(dims ...string) *ListBuilder {
	l.items = append(l.items, axle.Shape(dims))
	return l
}

// Group appends a nested container to the sequence and returns its builder.
func (l *ListBuilder) Group() *GroupBuilder {
	path := fmt.Sprintf("%s[%d]", l.path, len(l.items))
	g := &GroupBuilder{builder: l.builder, node: make(map[string]any), path: path}
	l.items = append(l.items, g)
	return g
}
