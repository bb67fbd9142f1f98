package tree_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnevik/axle/pkg/tree"
)

func sampleTree() map[string]any {
	return map[string]any{
		"a": map[string]any{"b": 1, "c": 2},
		"d": []any{"x", "y"},
	}
}

func TestGet(t *testing.T) {
	r := tree.NewRegistry()
	node := sampleTree()

	t.Run("descends maps and slices", func(t *testing.T) {
		v, err := r.Get(node, tree.Path{"a", "c"})
		require.NoError(t, err)
		assert.Equal(t, 2, v)

		v, err = r.Get(node, tree.Path{"d", "1"})
		require.NoError(t, err)
		assert.Equal(t, "y", v)
	})

	t.Run("empty path returns the node itself", func(t *testing.T) {
		v, err := r.Get(node, nil)
		require.NoError(t, err)
		assert.Equal(t, node, v)
	})

	t.Run("missing key errors", func(t *testing.T) {
		_, err := r.Get(node, tree.Path{"a", "nope"})
		assert.ErrorContains(t, err, `no key "nope"`)
	})

	t.Run("descending into a leaf errors", func(t *testing.T) {
		_, err := r.Get(node, tree.Path{"a", "b", "deeper"})
		assert.ErrorContains(t, err, "leaf")
	})
}

func TestSet(t *testing.T) {
	r := tree.NewRegistry()

	t.Run("replaces without mutating the original", func(t *testing.T) {
		node := sampleTree()
		out, err := r.Set(node, tree.Path{"a", "b"}, 99)
		require.NoError(t, err)

		v, err := r.Get(out, tree.Path{"a", "b"})
		require.NoError(t, err)
		assert.Equal(t, 99, v)
		assert.Equal(t, 1, node["a"].(map[string]any)["b"], "input tree must stay untouched")
	})

	t.Run("untouched branches keep their values", func(t *testing.T) {
		node := sampleTree()
		out, err := r.Set(node, tree.Path{"d", "0"}, "z")
		require.NoError(t, err)

		v, err := r.Get(out, tree.Path{"a", "c"})
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})

	t.Run("empty path replaces the root", func(t *testing.T) {
		out, err := r.Set(sampleTree(), nil, "flat")
		require.NoError(t, err)
		assert.Equal(t, "flat", out)
	})
}

func TestLeaves(t *testing.T) {
	r := tree.NewRegistry()
	leaves, err := r.Leaves(sampleTree(), nil)
	require.NoError(t, err)

	got := make(map[string]any, len(leaves))
	for _, l := range leaves {
		got[l.Path.String()] = l.Value
	}
	assert.Equal(t, map[string]any{
		"a.b": 1,
		"a.c": 2,
		"d.0": "x",
		"d.1": "y",
	}, got)
}

func TestLeavesWithPredicate(t *testing.T) {
	r := tree.NewRegistry()
	node := map[string]any{"keep": []any{1, 2}, "open": map[string]any{"x": 3}}

	// Treat []any as an opaque leaf.
	isLeaf := func(v any) bool { _, ok := v.([]any); return ok }
	leaves, err := r.Leaves(node, isLeaf)
	require.NoError(t, err)

	paths := make([]string, len(leaves))
	for i, l := range leaves {
		paths[i] = l.Path.String()
	}
	assert.Equal(t, []string{"keep", "open.x"}, paths)
}

func TestMapLeaves(t *testing.T) {
	r := tree.NewRegistry()
	node := sampleTree()

	out, err := r.MapLeaves(node, nil, func(p tree.Path, v any) (any, error) {
		return p.String(), nil
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": "a.b", "c": "a.c"},
		"d": []any{"d.0", "d.1"},
	}, out)
	assert.Equal(t, sampleTree(), node, "input tree must stay untouched")
}

func TestMapLeavesOnLeafRoot(t *testing.T) {
	r := tree.NewRegistry()
	out, err := r.MapLeaves(7, nil, func(p tree.Path, v any) (any, error) {
		assert.Equal(t, "$", p.String())
		return v.(int) * 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 14, out)
}

func TestPathString(t *testing.T) {
	assert.Equal(t, "$", tree.Path{}.String())
	assert.Equal(t, "a.b.0", tree.Path{"a", "b", "0"}.String())

	p := tree.Path{"a"}
	child := p.Child("b")
	assert.Equal(t, "a.b", child.String())
	assert.Equal(t, "a", strings.Join(p, "."), "Child must not mutate the parent")
}
