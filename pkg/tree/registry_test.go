package tree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnevik/axle/pkg/tree"
)

func TestBuiltinAdapters(t *testing.T) {
	r := tree.NewRegistry()

	t.Run("map decomposes in sorted key order", func(t *testing.T) {
		a, ok := r.Lookup(map[string]any{})
		require.True(t, ok)

		keys, children, err := a.Decompose(map[string]any{"b": 2, "a": 1, "c": 3})
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, keys)
		assert.Equal(t, []any{1, 2, 3}, children)
	})

	t.Run("slice decomposes by index", func(t *testing.T) {
		a, ok := r.Lookup([]any{})
		require.True(t, ok)

		keys, children, err := a.Decompose([]any{"x", "y"})
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "1"}, keys)
		assert.Equal(t, []any{"x", "y"}, children)
	})

	t.Run("round trip restores the container", func(t *testing.T) {
		for _, node := range []any{
			map[string]any{"a": 1, "b": map[string]any{"c": 2}},
			[]any{1, "two", 3.0},
		} {
			a, ok := r.Lookup(node)
			require.True(t, ok)

			keys, children, err := a.Decompose(node)
			require.NoError(t, err)
			rebuilt, err := a.Reconstruct(node, keys, children)
			require.NoError(t, err)
			assert.Equal(t, node, rebuilt)
		}
	})
}

func TestLookup(t *testing.T) {
	r := tree.NewRegistry()

	t.Run("unregistered types are leaves", func(t *testing.T) {
		assert.False(t, r.IsComposite(42))
		assert.False(t, r.IsComposite("text"))
		assert.False(t, r.IsComposite([]float64{1, 2}))
		assert.False(t, r.IsComposite(map[int]string{}))
	})

	t.Run("nil is a leaf", func(t *testing.T) {
		assert.False(t, r.IsComposite(nil))
	})

	t.Run("registered containers are composite", func(t *testing.T) {
		assert.True(t, r.IsComposite(map[string]any{}))
		assert.True(t, r.IsComposite([]any{}))
	})
}

type pair struct {
	Left  any
	Right any
}

func pairAdapter() tree.Adapter {
	return tree.Adapter{
		Decompose: func(node any) ([]string, []any, error) {
			p := node.(pair)
			return []string{"left", "right"}, []any{p.Left, p.Right}, nil
		},
		Reconstruct: func(_ any, keys []string, children []any) (any, error) {
			return pair{Left: children[0], Right: children[1]}, nil
		},
	}
}

func TestRegisterCustomType(t *testing.T) {
	r := tree.NewRegistry()
	r.Register(pair{}, pairAdapter())

	node := pair{Left: 1, Right: []any{2, 3}}
	require.True(t, r.IsComposite(node))

	a, ok := r.Lookup(node)
	require.True(t, ok)

	keys, children, err := a.Decompose(node)
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, keys)

	rebuilt, err := a.Reconstruct(node, keys, children)
	require.NoError(t, err)
	assert.Equal(t, node, rebuilt)
}
