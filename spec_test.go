package axle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnevik/axle"
	"github.com/arnevik/axle/pkg/tensor"
	"github.com/arnevik/axle/pkg/tree"
)

func imageSpec(t *testing.T) *axle.Spec {
	t.Helper()
	return axle.MustNew(map[string]any{
		"images": axle.Shape{"batch", "width", "height"},
		"labels": axle.Shape{"batch", "tokens"},
	})
}

func TestNew(t *testing.T) {
	t.Run("accepts shape, string slice and yaml leaf forms", func(t *testing.T) {
		s, err := axle.New(map[string]any{
			"a": axle.Shape{"x"},
			"b": []string{"y"},
			"c": []any{"z"},
			"d": []any{},
		})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"x", "y", "z"}, s.Dimensions())
	})

	t.Run("rejects nil nodes", func(t *testing.T) {
		_, err := axle.New(map[string]any{"a": nil})
		assert.ErrorContains(t, err, "nil spec node at a")
	})

	t.Run("rejects unregistered leaves", func(t *testing.T) {
		_, err := axle.New(map[string]any{"a": 42})
		assert.ErrorContains(t, err, "unsupported spec node int at a")
	})

	t.Run("a bare shape is a valid spec", func(t *testing.T) {
		s, err := axle.New(axle.Shape{"n"})
		require.NoError(t, err)
		assert.True(t, s.IsLeaf())
	})

	t.Run("MustNew panics on bad literals", func(t *testing.T) {
		assert.Panics(t, func() { axle.MustNew(42) })
	})
}

func TestSpecValidate(t *testing.T) {
	spec := imageSpec(t)

	t.Run("matching data passes", func(t *testing.T) {
		err := spec.Validate(map[string]any{
			"images": tensor.Zeros(32, 128, 128),
			"labels": tensor.Zeros(32, 10),
		})
		assert.NoError(t, err)
	})

	t.Run("shape descriptors validate without payloads", func(t *testing.T) {
		err := spec.Validate(map[string]any{
			"images": tensor.Meta{32, 128, 128},
			"labels": tensor.Meta{32, 10},
		})
		assert.NoError(t, err)
	})

	t.Run("nested go slices count as arrays", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"m": axle.Shape{"row", "col"}})
		err := s.Validate(map[string]any{"m": [][]float64{{1, 2}, {3, 4}, {5, 6}}})
		assert.NoError(t, err)
	})

	t.Run("trailing unnamed axes are ignored", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"v": axle.Shape{"batch"}})
		err := s.Validate(map[string]any{"v": tensor.Zeros(4, 7, 9)})
		assert.NoError(t, err)
	})

	t.Run("conflicting extents name every leaf", func(t *testing.T) {
		err := spec.Validate(map[string]any{
			"images": tensor.Zeros(32, 128, 128),
			"labels": tensor.Zeros(16, 10),
		})
		var mismatch *axle.ShapeMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "batch", mismatch.Dimension)
		require.Len(t, mismatch.Conflicts, 2)
		assert.Equal(t, "images", mismatch.Conflicts[0].Path.String())
		assert.Equal(t, 32, mismatch.Conflicts[0].Extent)
		assert.Equal(t, "labels", mismatch.Conflicts[1].Path.String())
		assert.Equal(t, 16, mismatch.Conflicts[1].Extent)
		assert.ErrorContains(t, err, `dimension "batch" has conflicting extents: images[axis 0]=32, labels[axis 0]=16`)
	})

	t.Run("too few axes", func(t *testing.T) {
		err := spec.Validate(map[string]any{
			"images": tensor.Zeros(32, 128),
			"labels": tensor.Zeros(32, 10),
		})
		var rank *axle.RankMismatchError
		require.ErrorAs(t, err, &rank)
		assert.Equal(t, "images", rank.Path.String())
		assert.Equal(t, []int{32, 128}, rank.Extents)
	})

	t.Run("missing key", func(t *testing.T) {
		err := spec.Validate(map[string]any{"images": tensor.Zeros(32, 128, 128)})
		var structure *axle.StructureMismatchError
		require.ErrorAs(t, err, &structure)
		assert.Equal(t, "$", structure.Path.String())
	})

	t.Run("extra key", func(t *testing.T) {
		err := spec.Validate(map[string]any{
			"images": tensor.Zeros(32, 128, 128),
			"labels": tensor.Zeros(32, 10),
			"masks":  tensor.Zeros(32),
		})
		var structure *axle.StructureMismatchError
		assert.ErrorAs(t, err, &structure)
	})

	t.Run("leaf data under container spec", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"outer": map[string]any{"inner": axle.Shape{"n"}}})
		err := s.Validate(map[string]any{"outer": 3.14})
		var structure *axle.StructureMismatchError
		require.ErrorAs(t, err, &structure)
		assert.Equal(t, "outer", structure.Path.String())
	})

	t.Run("rank zero leaves accept scalars", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"scale": axle.Shape{}})
		assert.NoError(t, s.Validate(map[string]any{"scale": 2.5}))
	})
}

func TestSpecIndexFor(t *testing.T) {
	spec := imageSpec(t)

	t.Run("per leaf axis or absence", func(t *testing.T) {
		assert.Equal(t, map[string]any{"images": 0, "labels": 0}, spec.IndexFor("batch").Tree())
		assert.Equal(t, map[string]any{"images": nil, "labels": 1}, spec.IndexFor("tokens").Tree())
		assert.Equal(t, map[string]any{"images": 2, "labels": nil}, spec.IndexFor("height").Tree())
	})

	t.Run("absent everywhere", func(t *testing.T) {
		m := spec.IndexFor("channels")
		assert.True(t, m.AllAbsent())
		assert.Equal(t, map[string]any{"images": nil, "labels": nil}, m.Tree())
	})

	t.Run("At addresses single leaves", func(t *testing.T) {
		ax, err := spec.IndexFor("tokens").At("labels")
		require.NoError(t, err)
		assert.Equal(t, axle.Axis(1), ax)

		ax, err = spec.IndexFor("tokens").At("images")
		require.NoError(t, err)
		assert.Equal(t, axle.AxisNone, ax)
	})
}

func TestSpecRemove(t *testing.T) {
	spec := imageSpec(t)

	t.Run("strips the dimension everywhere", func(t *testing.T) {
		out := spec.Remove("batch")
		assert.True(t, out.IndexFor("batch").AllAbsent())
		assert.Equal(t, map[string]any{"images": 0, "labels": nil}, out.IndexFor("width").Tree())
		assert.Equal(t, map[string]any{"images": nil, "labels": 0}, out.IndexFor("tokens").Tree())
	})

	t.Run("later axes shift down", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"x": axle.Shape{"a", "b", "c"}})
		out := s.Remove("b")
		ax, err := out.IndexFor("c").At("x")
		require.NoError(t, err)
		assert.Equal(t, axle.Axis(1), ax)
	})

	t.Run("absent dimension is a no-op", func(t *testing.T) {
		assert.True(t, spec.Remove("nope").Equal(spec))
	})

	t.Run("receiver stays intact", func(t *testing.T) {
		_ = spec.Remove("batch")
		assert.True(t, spec.HasDimension("batch"))
	})
}

func TestSpecReplace(t *testing.T) {
	t.Run("leaves replace wholesale", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"a": axle.Shape{"x"}, "b": axle.Shape{"y"}})
		out, err := s.Replace(map[string]any{"a": []string{"z", "w"}})
		require.NoError(t, err)
		assert.True(t, out.Equal(axle.MustNew(map[string]any{
			"a": axle.Shape{"z", "w"},
			"b": axle.Shape{"y"},
		})))
	})

	t.Run("containers merge by key and gain new keys", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"a": map[string]any{"b": axle.Shape{"x"}}})
		out, err := s.Replace(map[string]any{"a": map[string]any{"c": []string{"y"}}})
		require.NoError(t, err)
		assert.True(t, out.Equal(axle.MustNew(map[string]any{
			"a": map[string]any{"b": axle.Shape{"x"}, "c": axle.Shape{"y"}},
		})))
	})

	t.Run("nil removes the subtree", func(t *testing.T) {
		s := imageSpec(t)
		out, err := s.Replace(map[string]any{"images": nil})
		require.NoError(t, err)
		assert.True(t, out.Equal(axle.MustNew(map[string]any{
			"labels": axle.Shape{"batch", "tokens"},
		})))
	})

	t.Run("emptied containers are pruned", func(t *testing.T) {
		s := axle.MustNew(map[string]any{
			"p": map[string]any{"q": axle.Shape{"x"}},
			"r": axle.Shape{},
		})
		out, err := s.Replace(map[string]any{"p": map[string]any{"q": nil}})
		require.NoError(t, err)
		assert.True(t, out.Equal(axle.MustNew(map[string]any{"r": axle.Shape{}})))
	})

	t.Run("removing an absent key is a no-op", func(t *testing.T) {
		s := imageSpec(t)
		out, err := s.Replace(map[string]any{"masks": nil})
		require.NoError(t, err)
		assert.True(t, out.Equal(s))
	})

	t.Run("a container replaces a leaf wholesale", func(t *testing.T) {
		s := axle.MustNew(map[string]any{"a": axle.Shape{"x"}})
		out, err := s.Replace(map[string]any{"a": map[string]any{"inner": []string{"y"}}})
		require.NoError(t, err)
		assert.True(t, out.Equal(axle.MustNew(map[string]any{
			"a": map[string]any{"inner": axle.Shape{"y"}},
		})))
	})

	t.Run("receiver stays intact", func(t *testing.T) {
		s := imageSpec(t)
		_, err := s.Replace(map[string]any{"images": nil})
		require.NoError(t, err)
		assert.True(t, s.HasDimension("width"))
	})
}

func TestSpecDimensions(t *testing.T) {
	spec := imageSpec(t)
	assert.Equal(t, []string{"batch", "height", "tokens", "width"}, spec.Dimensions())
	assert.True(t, spec.HasDimension("batch", "tokens"))
	assert.False(t, spec.HasDimension("batch", "channels"))
}

func TestSpecExtent(t *testing.T) {
	spec := imageSpec(t)
	data := map[string]any{
		"images": tensor.Zeros(32, 128, 128),
		"labels": tensor.Zeros(32, 10),
	}

	t.Run("reads extents off data", func(t *testing.T) {
		n, err := spec.Extent(data, "batch")
		require.NoError(t, err)
		assert.Equal(t, 32, n)

		all, err := spec.Extents(data)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"batch": 32, "width": 128, "height": 128, "tokens": 10}, all)
	})

	t.Run("unknown dimension", func(t *testing.T) {
		_, err := spec.Extent(data, "channels")
		var notFound *axle.DimensionNotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("disagreement", func(t *testing.T) {
		_, err := spec.Extent(map[string]any{
			"images": tensor.Zeros(32, 128, 128),
			"labels": tensor.Zeros(16, 10),
		}, "batch")
		var mismatch *axle.ShapeMismatchError
		assert.ErrorAs(t, err, &mismatch)
	})
}

func TestSpecUpdateLeaves(t *testing.T) {
	spec := imageSpec(t)
	out := spec.UpdateLeaves(func(sh axle.Shape) axle.Shape {
		return append(axle.Shape{"frame"}, sh...)
	})

	assert.Equal(t, map[string]any{"images": 0, "labels": 0}, out.IndexFor("frame").Tree())
	assert.Equal(t, map[string]any{"images": 1, "labels": 1}, out.IndexFor("batch").Tree())
	assert.False(t, spec.HasDimension("frame"), "receiver stays intact")
}

func TestSpecSub(t *testing.T) {
	s := axle.MustNew(map[string]any{"outer": map[string]any{"inner": axle.Shape{"n"}}})

	sub, err := s.Sub("outer", "inner")
	require.NoError(t, err)
	assert.True(t, sub.IsLeaf())
	assert.Equal(t, []string{"n"}, sub.Dimensions())

	_, err = s.Sub("missing")
	assert.Error(t, err)
}

func TestSpecEqual(t *testing.T) {
	a := imageSpec(t)
	b := imageSpec(t)
	assert.True(t, a.Equal(b))

	c := axle.MustNew(map[string]any{
		"images": axle.Shape{"batch", "height", "width"},
		"labels": axle.Shape{"batch", "tokens"},
	})
	assert.False(t, a.Equal(c), "leaf order differs")
	assert.False(t, a.Equal(nil))
}

func TestSpecString(t *testing.T) {
	s := axle.MustNew(map[string]any{"b": axle.Shape{"y"}, "a": axle.Shape{"x", "z"}})
	assert.Equal(t, "{a: [x, z], b: [y]}", s.String())

	seq := axle.MustNew([]any{[]string{"x"}, []string{"y"}})
	assert.Equal(t, "([x], [y])", seq.String())
}

func TestSpecTreeIsDetached(t *testing.T) {
	s := imageSpec(t)
	top := s.Tree().(map[string]any)
	top["images"] = axle.Shape{"hacked"}
	assert.True(t, s.HasDimension("width"), "mutating the returned tree must not reach the spec")
}

func TestSpecCustomRegistry(t *testing.T) {
	reg := tree.NewRegistry()
	s, err := axle.New(map[string]any{"v": axle.Shape{"n"}}, axle.WithRegistry(reg))
	require.NoError(t, err)
	assert.Same(t, reg, s.Registry())
	assert.NoError(t, s.Validate(map[string]any{"v": []float64{1, 2, 3}}))
}
