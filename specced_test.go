package axle_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnevik/axle"
)

func TestSpeccedBuild(t *testing.T) {
	in := axle.MustNew(map[string]any{"v": axle.Shape{"n"}})
	out := axle.MustNew(map[string]any{"doubled": axle.Shape{"n"}})

	double := axle.NewSpecced(func(args axle.Args) (any, error) {
		return map[string]any{"doubled": args["v"]}, nil
	}, axle.ToSpec(out))

	t.Run("resolves specs and freezes the function", func(t *testing.T) {
		bound, err := double.Build(in)
		require.NoError(t, err)
		assert.True(t, bound.InputSpec().Equal(in))
		assert.True(t, bound.OutputSpec().Equal(out))

		res, err := bound.Call(axle.Args{"v": []float64{1, 2}})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"doubled": []float64{1, 2}}, res)
	})

	t.Run("building is repeatable and independent", func(t *testing.T) {
		b1, err := double.Build(in)
		require.NoError(t, err)
		b2, err := double.Build(in)
		require.NoError(t, err)
		assert.NotSame(t, b1, b2)
		assert.True(t, b1.OutputSpec().Equal(b2.OutputSpec()))
	})

	t.Run("KeepSpec passes the input through", func(t *testing.T) {
		id := axle.NewSpecced(func(args axle.Args) (any, error) { return args["v"], nil }, axle.KeepSpec())
		bound, err := id.Build(in)
		require.NoError(t, err)
		assert.True(t, bound.OutputSpec().Equal(in))
	})

	t.Run("rewrite errors surface at build", func(t *testing.T) {
		boom := errors.New("boom")
		bad := axle.NewSpecced(func(axle.Args) (any, error) { return nil, nil },
			func(*axle.Spec) (*axle.Spec, error) { return nil, boom })
		_, err := bad.Build(in)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil pieces are rejected", func(t *testing.T) {
		_, err := axle.NewSpecced(nil, axle.KeepSpec()).Build(in)
		assert.ErrorContains(t, err, "no function")

		_, err = axle.NewSpecced(func(axle.Args) (any, error) { return nil, nil }, nil).Build(in)
		assert.ErrorContains(t, err, "no spec rewrite")

		nilRewrite := axle.NewSpecced(func(axle.Args) (any, error) { return nil, nil },
			func(*axle.Spec) (*axle.Spec, error) { return nil, nil })
		_, err = nilRewrite.Build(in)
		assert.ErrorContains(t, err, "nil spec")
	})
}

func TestRewriteOf(t *testing.T) {
	in := axle.MustNew(map[string]any{"v": axle.Shape{"n"}})
	id := axle.NewSpecced(func(args axle.Args) (any, error) { return args, nil }, axle.KeepSpec())

	got, err := axle.RewriteOf(id, in)
	require.NoError(t, err)
	assert.True(t, got.Equal(in))
}
