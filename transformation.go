package axle

import "fmt"

// Args carries a call's named arguments. The keys mirror the top level of
// the input Spec; nested containers below a key follow the Spec's tree.
type Args map[string]any

// Fn is the shape of a transformable function: named arguments in, one
// result tree out.
type Fn func(args Args) (any, error)

// Rewrite is a pure function from an input Spec to the Spec of the output,
// declared by the author of a Specced stage. It must not depend on data.
type Rewrite func(input *Spec) (*Spec, error)

// ToSpec is a Rewrite that ignores the input and always declares output.
func ToSpec(output *Spec) Rewrite {
	return func(*Spec) (*Spec, error) { return output, nil }
}

// KeepSpec is a Rewrite for elementwise functions: the output spec is the
// input spec.
func KeepSpec() Rewrite {
	return func(in *Spec) (*Spec, error) { return in, nil }
}

// Transformation is a recipe for rewriting a function and its spec
// together. Build resolves the recipe against a concrete input Spec and
// returns the runnable result; it performs every spec computation, touches
// no data, and never mutates the Transformation, so the same value can be
// built against different Specs, repeatedly and concurrently.
type Transformation interface {
	Build(input *Spec) (*Bound, error)
}

// wrapper is the composition hook: transformations that loop an inner
// stage (ForAll, Reduce) return a copy of themselves holding it.
type wrapper interface {
	wrap(inner Transformation) Transformation
}

// Bound is the frozen result of building a Transformation against one
// input Spec: the resolved specs plus a callable. A Bound is independent
// of the Transformation it came from and of any other Bound.
type Bound struct {
	call   func(Args) (any, error)
	input  *Spec
	output *Spec
}

// Call runs the bound function on data laid out as the input Spec
// declares.
func (b *Bound) Call(args Args) (any, error) {
	if b.call == nil {
		return nil, fmt.Errorf("axle: bound transformation has no callable")
	}
	return b.call(args)
}

// InputSpec returns the Spec the transformation was built against.
func (b *Bound) InputSpec() *Spec { return b.input }

// OutputSpec returns the statically resolved Spec of Call's result.
func (b *Bound) OutputSpec() *Spec { return b.output }

// RewriteOf resolves just the output Spec a transformation would produce
// for the given input Spec.
func RewriteOf(t Transformation, input *Spec) (*Spec, error) {
	b, err := t.Build(input)
	if err != nil {
		return nil, err
	}
	return b.OutputSpec(), nil
}
