/*
Package axle attaches named dimensions to the arrays inside arbitrarily
nested data structures, and transforms functions over such data without
the index bookkeeping leaking into them.

A Spec is a tree that mirrors a data structure container by container;
each leaf names the leading axes of the array found at the same position.
Dimension names replace positional axis juggling: the engine resolves
names to concrete axes per leaf, checks that every leaf sharing a name
agrees on its extent, and rewrites specs as transformations add or remove
dimensions.

# Specs

Build a Spec from a literal and validate data against it:

	spec := axle.MustNew(map[string]any{
		"images": axle.Shape{"batch", "width", "height"},
		"labels": axle.Shape{"batch", "tokens"},
	})

	err := spec.Validate(map[string]any{
		"images": tensor.Zeros(32, 128, 128),
		"labels": tensor.Zeros(32, 10),
	})

Validation errors are typed: *StructureMismatchError when the trees do not
mirror, *RankMismatchError when an array has fewer axes than named, and
*ShapeMismatchError naming every leaf when extents disagree.

# Transformations

A Transformation rewrites a function and its Spec together. ForAll is the
workhorse: it vectorizes an inner function over one dimension, so the
function is written for a single element and the engine runs the loop.
Compose chains stages innermost first:

	pipeline := axle.Compose(
		axle.NewSpecced(sumFn, axle.ToSpec(outSpec)),
		axle.NewForAll("batch"),
	)
	bound, err := pipeline.Build(spec)
	result, err := bound.Call(axle.Args{"images": imgs, "labels": lbls})

Build is a static step: it resolves every Spec through the chain before
any data is touched, and bound.OutputSpec() describes the result tree.
How the loop actually runs is an injected Executor; the default is a
sequential loop, pkg/adapters/parallel runs indices concurrently, and
pkg/adapters/promexec wraps any executor with metrics.

Containers beyond maps and slices (structs, custom types) take part by
registering an adapter in pkg/tree.
*/
package axle
