/*
Package dsl provides a fluent builder for programmatically constructing specs.

It allows developers to assemble deep spec trees using a type-safe, chainable
builder pattern instead of map literals or external YAML files. This is
particularly useful for dynamic spec generation, unit testing, and leveraging
IDE autocompletion/type-checking.

Example usage:

	package main

	import (
		"github.com/arnevik/axle/pkg/dsl"
	)

	func main() {
		b := dsl.New()

		b.Group("receiver").
			Leaf("signal", "transmitter", "receiver", "time").
			Leaf("location", "receiver", "xyz")

		b.Leaf("wavelength")

		// The resulting spec attaches to any matching data tree.
		spec, err := b.Build()
		// ... validate data or drive transformations with spec
		_, _ = spec, err
	}
*/
package dsl
