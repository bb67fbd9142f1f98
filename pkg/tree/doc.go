// Package tree teaches axle how to look inside nested containers.
//
// A container type becomes traversable by registering an Adapter that can
// take a value apart into keyed children and put it back together again.
// Maps keyed by string and []any slices are registered out of the box; any
// other type (structs, ordered maps, wrappers around third-party data) can
// join by calling Register. Values whose type has no adapter are leaves.
//
// All traversal helpers are copy-on-write: they never mutate the containers
// they are given and rebuild only the nodes along the changed paths.
package tree
