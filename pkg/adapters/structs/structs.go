// Package structs exposes struct types as spec-addressable containers: one
// key per exported field, resolved once through reflection at registration
// time. Registered structs participate in validation, indexing and loop
// rebuilding exactly like map[string]any does.
package structs

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/arnevik/axle/pkg/tree"
)

type field struct {
	key   string
	index int
}

// Register installs a tree.Adapter for sample's struct type into reg, with
// one key per exported field. Keys come out sorted, the same order the
// map[string]any adapter uses, so a map spec literal lines up with struct
// data. A `tree:"name"` tag renames the key and `tree:"-"` hides the
// field. Hidden and unexported fields pass through rebuilds untouched:
// Reconstruct starts from the original value and only replaces keyed
// fields.
//
// The adapter is keyed on the struct type itself. Register the pointer
// type separately if values travel as *T.
func Register(reg *tree.Registry, sample any) error {
	if reg == nil {
		reg = tree.Default
	}
	t := reflect.TypeOf(sample)
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("structs: cannot register %T, want a struct value", sample)
	}
	fields, err := fieldsOf(t)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		return fmt.Errorf("structs: %s exposes no fields", t)
	}

	keys := make([]string, len(fields))
	byKey := make(map[string]field, len(fields))
	for i, f := range fields {
		keys[i] = f.key
		byKey[f.key] = f
	}

	reg.Register(sample, tree.Adapter{
		Decompose: func(node any) ([]string, []any, error) {
			rv := reflect.ValueOf(node)
			if rv.Type() != t {
				return nil, nil, fmt.Errorf("structs: expected %s, got %T", t, node)
			}
			children := make([]any, len(fields))
			for i, f := range fields {
				children[i] = rv.Field(f.index).Interface()
			}
			return append([]string(nil), keys...), children, nil
		},
		Reconstruct: func(node any, ks []string, children []any) (any, error) {
			if len(ks) != len(children) {
				return nil, fmt.Errorf("structs: %d keys for %d children", len(ks), len(children))
			}
			out := reflect.New(t).Elem()
			out.Set(reflect.ValueOf(node))
			for i, k := range ks {
				f, ok := byKey[k]
				if !ok {
					return nil, fmt.Errorf("structs: %s has no key %q", t, k)
				}
				dst := out.Field(f.index)
				if children[i] == nil {
					dst.Set(reflect.Zero(dst.Type()))
					continue
				}
				src := reflect.ValueOf(children[i])
				if !src.Type().AssignableTo(dst.Type()) {
					return nil, fmt.Errorf("structs: cannot put %T into %s.%s (%s)",
						children[i], t, t.Field(f.index).Name, dst.Type())
				}
				dst.Set(src)
			}
			return out.Interface(), nil
		},
	})
	return nil
}

// MustRegister is Register for init-time wiring; it panics on error.
func MustRegister(reg *tree.Registry, sample any) {
	if err := Register(reg, sample); err != nil {
		panic(err)
	}
}

func fieldsOf(t reflect.Type) ([]field, error) {
	var out []field
	seen := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		key := sf.Name
		if tag, ok := sf.Tag.Lookup("tree"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				key = tag
			}
		}
		if seen[key] {
			return nil, fmt.Errorf("structs: duplicate key %q on %s", key, t)
		}
		seen[key] = true
		out = append(out, field{key: key, index: i})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out, nil
}
