package axle

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arnevik/axle/pkg/tensor"
	"github.com/arnevik/axle/pkg/tree"
)

// Spec declares the dimension names of every array inside a nested data
// structure. Its tree mirrors the data tree container by container; each
// leaf is a Shape naming the leading axes of the array found at the same
// position in the data.
//
// Specs are immutable. Every operation that looks like a modification
// (Remove, Replace, UpdateLeaves) returns a new Spec and shares no mutable
// state with the receiver, so a Spec can be read from any number of
// goroutines.
type Spec struct {
	reg  *tree.Registry
	root any
}

// Option configures Spec construction.
type Option func(*specConfig)

type specConfig struct {
	reg *tree.Registry
}

// WithRegistry makes the Spec traverse containers through r instead of
// tree.Default. Data validated against the Spec is read with the same
// registry.
func WithRegistry(r *tree.Registry) Option {
	return func(c *specConfig) {
		if r != nil {
			c.reg = r
		}
	}
}

// New builds a Spec from a nested literal. Containers must be registered
// in the registry; leaves may be Shape, []string, or a []any holding only
// strings (the YAML form). An empty list is a rank-0 leaf. Nil nodes are
// rejected.
func New(literal any, opts ...Option) (*Spec, error) {
	cfg := specConfig{reg: tree.Default}
	for _, o := range opts {
		o(&cfg)
	}
	root, err := normalizeSpecNode(cfg.reg, tree.Path{}, literal)
	if err != nil {
		return nil, err
	}
	return &Spec{reg: cfg.reg, root: root}, nil
}

// MustNew is New that panics on error, for literals known to be well
// formed.
func MustNew(literal any, opts ...Option) *Spec {
	s, err := New(literal, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func normalizeSpecNode(reg *tree.Registry, p tree.Path, node any) (any, error) {
	if node == nil {
		return nil, fmt.Errorf("axle: nil spec node at %s (use an empty dimension list for rank-0 leaves)", p)
	}
	if sh, ok := shapeLiteral(node); ok {
		return sh, nil
	}
	a, ok := reg.Lookup(node)
	if !ok {
		return nil, fmt.Errorf("axle: unsupported spec node %T at %s (want a dimension list or a registered container)", node, p)
	}
	keys, children, err := a.Decompose(node)
	if err != nil {
		return nil, err
	}
	norm := make([]any, len(children))
	for i, c := range children {
		norm[i], err = normalizeSpecNode(reg, p.Child(keys[i]), c)
		if err != nil {
			return nil, err
		}
	}
	return a.Reconstruct(node, keys, norm)
}

// shapeLiteral recognizes the accepted leaf forms. An empty []any counts as
// a rank-0 Shape, not as an empty sequence container.
func shapeLiteral(v any) (Shape, bool) {
	switch t := v.(type) {
	case Shape:
		return t.Clone(), true
	case []string:
		return Shape(t).Clone(), true
	case []any:
		sh := make(Shape, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			sh = append(sh, s)
		}
		return sh, true
	}
	return nil, false
}

func isShape(v any) bool {
	_, ok := v.(Shape)
	return ok
}

// Registry returns the container registry the Spec traverses with.
func (s *Spec) Registry() *tree.Registry { return s.reg }

// IsLeaf reports whether the whole Spec is a single Shape.
func (s *Spec) IsLeaf() bool { return isShape(s.root) }

// Tree returns the Spec's tree as plain containers with Shape leaves. The
// result shares nothing with the Spec.
func (s *Spec) Tree() any {
	out, err := s.reg.MapLeaves(s.root, isShape, func(_ tree.Path, v any) (any, error) {
		return v.(Shape).Clone(), nil
	})
	if err != nil {
		return nil
	}
	return out
}

// SpecLeaf is one Shape leaf of a Spec together with its address.
type SpecLeaf struct {
	Path  tree.Path
	Shape Shape
}

// Leaves returns every Shape leaf in traversal order.
func (s *Spec) Leaves() []SpecLeaf {
	leaves, err := s.reg.Leaves(s.root, isShape)
	if err != nil {
		return nil
	}
	out := make([]SpecLeaf, len(leaves))
	for i, l := range leaves {
		out[i] = SpecLeaf{Path: l.Path, Shape: l.Value.(Shape).Clone()}
	}
	return out
}

// Sub returns the Spec rooted at the given path.
func (s *Spec) Sub(path ...string) (*Spec, error) {
	node, err := s.reg.Get(s.root, tree.Path(path))
	if err != nil {
		return nil, err
	}
	return &Spec{reg: s.reg, root: node}, nil
}

// Dimensions returns every dimension name appearing in any leaf, sorted.
func (s *Spec) Dimensions() []string {
	set := map[string]struct{}{}
	for _, l := range s.Leaves() {
		for _, d := range l.Shape {
			set[d] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// HasDimension reports whether every named dimension appears somewhere in
// the Spec.
func (s *Spec) HasDimension(dims ...string) bool {
	have := map[string]struct{}{}
	for _, d := range s.Dimensions() {
		have[d] = struct{}{}
	}
	for _, d := range dims {
		if _, ok := have[d]; !ok {
			return false
		}
	}
	return true
}

// IndexFor resolves where a dimension lives: a tree mirroring the Spec
// with, per leaf, the axis carrying the dimension or AxisNone.
func (s *Spec) IndexFor(dim string) *AxisMap {
	root, err := s.reg.MapLeaves(s.root, isShape, func(_ tree.Path, v any) (any, error) {
		if i, err := v.(Shape).Index(dim); err == nil {
			return Axis(i), nil
		}
		return AxisNone, nil
	})
	if err != nil {
		root = AxisNone
	}
	return &AxisMap{reg: s.reg, root: root}
}

// Remove returns a Spec with the dimension removed from every leaf that
// carries it. Leaves without the dimension are untouched, so removing an
// unknown dimension returns an equal Spec.
func (s *Spec) Remove(dim string) *Spec {
	return s.UpdateLeaves(func(sh Shape) Shape {
		if out, err := sh.Remove(dim); err == nil {
			return out
		}
		return sh
	})
}

// UpdateLeaves returns a Spec with fn applied to every Shape leaf. fn
// receives a copy and its result is copied again, so no aliasing can leak
// between the old and the new Spec.
func (s *Spec) UpdateLeaves(fn func(Shape) Shape) *Spec {
	root, err := s.reg.MapLeaves(s.root, isShape, func(_ tree.Path, v any) (any, error) {
		return fn(v.(Shape).Clone()).Clone(), nil
	})
	if err != nil {
		return s
	}
	return &Spec{reg: s.reg, root: root}
}

// Validate checks that data mirrors the Spec. It fails with a
// *StructureMismatchError when container keys diverge, a
// *RankMismatchError when an array has fewer axes than its Shape names,
// and a *ShapeMismatchError when leaves sharing a dimension name disagree
// on its extent. Extents of trailing unnamed axes are never inspected.
func (s *Spec) Validate(data any) error {
	seen := map[string][]ExtentConflict{}
	if err := s.validateNode(tree.Path{}, s.root, data, seen); err != nil {
		return err
	}

	dims := make([]string, 0, len(seen))
	for d := range seen {
		dims = append(dims, d)
	}
	sort.Strings(dims)
	for _, d := range dims {
		obs := seen[d]
		for _, c := range obs[1:] {
			if c.Extent != obs[0].Extent {
				return &ShapeMismatchError{Dimension: d, Conflicts: obs}
			}
		}
	}
	return nil
}

func (s *Spec) validateNode(p tree.Path, specNode, dataNode any, seen map[string][]ExtentConflict) error {
	if sh, ok := specNode.(Shape); ok {
		ext := tensor.ExtentsOf(dataNode)
		if len(ext) < sh.Rank() {
			return &RankMismatchError{Path: p, Shape: sh.Clone(), Extents: ext}
		}
		for i, name := range sh {
			seen[name] = append(seen[name], ExtentConflict{Path: p, Axis: i, Extent: ext[i]})
		}
		return nil
	}

	specAd, _ := s.reg.Lookup(specNode)
	dataAd, ok := s.reg.Lookup(dataNode)
	if !ok {
		return &StructureMismatchError{
			Path:   p,
			Detail: fmt.Sprintf("spec has a container here but the data holds %T", dataNode),
		}
	}
	specKeys, specChildren, err := specAd.Decompose(specNode)
	if err != nil {
		return err
	}
	dataKeys, dataChildren, err := dataAd.Decompose(dataNode)
	if err != nil {
		return err
	}
	if !equalKeys(specKeys, dataKeys) {
		return &StructureMismatchError{
			Path:   p,
			Detail: fmt.Sprintf("spec keys %v, data keys %v", specKeys, dataKeys),
		}
	}
	for i := range specChildren {
		if err := s.validateNode(p.Child(specKeys[i]), specChildren[i], dataChildren[i], seen); err != nil {
			return err
		}
	}
	return nil
}

// Extent reads the concrete extent of a dimension off data. All leaves
// carrying the dimension must agree, exactly as in Validate.
func (s *Spec) Extent(data any, dim string) (int, error) {
	var obs []ExtentConflict
	for _, l := range s.Leaves() {
		ax, err := l.Shape.Index(dim)
		if err != nil {
			continue
		}
		node, err := s.reg.Get(data, l.Path)
		if err != nil {
			return 0, &StructureMismatchError{Path: l.Path, Detail: fmt.Sprintf("no data at spec leaf: %v", err)}
		}
		ext := tensor.ExtentsOf(node)
		if len(ext) <= ax {
			return 0, &RankMismatchError{Path: l.Path, Shape: l.Shape, Extents: ext}
		}
		obs = append(obs, ExtentConflict{Path: l.Path, Axis: ax, Extent: ext[ax]})
	}
	if len(obs) == 0 {
		return 0, &DimensionNotFoundError{Dimension: dim}
	}
	for _, c := range obs[1:] {
		if c.Extent != obs[0].Extent {
			return 0, &ShapeMismatchError{Dimension: dim, Conflicts: obs}
		}
	}
	return obs[0].Extent, nil
}

// Extents reads the extents of every dimension the Spec names off data.
func (s *Spec) Extents(data any) (map[string]int, error) {
	out := map[string]int{}
	for _, d := range s.Dimensions() {
		n, err := s.Extent(data, d)
		if err != nil {
			return nil, err
		}
		out[d] = n
	}
	return out, nil
}

// Replace merges a partial spec literal into the Spec. Containers merge by
// key and unknown keys are added; leaves in the partial replace the whole
// subtree at their position; a nil in the partial removes the subtree, and
// containers emptied by removals are pruned from their parent.
func (s *Spec) Replace(partial any) (*Spec, error) {
	merged, removed, err := s.mergeNode(tree.Path{}, s.root, partial)
	if err != nil {
		return nil, err
	}
	if removed {
		return &Spec{reg: s.reg, root: map[string]any{}}, nil
	}
	return &Spec{reg: s.reg, root: merged}, nil
}

func (s *Spec) mergeNode(p tree.Path, cur, part any) (merged any, removed bool, err error) {
	if part == nil {
		return nil, true, nil
	}
	if sh, ok := shapeLiteral(part); ok {
		return sh, false, nil
	}
	partAd, ok := s.reg.Lookup(part)
	if !ok {
		return nil, false, fmt.Errorf("axle: unsupported replace node %T at %s", part, p)
	}
	if isShape(cur) {
		// container replacing a leaf: taken wholesale
		n, err := normalizeSpecNode(s.reg, p, part)
		return n, false, err
	}

	curAd, _ := s.reg.Lookup(cur)
	curKeys, curChildren, err := curAd.Decompose(cur)
	if err != nil {
		return nil, false, err
	}
	partKeys, partChildren, err := partAd.Decompose(part)
	if err != nil {
		return nil, false, err
	}
	partIdx := make(map[string]int, len(partKeys))
	for i, k := range partKeys {
		partIdx[k] = i
	}
	curSet := make(map[string]struct{}, len(curKeys))
	for _, k := range curKeys {
		curSet[k] = struct{}{}
	}

	outKeys := make([]string, 0, len(curKeys))
	outChildren := make([]any, 0, len(curKeys))
	for i, k := range curKeys {
		pi, inPartial := partIdx[k]
		if !inPartial {
			outKeys = append(outKeys, k)
			outChildren = append(outChildren, curChildren[i])
			continue
		}
		child, childRemoved, err := s.mergeNode(p.Child(k), curChildren[i], partChildren[pi])
		if err != nil {
			return nil, false, err
		}
		if childRemoved {
			continue
		}
		outKeys = append(outKeys, k)
		outChildren = append(outChildren, child)
	}
	for i, k := range partKeys {
		if _, exists := curSet[k]; exists {
			continue
		}
		if partChildren[i] == nil {
			// removing a key that was never there is a no-op
			continue
		}
		n, err := normalizeSpecNode(s.reg, p.Child(k), partChildren[i])
		if err != nil {
			return nil, false, err
		}
		outKeys = append(outKeys, k)
		outChildren = append(outChildren, n)
	}

	if len(outKeys) == 0 && len(curKeys) > 0 {
		return nil, true, nil
	}
	rebuilt, err := curAd.Reconstruct(cur, outKeys, outChildren)
	return rebuilt, false, err
}

// Equal reports whether both Specs have the same tree structure and equal
// Shapes at every leaf. Container kinds are compared by their keys, the
// same way Validate matches data against the Spec.
func (s *Spec) Equal(o *Spec) bool {
	if o == nil {
		return false
	}
	return equalSpecNode(s.reg, o.reg, s.root, o.root)
}

func equalSpecNode(ra, rb *tree.Registry, a, b any) bool {
	sa, aIsShape := a.(Shape)
	sb, bIsShape := b.(Shape)
	if aIsShape || bIsShape {
		return aIsShape && bIsShape && sa.Equal(sb)
	}
	adA, okA := ra.Lookup(a)
	adB, okB := rb.Lookup(b)
	if !okA || !okB {
		return false
	}
	keysA, childrenA, errA := adA.Decompose(a)
	keysB, childrenB, errB := adB.Decompose(b)
	if errA != nil || errB != nil || !equalKeys(keysA, keysB) {
		return false
	}
	for i := range childrenA {
		if !equalSpecNode(ra, rb, childrenA[i], childrenB[i]) {
			return false
		}
	}
	return true
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// String renders the Spec compactly: mappings as {key: ...} with sorted
// keys, sequences as (...), shapes as [dim, dim].
func (s *Spec) String() string {
	var b strings.Builder
	s.writeNode(&b, s.root)
	return b.String()
}

func (s *Spec) writeNode(b *strings.Builder, node any) {
	if sh, ok := node.(Shape); ok {
		b.WriteString(sh.String())
		return
	}
	_, isSeq := node.([]any)
	opener, closer := "{", "}"
	if isSeq {
		opener, closer = "(", ")"
	}
	ad, ok := s.reg.Lookup(node)
	if !ok {
		fmt.Fprintf(b, "%v", node)
		return
	}
	keys, children, err := ad.Decompose(node)
	if err != nil {
		fmt.Fprintf(b, "%v", node)
		return
	}
	b.WriteString(opener)
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		if !isSeq {
			b.WriteString(k)
			b.WriteString(": ")
		}
		s.writeNode(b, children[i])
	}
	b.WriteString(closer)
}
