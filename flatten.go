package axle

import (
	"fmt"

	"github.com/arnevik/axle/pkg/tensor"
	"github.com/arnevik/axle/pkg/tree"
)

// loopPlan is the flattened view of one argument tree for looping over a
// single dimension: every piece of the tree in traversal order, the axis
// each piece carries the dimension on (AxisNone for broadcast pieces), and
// a rebuild function inverting the flattening.
type loopPlan struct {
	pieces []any
	axes   []Axis
	paths  []tree.Path
	shapes []Shape
	root   rebuildNode
}

// planLoop flattens data against the spec tree for one dimension.
//
// A spec leaf contributes its data as one piece with the leaf's axis. Any
// subtree whose spec never mentions the dimension travels as a single
// broadcast piece, containers included; so do argument keys the spec does
// not know. Only containers whose spec subtree carries the dimension are
// opened up.
func planLoop(reg *tree.Registry, specNode, data any, dim string) (*loopPlan, error) {
	p := &loopPlan{}
	root, err := p.flatten(reg, tree.Path{}, specNode, data, dim)
	if err != nil {
		return nil, err
	}
	p.root = root
	return p, nil
}

func (p *loopPlan) flatten(reg *tree.Registry, path tree.Path, specNode, data any, dim string) (rebuildNode, error) {
	if sh, ok := specNode.(Shape); ok {
		ax := AxisNone
		if i, err := sh.Index(dim); err == nil {
			ax = Axis(i)
		}
		return p.addPiece(path, data, ax, sh), nil
	}
	if !specHasDim(reg, specNode, dim) {
		return p.addPiece(path, data, AxisNone, nil), nil
	}

	dataAd, ok := reg.Lookup(data)
	if !ok {
		return nil, &StructureMismatchError{
			Path:   path,
			Detail: fmt.Sprintf("argument is a %T leaf but its spec subtree carries dimension %q", data, dim),
		}
	}
	dataKeys, dataChildren, err := dataAd.Decompose(data)
	if err != nil {
		return nil, err
	}
	specAd, _ := reg.Lookup(specNode)
	specKeys, specChildren, err := specAd.Decompose(specNode)
	if err != nil {
		return nil, err
	}
	specByKey := make(map[string]any, len(specKeys))
	for i, k := range specKeys {
		specByKey[k] = specChildren[i]
	}

	node := &containerRebuild{
		reg:      reg,
		template: data,
		keys:     dataKeys,
		children: make([]rebuildNode, len(dataChildren)),
	}
	for i, k := range dataKeys {
		childSpec, known := specByKey[k]
		if !known {
			node.children[i] = p.addPiece(path.Child(k), dataChildren[i], AxisNone, nil)
			continue
		}
		child, err := p.flatten(reg, path.Child(k), childSpec, dataChildren[i], dim)
		if err != nil {
			return nil, err
		}
		node.children[i] = child
	}
	return node, nil
}

func (p *loopPlan) addPiece(path tree.Path, v any, ax Axis, sh Shape) pieceRef {
	p.pieces = append(p.pieces, v)
	p.axes = append(p.axes, ax)
	p.paths = append(p.paths, path)
	p.shapes = append(p.shapes, sh)
	return pieceRef(len(p.pieces) - 1)
}

// extent resolves the loop extent of dim across the mapped pieces, with
// the original argument paths in any error.
func (p *loopPlan) extent(dim string) (int, error) {
	var obs []ExtentConflict
	for i, piece := range p.pieces {
		if p.axes[i] == AxisNone {
			continue
		}
		ext := tensor.ExtentsOf(piece)
		ax := int(p.axes[i])
		if len(ext) <= ax {
			return 0, &RankMismatchError{Path: p.paths[i], Shape: p.shapes[i], Extents: ext}
		}
		obs = append(obs, ExtentConflict{Path: p.paths[i], Axis: ax, Extent: ext[ax]})
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

// rebuild reassembles values shaped like the pieces into the original
// argument tree structure.
func (p *loopPlan) rebuild(vals []any) (any, error) {
	if len(vals) != len(p.pieces) {
		return nil, fmt.Errorf("axle: rebuild got %d values for %d pieces", len(vals), len(p.pieces))
	}
	return p.root.build(vals)
}

func specHasDim(reg *tree.Registry, specNode any, dim string) bool {
	leaves, err := reg.Leaves(specNode, isShape)
	if err != nil {
		return false
	}
	for _, l := range leaves {
		if sh, ok := l.Value.(Shape); ok && sh.Contains(dim) {
			return true
		}
	}
	return false
}

type rebuildNode interface {
	build(vals []any) (any, error)
}

// pieceRef points one rebuild position at a flattened piece.
type pieceRef int

func (r pieceRef) build(vals []any) (any, error) { return vals[int(r)], nil }

// containerRebuild reconstructs one container from its children's rebuilt
// values, using the original container as the template.
type containerRebuild struct {
	reg      *tree.Registry
	template any
	keys     []string
	children []rebuildNode
}

func (c *containerRebuild) build(vals []any) (any, error) {
	ad, ok := c.reg.Lookup(c.template)
	if !ok {
		return nil, fmt.Errorf("axle: rebuild template %T lost its adapter", c.template)
	}
	parts := make([]any, len(c.children))
	for i, ch := range c.children {
		v, err := ch.build(vals)
		if err != nil {
			return nil, err
		}
		parts[i] = v
	}
	return ad.Reconstruct(c.template, c.keys, parts)
}
