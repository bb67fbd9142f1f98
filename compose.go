package axle

import (
	"errors"
	"fmt"
)

// Pipeline composes transformations innermost first: stage 0 is the base
// function and every later stage wraps all the stages before it, so the
// last stage is the outermost loop. Building folds the input Spec down
// through the wrappers (each removing its dimension) and the output Spec
// back up (each prepending its dimension), which keeps the call signature
// of stage 0 throughout.
type Pipeline struct {
	stages []Transformation
}

// Compose chains transformations. Every stage after the first must be able
// to wrap an inner transformation (ForAll, Reduce, or another Pipeline of
// wrappers).
func Compose(stages ...Transformation) *Pipeline {
	return &Pipeline{stages: append([]Transformation(nil), stages...)}
}

// Build folds the stages into a single transformation and builds it. The
// Pipeline itself stays untouched; building twice yields two independent
// Bounds.
func (p *Pipeline) Build(input *Spec) (*Bound, error) {
	t, err := p.fold()
	if err != nil {
		return nil, err
	}
	return t.Build(input)
}

func (p *Pipeline) fold() (Transformation, error) {
	if len(p.stages) == 0 {
		return nil, errors.New("axle: compose needs at least one transformation")
	}
	t := p.stages[0]
	if t == nil {
		return nil, errors.New("axle: compose stage 0 is nil")
	}
	for i, s := range p.stages[1:] {
		w, ok := s.(wrapper)
		if !ok {
			return nil, fmt.Errorf("axle: compose stage %d (%T) cannot wrap an inner transformation", i+1, s)
		}
		t = w.wrap(t)
	}
	return t, nil
}

// wrap lets a Pipeline of wrappers serve as a wrapping stage itself:
// Compose(f, Compose(a, b)) behaves like Compose(f, a, b).
func (p *Pipeline) wrap(inner Transformation) Transformation {
	stages := make([]Transformation, 0, len(p.stages)+1)
	stages = append(stages, inner)
	stages = append(stages, p.stages...)
	return Compose(stages...)
}
