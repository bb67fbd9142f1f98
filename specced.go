package axle

import (
	"errors"
	"fmt"
)

// Specced pairs a function with the Rewrite describing the function's
// effect on a Spec. The pairing is a contract kept by the author: the
// engine trusts the Rewrite and never inspects what fn really returns.
//
// Specced is the usual base stage of a Compose chain.
type Specced struct {
	fn      Fn
	rewrite Rewrite
}

// NewSpecced declares that fn turns data specced by the input into data
// specced by rewrite(input).
func NewSpecced(fn Fn, rewrite Rewrite) *Specced {
	return &Specced{fn: fn, rewrite: rewrite}
}

// Build resolves the output Spec through the rewrite and freezes fn.
func (t *Specced) Build(input *Spec) (*Bound, error) {
	if t.fn == nil {
		return nil, errors.New("axle: specced transformation has no function")
	}
	if t.rewrite == nil {
		return nil, errors.New("axle: specced transformation has no spec rewrite")
	}
	output, err := t.rewrite(input)
	if err != nil {
		return nil, fmt.Errorf("axle: rewriting spec: %w", err)
	}
	if output == nil {
		return nil, errors.New("axle: spec rewrite returned a nil spec")
	}
	fn := t.fn
	return &Bound{
		call:   func(args Args) (any, error) { return fn(args) },
		input:  input,
		output: output,
	}, nil
}
