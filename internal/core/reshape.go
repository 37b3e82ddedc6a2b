package core

import (
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// resolveReshape resolves at most one AUTO dimension against a's element
// count and computes the natural strides for the result. Reshaping
// without a copy is only sound when a's current layout is Trivial: a
// contiguous-but-permuted array's physical byte order does not match its
// logical row-major iteration order, so reusing it as the new shape's
// strides would scramble elements. Callers facing that case must Clone
// first, matching the no-copy-unless-safe contract.
func resolveReshape(a *Array, target shape.Extent) (shape.Extent, shape.Stride, error) {
	if a.Uninitialized() {
		return nil, nil, errs.Wrap(errs.ErrUninitialized, "reshape: array is uninitialized")
	}
	resolved, err := a.Extent.Reshape(target)
	if err != nil {
		return nil, nil, err
	}
	if !a.Trivial() {
		return nil, nil, errs.Wrap(errs.ErrInvalidReshape, "reshape: layout is not trivial; clone before reshaping")
	}
	return resolved, shape.ComputeStrides(resolved), nil
}

// ReshapeInPlace mutates a's Extent/Stride to target, resolving at most
// one AUTO dimension, without touching storage or refcount.
func ReshapeInPlace(a *Array, target shape.Extent) error {
	resolved, stride, err := resolveReshape(a, target)
	if err != nil {
		return err
	}
	a.Extent = resolved
	a.Stride = stride
	return nil
}

// Reshaped returns a new Array sharing a's storage under target's shape,
// leaving a untouched.
func Reshaped(a *Array, target shape.Extent) (*Array, error) {
	resolved, stride, err := resolveReshape(a, target)
	if err != nil {
		return nil, err
	}
	a.Start.St.Retain()
	return &Array{
		Device:   a.Device,
		Dtype:    a.Dtype,
		Start:    a.Start,
		Extent:   resolved,
		Stride:   stride,
		IsScalar: resolved.IsScalar(),
		IsChild:  a.IsChild,
	}, nil
}
