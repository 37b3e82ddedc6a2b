package core

import (
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// TransposeInPlace permutes a's Extent/Stride by order (an empty order
// reverses every axis), leaving storage untouched.
func TransposeInPlace(a *Array, order []int) error {
	if a.Uninitialized() {
		return errs.Wrap(errs.ErrUninitialized, "transpose: array is uninitialized")
	}
	stride, extent, err := shape.Transpose(a.Stride, a.Extent, order)
	if err != nil {
		return err
	}
	a.Stride = stride
	a.Extent = extent
	return nil
}

// Transposed returns a new Array sharing a's storage under the permuted
// view, leaving a untouched.
func Transposed(a *Array, order []int) (*Array, error) {
	if a.Uninitialized() {
		return nil, errs.Wrap(errs.ErrUninitialized, "transpose: array is uninitialized")
	}
	stride, extent, err := shape.Transpose(a.Stride, a.Extent, order)
	if err != nil {
		return nil, err
	}
	a.Start.St.Retain()
	return &Array{
		Device:   a.Device,
		Dtype:    a.Dtype,
		Start:    a.Start,
		Extent:   extent,
		Stride:   stride,
		IsScalar: extent.IsScalar(),
		IsChild:  a.IsChild,
	}, nil
}
