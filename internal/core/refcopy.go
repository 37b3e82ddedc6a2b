package core

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/internal/storage"
	"github.com/rapidgo/rapid/shape"
)

// RefCopy shares other's storage, incrementing its refcount, and copies
// extent/stride/flags. Copying an uninitialized Array short-circuits to
// another uninitialized Array, matching librapid's
// "m_references == nullptr" quick return.
func RefCopy(other *Array) *Array {
	if other.Uninitialized() {
		return &Array{}
	}
	other.Start.St.Retain()
	return &Array{
		Device:   other.Device,
		Dtype:    other.Dtype,
		Start:    other.Start,
		Extent:   other.Extent.Clone(),
		Stride:   other.Stride.Clone(),
		IsScalar: other.IsScalar,
		IsChild:  other.IsChild,
	}
}

// NewFrom implements the Array(other, dtype?, device?) constructor: a
// reference copy when dt/dev match other, or a one-shot converting copy
// into fresh storage otherwise.
func NewFrom(other *Array, dt dtype.Dtype, dev device.Accel) (*Array, error) {
	if other.Uninitialized() {
		return &Array{}, nil
	}
	if dt == other.Dtype && dev == other.Device {
		return RefCopy(other), nil
	}

	dst, err := New(other.Extent, dt, dev)
	if err != nil {
		return nil, err
	}
	dst.IsScalar = other.IsScalar

	var walkErr error
	shape.EachOffset(other.Extent, other.Stride, func(flat int, srcOff int64) {
		if walkErr != nil {
			return
		}
		v, err := readElementAt(other, srcOff)
		if err != nil {
			walkErr = err
			return
		}
		walkErr = writeElementAt(dst, int64(flat), v)
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return dst, nil
}

// Release decrements the refcount, freeing storage at zero.
func (a *Array) Release() {
	if a.Uninitialized() {
		return
	}
	a.Start.St.Release()
	a.Start = storage.View{}
}

// Assign implements the three-case assignment rule: an uninitialized LHS
// behaves as a reference copy; a child LHS copies element-for-element
// in place into its existing storage window; an independent LHS releases
// its current reference and rebinds to RHS's storage.
func (a *Array) Assign(rhs *Array) error {
	if rhs.Uninitialized() {
		return errs.Wrap(errs.ErrUninitialized, "assign: right-hand side is uninitialized")
	}
	switch {
	case a.Uninitialized():
		*a = *RefCopy(rhs)
		return nil
	case a.IsChild:
		if a.NumElements() != rhs.NumElements() {
			return errs.Wrap(errs.ErrShapeMismatch, "assign to child: %d elements vs %d", a.NumElements(), rhs.NumElements())
		}
		return copyElementsInPlace(a, rhs)
	default:
		old := a.Start.St
		*a = *RefCopy(rhs)
		if old != nil {
			old.Release()
		}
		return nil
	}
}

// copyElementsInPlace writes src's elements, in row-major logical order,
// into dst's existing storage window without rebinding dst's storage.
func copyElementsInPlace(dst, src *Array) error {
	n := int(dst.NumElements())
	dstOffsets := make([]int64, n)
	shape.EachOffset(dst.Extent, dst.Stride, func(i int, off int64) { dstOffsets[i] = off })

	var walkErr error
	shape.EachOffset(src.Extent, src.Stride, func(i int, srcOff int64) {
		if walkErr != nil {
			return
		}
		v, err := readElementAt(src, srcOff)
		if err != nil {
			walkErr = err
			return
		}
		walkErr = writeElementAt(dst, dstOffsets[i], v)
	})
	return walkErr
}
