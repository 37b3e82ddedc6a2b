// Package core implements the Array value itself: allocation, reference
// copy, subscripting, cloning, filling, reshaping and transposing. It has
// no knowledge of lazy expressions; expr and internal/dispatch build on
// top of it to add the evaluation layer. Grounded on the teacher's
// internal/tensor RawTensor/Tensor split.
package core

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/internal/storage"
	"github.com/rapidgo/rapid/shape"
)

// Array is the concrete array value: a storage handle plus extent,
// stride, element type, device, and the two lifecycle tags from the data
// model (isScalar, isChild).
type Array struct {
	Device   device.Accel
	Dtype    dtype.Dtype
	Start    storage.View // Start.St == nil denotes an uninitialized Array
	Extent   shape.Extent
	Stride   shape.Stride
	IsScalar bool
	IsChild  bool
}

// Uninitialized reports whether a carries no storage.
func (a *Array) Uninitialized() bool {
	return a == nil || a.Start.St == nil
}

// New allocates a fresh trivial-stride Array of extent elements, on
// device, with refcount 1.
func New(extent shape.Extent, dt dtype.Dtype, dev device.Accel) (*Array, error) {
	st, err := storage.Allocate(extent.Size(), dt, dev)
	if err != nil {
		return nil, err
	}
	return &Array{
		Device:   dev,
		Dtype:    dt,
		Start:    st.Origin(),
		Extent:   extent.Clone(),
		Stride:   shape.ComputeStrides(extent),
		IsScalar: extent.IsScalar(),
	}, nil
}

// NewScalar allocates a single host element of dt on dev, writes value
// converted to dt, and marks the result IsScalar.
func NewScalar(value any, dt dtype.Dtype, dev device.Accel) (*Array, error) {
	if !dt.IsValid() {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "scalar: dtype %s is not a valid operand", dt)
	}
	ext, err := shape.New(1)
	if err != nil {
		return nil, err
	}

	hostArr, err := New(ext, dt, device.Cpu)
	if err != nil {
		return nil, err
	}
	if err := writeHostElement(hostArr.Start, dt, 0, value); err != nil {
		return nil, err
	}
	hostArr.IsScalar = true

	if dev == device.Cpu {
		return hostArr, nil
	}

	devArr, err := New(ext, dt, dev)
	if err != nil {
		return nil, err
	}
	devArr.IsScalar = true
	if err := storage.Copy(devArr.Start, hostArr.Start, 1); err != nil {
		return nil, err
	}
	return devArr, nil
}

// NumElements returns the element count named by Extent.
func (a *Array) NumElements() int64 { return a.Extent.Size() }

// Len returns the size of the leading dimension, matching the spec's
// `a.len` accessor (1 for a scalar).
func (a *Array) Len() int64 {
	if len(a.Extent) == 0 {
		return 1
	}
	return a.Extent[0]
}

// Ndim returns the rank.
func (a *Array) Ndim() int { return len(a.Extent) }

// Trivial reports whether Stride matches the natural row-major layout.
func (a *Array) Trivial() bool { return shape.IsTrivial(a.Stride, a.Extent) }

// Contiguous reports whether Stride packs Extent with no gaps.
func (a *Array) Contiguous() bool { return shape.IsContiguous(a.Stride, a.Extent) }
