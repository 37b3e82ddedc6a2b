package core

import "github.com/rapidgo/rapid/internal/errs"

// Subscript returns the i-th slice along the leading axis: a new Array
// that shares storage, drops the leading dimension, and is marked
// IsChild. Whether the result reports Trivial/Contiguous falls out of
// the (uncached) Extent/Stride it carries, so no separate flag needs
// clearing by hand.
func Subscript(a *Array, i int64) (*Array, error) {
	if a.Uninitialized() {
		return nil, errs.Wrap(errs.ErrUninitialized, "subscript: array is uninitialized")
	}
	if a.Ndim() == 0 || i < 0 || i >= a.Extent[0] {
		return nil, errs.Wrap(errs.ErrOutOfBounds, "subscript %d: leading dimension is %v", i, a.Extent)
	}

	a.Start.St.Retain()
	newExtent := a.Extent[1:].Clone()
	newStride := a.Stride[1:].Clone()
	start := a.Start.At(i * a.Stride[0])

	return &Array{
		Device:   a.Device,
		Dtype:    a.Dtype,
		Start:    start,
		Extent:   newExtent,
		Stride:   newStride,
		IsScalar: newExtent.IsScalar(),
		IsChild:  true,
	}, nil
}

// Ref is a scalar read/modify/write proxy into a strided view, returned
// by At so a caller can write through an interior element without
// materializing a subscript Array. Grounded on librapid's
// ValueReference, minus its device-side JIT bit-packing specialization
// (the engine's Dtype set has no packed-bool representation to protect).
type Ref struct {
	arr    *Array
	offset int64
}

// At resolves a multi-index to a Ref. len(indices) must equal a.Ndim().
func At(a *Array, indices ...int64) (Ref, error) {
	if a.Uninitialized() {
		return Ref{}, errs.Wrap(errs.ErrUninitialized, "at: array is uninitialized")
	}
	if len(indices) != a.Ndim() {
		return Ref{}, errs.Wrap(errs.ErrOutOfBounds, "at: expected %d indices, got %d", a.Ndim(), len(indices))
	}
	var off int64
	for axis, idx := range indices {
		if idx < 0 || idx >= a.Extent[axis] {
			return Ref{}, errs.Wrap(errs.ErrOutOfBounds, "at: index %d out of bounds for axis %d (extent %d)", idx, axis, a.Extent[axis])
		}
		off += idx * a.Stride[axis]
	}
	return Ref{arr: a, offset: off}, nil
}

// Get reads the referenced element, boxed as any.
func (r Ref) Get() (any, error) {
	return readElementAt(r.arr, r.offset)
}

// Set converts value to the array's dtype and writes it through the
// referenced element.
func (r Ref) Set(value any) error {
	return writeElementAt(r.arr, r.offset, value)
}
