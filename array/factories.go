package array

import (
	"math"

	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// ZerosLike allocates an Array with a's shape, dtype and device, filled
// with 0.
func ZerosLike(a *Array) (*Array, error) { return fillLike(a, 0.0) }

// OnesLike allocates an Array with a's shape, dtype and device, filled
// with 1.
func OnesLike(a *Array) (*Array, error) { return fillLike(a, 1.0) }

func fillLike(a *Array, value float64) (*Array, error) {
	c, err := core.New(a.core.Extent, a.core.Dtype, a.core.Device)
	if err != nil {
		return nil, err
	}
	if err := core.Fill(c, value); err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// RandomLike allocates an Array with a's shape, dtype and device, filled
// by FillRandom(min, max, seed).
func RandomLike(a *Array, min, max float64, seed int64) (*Array, error) {
	c, err := core.New(a.core.Extent, a.core.Dtype, a.core.Device)
	if err != nil {
		return nil, err
	}
	if err := core.FillRandom(c, min, max, seed); err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Linear returns num equally spaced points from start to end inclusive;
// the last element is exactly end rather than the accumulated step.
func Linear(start, end float64, num int64, dt Dtype, dev Accel) (*Array, error) {
	if num < 1 {
		return nil, errs.Wrap(errs.ErrInvalidReshape, "linear: num must be >= 1, got %d", num)
	}
	ext, err := shape.New(num)
	if err != nil {
		return nil, err
	}
	c, err := core.New(ext, dt, dev)
	if err != nil {
		return nil, err
	}
	step := 0.0
	if num > 1 {
		step = (end - start) / float64(num-1)
	}
	for i := int64(0); i < num; i++ {
		v := start + step*float64(i)
		if i == num-1 {
			v = end
		}
		if err := core.SetScalarAt(c, i, v); err != nil {
			return nil, err
		}
	}
	return wrap(c), nil
}

// Range returns the half-open sequence [start, end) stepping by inc;
// length = ceil((end-start)/inc). Negative inc traverses downward.
func Range(start, end, inc float64, dt Dtype, dev Accel) (*Array, error) {
	if inc == 0 {
		return nil, errs.Wrap(errs.ErrInvalidReshape, "range: inc must not be 0")
	}
	n := int64(math.Ceil((end - start) / inc))
	if n < 1 {
		return nil, errs.Wrap(errs.ErrInvalidReshape, "range: [%v, %v) by %v is empty", start, end, inc)
	}
	ext, err := shape.New(n)
	if err != nil {
		return nil, err
	}
	c, err := core.New(ext, dt, dev)
	if err != nil {
		return nil, err
	}
	for i := int64(0); i < n; i++ {
		if err := core.SetScalarAt(c, i, start+float64(i)*inc); err != nil {
			return nil, err
		}
	}
	return wrap(c), nil
}

// Concatenate joins arrays along axis: every shape must match on every
// other axis, and the result is contiguous along the combined axis.
// Non-contiguous inputs are cloned to a trivial layout first.
func Concatenate(arrays []*Array, axis int) (*Array, error) {
	if len(arrays) == 0 {
		return nil, errs.Wrap(errs.ErrShapeMismatch, "concatenate: no inputs")
	}
	first := arrays[0].core
	rank := first.Ndim()
	if axis < 0 || axis >= rank {
		return nil, errs.Wrap(errs.ErrOutOfBounds, "concatenate: axis %d out of range for rank %d", axis, rank)
	}

	var failures []error
	total := int64(0)
	for _, a := range arrays {
		c := a.core
		if c.Ndim() != rank {
			failures = append(failures, errs.Wrap(errs.ErrShapeMismatch, "concatenate: rank %d disagrees with %d", c.Ndim(), rank))
			continue
		}
		for ax := 0; ax < rank; ax++ {
			if ax == axis {
				continue
			}
			if c.Extent[ax] != first.Extent[ax] {
				failures = append(failures, errs.Wrap(errs.ErrShapeMismatch, "concatenate: axis %d extent %d disagrees with %d", ax, c.Extent[ax], first.Extent[ax]))
			}
		}
		total += c.Extent[axis]
	}
	if err := errs.Combine(failures...); err != nil {
		return nil, err
	}

	outExtent := first.Extent.Clone()
	outExtent[axis] = total
	dst, err := core.New(outExtent, first.Dtype, first.Device)
	if err != nil {
		return nil, err
	}

	offset := int64(0)
	for _, a := range arrays {
		src, err := contiguousCopy(a.core)
		if err != nil {
			return nil, err
		}
		if err := blitAlongAxis(dst, axis, offset, src); err != nil {
			return nil, err
		}
		offset += src.Extent[axis]
		if src != a.core {
			src.Release()
		}
	}
	return wrap(dst), nil
}

// Stack joins arrays along a new dimension of length len(arrays) inserted
// at axis; every shape must match exactly.
func Stack(arrays []*Array, axis int) (*Array, error) {
	if len(arrays) == 0 {
		return nil, errs.Wrap(errs.ErrShapeMismatch, "stack: no inputs")
	}
	first := arrays[0].core
	rank := first.Ndim()
	if axis < 0 || axis > rank {
		return nil, errs.Wrap(errs.ErrOutOfBounds, "stack: axis %d out of range for rank %d", axis, rank)
	}

	var failures []error
	for _, a := range arrays {
		if !a.core.Extent.Equal(first.Extent) {
			failures = append(failures, errs.Wrap(errs.ErrShapeMismatch, "stack: extent %v disagrees with %v", a.core.Extent, first.Extent))
		}
	}
	if err := errs.Combine(failures...); err != nil {
		return nil, err
	}

	outExtent := make(shape.Extent, rank+1)
	copy(outExtent, first.Extent[:axis])
	outExtent[axis] = int64(len(arrays))
	copy(outExtent[axis+1:], first.Extent[axis:])

	dst, err := core.New(outExtent, first.Dtype, first.Device)
	if err != nil {
		return nil, err
	}

	for i, a := range arrays {
		src, err := contiguousCopy(a.core)
		if err != nil {
			return nil, err
		}
		if err := blitStacked(dst, axis, int64(i), src); err != nil {
			return nil, err
		}
		if src != a.core {
			src.Release()
		}
	}
	return wrap(dst), nil
}

// contiguousCopy returns a trivial-contiguous view of a, cloning only
// when a isn't already one.
func contiguousCopy(a *core.Array) (*core.Array, error) {
	if a.Trivial() && a.Contiguous() {
		return a, nil
	}
	return core.Clone(a, nil, nil)
}

// blitAlongAxis copies every element of src (trivial-contiguous, same
// rank and extent as dst except along axis) into dst's slab starting at
// axisOffset along axis.
func blitAlongAxis(dst *core.Array, axis int, axisOffset int64, src *core.Array) error {
	n := src.NumElements()
	idx := make([]int64, src.Ndim())
	for flat := int64(0); flat < n; flat++ {
		decomposeFlat(src.Extent, flat, idx)
		v, err := core.ScalarAt(src, flat)
		if err != nil {
			return err
		}
		idx[axis] += axisOffset
		ref, err := core.At(dst, idx...)
		if err != nil {
			return err
		}
		if err := ref.Set(v); err != nil {
			return err
		}
	}
	return nil
}

// blitStacked copies every element of src into dst's slice at index i
// along the newly inserted axis.
func blitStacked(dst *core.Array, axis int, i int64, src *core.Array) error {
	n := src.NumElements()
	srcIdx := make([]int64, src.Ndim())
	dstIdx := make([]int64, dst.Ndim())
	for flat := int64(0); flat < n; flat++ {
		decomposeFlat(src.Extent, flat, srcIdx)
		v, err := core.ScalarAt(src, flat)
		if err != nil {
			return err
		}
		copy(dstIdx[:axis], srcIdx[:axis])
		dstIdx[axis] = i
		copy(dstIdx[axis+1:], srcIdx[axis:])
		ref, err := core.At(dst, dstIdx...)
		if err != nil {
			return err
		}
		if err := ref.Set(v); err != nil {
			return err
		}
	}
	return nil
}

// decomposeFlat decomposes a row-major flat index into per-axis indices
// against e, writing into idx (len(idx) == len(e)).
func decomposeFlat(e shape.Extent, flat int64, idx []int64) {
	for k := len(e) - 1; k >= 0; k-- {
		idx[k] = flat % e[k]
		flat /= e[k]
	}
}
