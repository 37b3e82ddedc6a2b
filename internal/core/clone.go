package core

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// Clone allocates fresh trivial-contiguous storage of dt (defaulting to
// a.Dtype when nil) on dev (defaulting to a.Device when nil) and copies
// every logical element in row-major order. Unlike NewFrom, it always
// materializes new storage, even when dt/dev are unchanged.
func Clone(a *Array, dt *dtype.Dtype, dev *device.Accel) (*Array, error) {
	if a.Uninitialized() {
		return nil, errs.Wrap(errs.ErrUninitialized, "clone: array is uninitialized")
	}
	targetDtype := a.Dtype
	if dt != nil {
		targetDtype = *dt
	}
	targetDevice := a.Device
	if dev != nil {
		targetDevice = *dev
	}

	dst, err := New(a.Extent, targetDtype, targetDevice)
	if err != nil {
		return nil, err
	}
	dst.IsScalar = a.IsScalar

	var walkErr error
	shape.EachOffset(a.Extent, a.Stride, func(flat int, srcOff int64) {
		if walkErr != nil {
			return
		}
		v, err := readElementAt(a, srcOff)
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
