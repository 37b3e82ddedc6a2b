package core

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/internal/storage"
)

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int32:
		return int64(x), true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	case float32:
		return int64(x), true
	default:
		return 0, false
	}
}

func toComplex128(v any) (complex128, bool) {
	switch x := v.(type) {
	case complex128:
		return x, true
	case complex64:
		return complex128(x), true
	}
	if f, ok := toFloat64(v); ok {
		return complex(f, 0), true
	}
	return 0, false
}

// writeHostElement converts value to dt and writes it at element index idx
// within the host-backed view v.
func writeHostElement(v storage.View, dt dtype.Dtype, idx int64, value any) error {
	remaining := v.St.N - v.Offset
	switch dt {
	case dtype.Int32:
		f, ok := toInt64(value)
		if !ok {
			return errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to int32", value)
		}
		storage.Int32Slice(v, remaining)[idx] = int32(f)
	case dtype.Int64:
		f, ok := toInt64(value)
		if !ok {
			return errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to int64", value)
		}
		storage.Int64Slice(v, remaining)[idx] = f
	case dtype.Float32:
		f, ok := toFloat64(value)
		if !ok {
			return errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to float32", value)
		}
		storage.Float32Slice(v, remaining)[idx] = float32(f)
	case dtype.Float64:
		f, ok := toFloat64(value)
		if !ok {
			return errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to float64", value)
		}
		storage.Float64Slice(v, remaining)[idx] = f
	case dtype.CFloat32:
		c, ok := toComplex128(value)
		if !ok {
			return errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to cfloat32", value)
		}
		storage.Complex64Slice(v, remaining)[idx] = complex64(c)
	case dtype.CFloat64:
		c, ok := toComplex128(value)
		if !ok {
			return errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to cfloat64", value)
		}
		storage.Complex128Slice(v, remaining)[idx] = c
	default:
		return errs.Wrap(errs.ErrInvalidDtype, "invalid dtype %s", dt)
	}
	return nil
}

// readHostElement reads element idx within v, boxed as any.
func readHostElement(v storage.View, dt dtype.Dtype, idx int64) (any, error) {
	remaining := v.St.N - v.Offset
	switch dt {
	case dtype.Int32:
		return storage.Int32Slice(v, remaining)[idx], nil
	case dtype.Int64:
		return storage.Int64Slice(v, remaining)[idx], nil
	case dtype.Float32:
		return storage.Float32Slice(v, remaining)[idx], nil
	case dtype.Float64:
		return storage.Float64Slice(v, remaining)[idx], nil
	case dtype.CFloat32:
		return storage.Complex64Slice(v, remaining)[idx], nil
	case dtype.CFloat64:
		return storage.Complex128Slice(v, remaining)[idx], nil
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "invalid dtype %s", dt)
	}
}

// readElementAt reads the element offsetFromStart elements past a.Start,
// boxed as any. Gpu arrays round-trip through a one-element host scratch
// buffer; storage never converts type on its own, so this is the only
// place a single device element is read back.
func readElementAt(a *Array, offsetFromStart int64) (any, error) {
	view := a.Start.At(offsetFromStart)
	if a.Device == device.Cpu {
		return readHostElement(view, a.Dtype, 0)
	}
	tmp, err := storage.Allocate(1, a.Dtype, device.Cpu)
	if err != nil {
		return nil, err
	}
	defer tmp.Release()
	if err := storage.Copy(tmp.Origin(), view, 1); err != nil {
		return nil, err
	}
	return readHostElement(tmp.Origin(), a.Dtype, 0)
}

// writeElementAt converts value to a.Dtype and writes it offsetFromStart
// elements past a.Start.
func writeElementAt(a *Array, offsetFromStart int64, value any) error {
	view := a.Start.At(offsetFromStart)
	if a.Device == device.Cpu {
		return writeHostElement(view, a.Dtype, 0, value)
	}
	tmp, err := storage.Allocate(1, a.Dtype, device.Cpu)
	if err != nil {
		return err
	}
	defer tmp.Release()
	if err := writeHostElement(tmp.Origin(), a.Dtype, 0, value); err != nil {
		return err
	}
	return storage.Copy(view, tmp.Origin(), 1)
}
