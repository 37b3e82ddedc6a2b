package storage

import (
	"unsafe"

	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/errs"
)

// Int32Slice reinterprets the host bytes from v onward as an []int32 of
// length n. It panics if the storage dtype is not Int32; callers are
// expected to dtype-switch before calling, mirroring the teacher's
// AsInt32/AsFloat32 family.
func Int32Slice(v View, n int64) []int32 {
	mustDtype(v, dtype.Int32)
	if n == 0 {
		return nil
	}
	bytes, err := v.HostBytes()
	if err != nil {
		panic(err)
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&bytes[0])), n)
}

// Int64Slice reinterprets the host bytes as an []int64.
func Int64Slice(v View, n int64) []int64 {
	mustDtype(v, dtype.Int64)
	if n == 0 {
		return nil
	}
	bytes, err := v.HostBytes()
	if err != nil {
		panic(err)
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(&bytes[0])), n)
}

// Float32Slice reinterprets the host bytes as an []float32.
func Float32Slice(v View, n int64) []float32 {
	mustDtype(v, dtype.Float32)
	if n == 0 {
		return nil
	}
	bytes, err := v.HostBytes()
	if err != nil {
		panic(err)
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&bytes[0])), n)
}

// Float64Slice reinterprets the host bytes as an []float64.
func Float64Slice(v View, n int64) []float64 {
	mustDtype(v, dtype.Float64)
	if n == 0 {
		return nil
	}
	bytes, err := v.HostBytes()
	if err != nil {
		panic(err)
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&bytes[0])), n)
}

// Complex64Slice reinterprets the host bytes as a []complex64 (CFloat32).
func Complex64Slice(v View, n int64) []complex64 {
	mustDtype(v, dtype.CFloat32)
	if n == 0 {
		return nil
	}
	bytes, err := v.HostBytes()
	if err != nil {
		panic(err)
	}
	return unsafe.Slice((*complex64)(unsafe.Pointer(&bytes[0])), n)
}

// Complex128Slice reinterprets the host bytes as a []complex128 (CFloat64).
func Complex128Slice(v View, n int64) []complex128 {
	mustDtype(v, dtype.CFloat64)
	if n == 0 {
		return nil
	}
	bytes, err := v.HostBytes()
	if err != nil {
		panic(err)
	}
	return unsafe.Slice((*complex128)(unsafe.Pointer(&bytes[0])), n)
}

func mustDtype(v View, want dtype.Dtype) {
	if v.St.Dtype != want {
		panic(errs.Wrap(errs.ErrTypeMismatch, "typed slice: storage dtype %s, want %s", v.St.Dtype, want))
	}
}
