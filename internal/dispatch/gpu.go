package dispatch

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/expr"
	"github.com/rapidgo/rapid/internal/backend/gpu"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
)

// wgslTypeFor maps a dtype to the WGSL scalar type the assembled kernel
// declares its buffers as. WGSL's core profile has no 64-bit integer,
// 64-bit float, or complex numeric type, so Int64/Float64/CFloat32/
// CFloat64 destinations cannot take the device path; callers must clone
// to host, compute, and copy back.
func wgslTypeFor(dt dtype.Dtype) (string, error) {
	switch dt {
	case dtype.Int32:
		return "i32", nil
	case dtype.Float32:
		return "f32", nil
	default:
		return "", errs.Wrap(errs.ErrKernelCompileError, "gpu materialize: dtype %s has no WGSL scalar representation; clone to host first", dt)
	}
}

// materializeGPU only handles the flat Binary/Unary-of-two-or-one-array-
// operand shapes that internal/backend/gpu's fragment templates assemble;
// nested expression trees and scalar-broadcast GPU operands are out of
// this path's scope and report KernelCompileError asking the caller to
// evaluate the sub-expression to a host or device Array first.
func materializeGPU(dst *core.Array, node expr.Node, trivial bool) error {
	if !trivial {
		return errs.Wrap(errs.ErrLaunchError, "gpu materialize: non-trivial layouts are not supported on the device path; clone first")
	}
	wgslType, err := wgslTypeFor(dst.Dtype)
	if err != nil {
		return err
	}

	switch n := node.(type) {
	case *expr.Binary:
		return launchBinary(dst, n, wgslType)
	case *expr.Unary:
		return launchUnary(dst, n, wgslType)
	default:
		return errs.Wrap(errs.ErrKernelCompileError, "gpu materialize: nested expressions are not supported; eval sub-expressions first")
	}
}

func deviceBuffer(a *core.Array) (*gpu.Buffer, error) {
	if a.Device != device.Gpu {
		return nil, errs.Wrap(errs.ErrInvalidDevice, "gpu materialize: operand is not resident on device; clone first")
	}
	if a.Start.Offset != 0 {
		return nil, errs.Wrap(errs.ErrLaunchError, "gpu materialize: sliced device operands are not supported; clone first")
	}
	return a.Start.GpuBuffer(), nil
}

func launchBinary(dst *core.Array, b *expr.Binary, wgslType string) error {
	leaves := b.ArrayLeaves()
	if len(leaves) != 2 {
		return errs.Wrap(errs.ErrKernelCompileError, "gpu materialize: binary op requires two array operands; scalar broadcast is not supported on device")
	}
	bufA, err := deviceBuffer(leaves[0])
	if err != nil {
		return err
	}
	bufB, err := deviceBuffer(leaves[1])
	if err != nil {
		return err
	}
	bufDst, err := deviceBuffer(dst)
	if err != nil {
		return err
	}

	src := gpu.AssembleBinary(b.Op(), wgslType)
	return gpu.Launch(src, dst.NumElements(), []*gpu.Buffer{bufA, bufB, bufDst})
}

func launchUnary(dst *core.Array, u *expr.Unary, wgslType string) error {
	if u.Op() == "fillRandom" {
		return errs.Wrap(errs.ErrKernelCompileError, "gpu materialize: fillRandom is not supported on device; fill on host then clone")
	}
	leaves := u.ArrayLeaves()
	if len(leaves) != 1 {
		return errs.Wrap(errs.ErrKernelCompileError, "gpu materialize: unary op requires exactly one array operand")
	}
	bufA, err := deviceBuffer(leaves[0])
	if err != nil {
		return err
	}
	bufDst, err := deviceBuffer(dst)
	if err != nil {
		return err
	}

	src := gpu.AssembleUnary(u.Op(), wgslType)
	return gpu.Launch(src, dst.NumElements(), []*gpu.Buffer{bufA, bufDst})
}
