package dispatch

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/expr"
	"github.com/rapidgo/rapid/internal/blasdot"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/internal/storage"
	"github.com/rapidgo/rapid/shape"
)

// Dot dispatches on operand shapes per the contraction rule: either
// operand scalar degenerates to an element-wise multiply, a pair of
// vectors reduces to an inner product, and any shape involving a matrix
// delegates to internal/blasdot, the opaque BLAS-like primitive.
func Dot(a, b *core.Array) (*core.Array, error) {
	if a.Uninitialized() || b.Uninitialized() {
		return nil, errs.Wrap(errs.ErrUninitialized, "dot: operand is uninitialized")
	}
	dt, err := dtype.Promote(a.Dtype, b.Dtype)
	if err != nil {
		return nil, err
	}
	dev := device.Promote(a.Device, b.Device)

	switch {
	case a.IsScalar || b.IsScalar:
		return dotScalarMultiply(a, b, dt, dev)
	case a.Ndim() == 1 && b.Ndim() == 1:
		return dotVectorVector(a, b, dt, dev)
	case a.Ndim() == 2 && b.Ndim() == 1:
		return dotMatrixVector(a, b, dt, dev)
	case a.Ndim() == 1 && b.Ndim() == 2:
		return dotVectorMatrix(a, b, dt, dev)
	case a.Ndim() == 2 && b.Ndim() == 2:
		return dotMatrixMatrix(a, b, dt, dev)
	default:
		return nil, errs.Wrap(errs.ErrShapeMismatch, "dot: unsupported operand ranks %d and %d", a.Ndim(), b.Ndim())
	}
}

func dotScalarMultiply(a, b *core.Array, dt dtype.Dtype, dev device.Accel) (*core.Array, error) {
	la, err := expr.NewArrayLeaf(a)
	if err != nil {
		return nil, err
	}
	lb, err := expr.NewArrayLeaf(b)
	if err != nil {
		return nil, err
	}
	node, err := expr.NewBinary("mul", la, lb)
	if err != nil {
		return nil, err
	}
	dst, err := core.New(node.Extent(), dt, dev)
	if err != nil {
		return nil, err
	}
	dst.IsScalar = node.IsScalar()
	if err := Materialize(dst, node); err != nil {
		return nil, err
	}
	return dst, nil
}

// prepareOperand returns a's contents as a Cpu, dt-typed, trivial-
// contiguous Array, cloning only when a doesn't already satisfy that. The
// bool reports whether the caller owns a fresh clone that must be
// Released.
func prepareOperand(a *core.Array, dt dtype.Dtype) (*core.Array, bool, error) {
	if a.Dtype == dt && a.Device == device.Cpu && a.Trivial() && a.Contiguous() {
		return a, false, nil
	}
	cpu := device.Cpu
	c, err := core.Clone(a, &dt, &cpu)
	if err != nil {
		return nil, false, err
	}
	return c, true, nil
}

func releaseIfOwned(a *core.Array, owned bool) {
	if owned {
		a.Release()
	}
}

// migrateTo clones result to dev if it isn't already resident there.
func migrateTo(result *core.Array, dev device.Accel) (*core.Array, error) {
	if result.Device == dev {
		return result, nil
	}
	return core.Clone(result, nil, &dev)
}

func dotVectorVector(a, b *core.Array, dt dtype.Dtype, dev device.Accel) (*core.Array, error) {
	if !a.Extent.Equal(b.Extent) {
		return nil, errs.Wrap(errs.ErrShapeMismatch, "dot: vector lengths %v vs %v", a.Extent, b.Extent)
	}
	ca, ownedA, err := prepareOperand(a, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(ca, ownedA)
	cb, ownedB, err := prepareOperand(b, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(cb, ownedB)

	n := ca.NumElements()
	var result any
	switch dt {
	case dtype.Int32:
		result = blasdot.VectorDotInt32(storage.Int32Slice(ca.Start, n), storage.Int32Slice(cb.Start, n))
	case dtype.Int64:
		result = blasdot.VectorDotInt64(storage.Int64Slice(ca.Start, n), storage.Int64Slice(cb.Start, n))
	case dtype.Float32:
		result = float32(blasdot.VectorDotFloat32(storage.Float32Slice(ca.Start, n), storage.Float32Slice(cb.Start, n)))
	case dtype.Float64:
		result = blasdot.VectorDotFloat64(storage.Float64Slice(ca.Start, n), storage.Float64Slice(cb.Start, n))
	case dtype.CFloat32:
		xs, ys := storage.Complex64Slice(ca.Start, n), storage.Complex64Slice(cb.Start, n)
		var sum complex128
		for i := range xs {
			sum += complex128(xs[i]) * complex128(ys[i])
		}
		result = complex64(sum)
	case dtype.CFloat64:
		xs, ys := storage.Complex128Slice(ca.Start, n), storage.Complex128Slice(cb.Start, n)
		var sum complex128
		for i := range xs {
			sum += xs[i] * ys[i]
		}
		result = sum
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "dot: dtype %s", dt)
	}

	out, err := core.NewScalar(result, dt, device.Cpu)
	if err != nil {
		return nil, err
	}
	return migrateTo(out, dev)
}

func dotMatrixVector(a, b *core.Array, dt dtype.Dtype, dev device.Accel) (*core.Array, error) {
	if a.Extent[1] != b.Extent[0] {
		return nil, errs.Wrap(errs.ErrShapeMismatch, "dot: matrix %v incompatible with vector %v", a.Extent, b.Extent)
	}
	ca, ownedA, err := prepareOperand(a, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(ca, ownedA)
	cb, ownedB, err := prepareOperand(b, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(cb, ownedB)

	m, k := int(a.Extent[0]), int(a.Extent[1])
	ext, err := shape.New(int64(m))
	if err != nil {
		return nil, err
	}
	out, err := core.New(ext, dt, device.Cpu)
	if err != nil {
		return nil, err
	}

	switch dt {
	case dtype.Int32:
		y := blasdot.MatVecInt32(storage.Int32Slice(ca.Start, ca.NumElements()), m, k, storage.Int32Slice(cb.Start, cb.NumElements()))
		copy(storage.Int32Slice(out.Start, out.NumElements()), y)
	case dtype.Int64:
		y := blasdot.MatVecInt64(storage.Int64Slice(ca.Start, ca.NumElements()), m, k, storage.Int64Slice(cb.Start, cb.NumElements()))
		copy(storage.Int64Slice(out.Start, out.NumElements()), y)
	case dtype.Float32:
		y := blasdot.MatVecFloat32(storage.Float32Slice(ca.Start, ca.NumElements()), m, k, storage.Float32Slice(cb.Start, cb.NumElements()))
		copy(storage.Float32Slice(out.Start, out.NumElements()), y)
	case dtype.Float64:
		y := blasdot.MatVecFloat64(storage.Float64Slice(ca.Start, ca.NumElements()), m, k, storage.Float64Slice(cb.Start, cb.NumElements()))
		copy(storage.Float64Slice(out.Start, out.NumElements()), y)
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "dot: dtype %s is not supported for matrix times vector", dt)
	}
	return migrateTo(out, dev)
}

func dotVectorMatrix(a, b *core.Array, dt dtype.Dtype, dev device.Accel) (*core.Array, error) {
	if a.Extent[0] != b.Extent[0] {
		return nil, errs.Wrap(errs.ErrShapeMismatch, "dot: vector %v incompatible with matrix %v", a.Extent, b.Extent)
	}
	ca, ownedA, err := prepareOperand(a, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(ca, ownedA)
	cb, ownedB, err := prepareOperand(b, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(cb, ownedB)

	k, n := int(b.Extent[0]), int(b.Extent[1])
	ext, err := shape.New(int64(n))
	if err != nil {
		return nil, err
	}
	out, err := core.New(ext, dt, device.Cpu)
	if err != nil {
		return nil, err
	}

	switch dt {
	case dtype.Int32:
		y := blasdot.VecMatInt32(storage.Int32Slice(ca.Start, ca.NumElements()), k, storage.Int32Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Int32Slice(out.Start, out.NumElements()), y)
	case dtype.Int64:
		y := blasdot.VecMatInt64(storage.Int64Slice(ca.Start, ca.NumElements()), k, storage.Int64Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Int64Slice(out.Start, out.NumElements()), y)
	case dtype.Float32:
		y := blasdot.VecMatFloat32(storage.Float32Slice(ca.Start, ca.NumElements()), k, storage.Float32Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Float32Slice(out.Start, out.NumElements()), y)
	case dtype.Float64:
		y := blasdot.VecMatFloat64(storage.Float64Slice(ca.Start, ca.NumElements()), k, storage.Float64Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Float64Slice(out.Start, out.NumElements()), y)
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "dot: dtype %s is not supported for vector times matrix", dt)
	}
	return migrateTo(out, dev)
}

func dotMatrixMatrix(a, b *core.Array, dt dtype.Dtype, dev device.Accel) (*core.Array, error) {
	if a.Extent[1] != b.Extent[0] {
		return nil, errs.Wrap(errs.ErrShapeMismatch, "dot: matrix %v incompatible with matrix %v", a.Extent, b.Extent)
	}
	ca, ownedA, err := prepareOperand(a, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(ca, ownedA)
	cb, ownedB, err := prepareOperand(b, dt)
	if err != nil {
		return nil, err
	}
	defer releaseIfOwned(cb, ownedB)

	m, k, n := int(a.Extent[0]), int(a.Extent[1]), int(b.Extent[1])
	ext, err := shape.New(int64(m), int64(n))
	if err != nil {
		return nil, err
	}
	out, err := core.New(ext, dt, device.Cpu)
	if err != nil {
		return nil, err
	}

	switch dt {
	case dtype.Int32:
		c := blasdot.MatMatInt32(storage.Int32Slice(ca.Start, ca.NumElements()), m, k, storage.Int32Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Int32Slice(out.Start, out.NumElements()), c)
	case dtype.Int64:
		c := blasdot.MatMatInt64(storage.Int64Slice(ca.Start, ca.NumElements()), m, k, storage.Int64Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Int64Slice(out.Start, out.NumElements()), c)
	case dtype.Float32:
		c := blasdot.MatMatFloat32(storage.Float32Slice(ca.Start, ca.NumElements()), m, k, storage.Float32Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Float32Slice(out.Start, out.NumElements()), c)
	case dtype.Float64:
		c := blasdot.MatMatFloat64(storage.Float64Slice(ca.Start, ca.NumElements()), m, k, storage.Float64Slice(cb.Start, cb.NumElements()), n)
		copy(storage.Float64Slice(out.Start, out.NumElements()), c)
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "dot: dtype %s is not supported for matrix times matrix", dt)
	}
	return migrateTo(out, dev)
}
