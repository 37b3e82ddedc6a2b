package expr

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// Binary is the arithmetic/bitwise/logical two-operand node. op is one
// of the BinaryFragments keys shared with internal/backend/gpu (add,
// sub, mul, div, bitwiseAnd, bitwiseOr, bitwiseXor, shl, shr, logicalAnd,
// logicalOr, eq, ne, lt, le, gt, ge).
type Binary struct {
	op     string
	x, y   Node
	extent shape.Extent
	dt     dtype.Dtype
	dev    device.Accel
}

// NewBinary applies the shape rule (non-scalar operands must share
// extent), the type rule (result dtype is the promotion of operand
// dtypes), and rejects op/dtype combinations the result dtype's
// capability flags don't support (e.g. bitwiseAnd on a floating dtype).
func NewBinary(op string, x, y Node) (*Binary, error) {
	extent, err := reconcileOperands(x, y)
	if err != nil {
		return nil, err
	}
	dt, err := dtype.Promote(x.Dtype(), y.Dtype())
	if err != nil {
		return nil, err
	}
	kind := binaryOpKind(op)
	if kind == "unknown" {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "unknown binary op %q", op)
	}
	if !dtypeSupportsKind(dt, kind) {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "binary op %q is not supported on dtype %s", op, dt)
	}
	return &Binary{
		op:     op,
		x:      x,
		y:      y,
		extent: extent,
		dt:     dt,
		dev:    device.Promote(x.Device(), y.Device()),
	}, nil
}

// reconcileOperands implements the shape rule: the result shape is the
// extent of any non-scalar leaf, and all non-scalar leaves must agree.
func reconcileOperands(x, y Node) (shape.Extent, error) {
	switch {
	case x.IsScalar() && y.IsScalar():
		return shape.Extent{1}, nil
	case x.IsScalar():
		return y.Extent().Clone(), nil
	case y.IsScalar():
		return x.Extent().Clone(), nil
	default:
		if !x.Extent().Equal(y.Extent()) {
			return nil, errs.Wrap(errs.ErrShapeMismatch, "binary operands: %v vs %v", x.Extent(), y.Extent())
		}
		return x.Extent().Clone(), nil
	}
}

func (b *Binary) Extent() shape.Extent { return b.extent }
func (b *Binary) Dtype() dtype.Dtype   { return b.dt }
func (b *Binary) Device() device.Accel { return b.dev }
func (b *Binary) IsScalar() bool       { return b.x.IsScalar() && b.y.IsScalar() }

func (b *Binary) ArrayLeaves() []*core.Array {
	return append(b.x.ArrayLeaves(), b.y.ArrayLeaves()...)
}

func (b *Binary) Scalar(i int64) (any, error) {
	xv, err := b.x.Scalar(i)
	if err != nil {
		return nil, err
	}
	yv, err := b.y.Scalar(i)
	if err != nil {
		return nil, err
	}
	return applyBinary(b.op, b.dt, xv, yv)
}

func (b *Binary) Packet(i int64, width int) ([]any, error) {
	return packetByScalar(b, i, width)
}

// Op returns the operator name, used by internal/dispatch to pick a GPU
// kernel fragment or a host vectorized loop.
func (b *Binary) Op() string { return b.op }
