package expr

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// ScalarLeaf broadcasts one value, already converted to dt, to every
// element index.
type ScalarLeaf struct {
	value any
	dt    dtype.Dtype
	dev   device.Accel
}

// NewScalarLeaf converts value to dt and wraps it as a broadcasting leaf.
func NewScalarLeaf(value any, dt dtype.Dtype, dev device.Accel) (*ScalarLeaf, error) {
	if !dt.IsValid() {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "scalar leaf: dtype %s is not a valid operand", dt)
	}
	v, err := convertTo(dt, value)
	if err != nil {
		return nil, err
	}
	return &ScalarLeaf{value: v, dt: dt, dev: dev}, nil
}

func (l *ScalarLeaf) Extent() shape.Extent        { return shape.Extent{1} }
func (l *ScalarLeaf) Dtype() dtype.Dtype          { return l.dt }
func (l *ScalarLeaf) Device() device.Accel        { return l.dev }
func (l *ScalarLeaf) IsScalar() bool              { return true }
func (l *ScalarLeaf) ArrayLeaves() []*core.Array  { return nil }
func (l *ScalarLeaf) Scalar(i int64) (any, error) { return l.value, nil }
func (l *ScalarLeaf) Packet(i int64, width int) ([]any, error) {
	return packetByScalar(l, i, width)
}

// ArrayLeaf reads from an existing Array, honoring its current
// extent/stride (including non-trivial, non-contiguous layouts).
type ArrayLeaf struct {
	arr *core.Array
}

// NewArrayLeaf wraps arr. arr must not be uninitialized.
func NewArrayLeaf(arr *core.Array) (*ArrayLeaf, error) {
	if arr.Uninitialized() {
		return nil, errs.Wrap(errs.ErrUninitialized, "array leaf: array is uninitialized")
	}
	return &ArrayLeaf{arr: arr}, nil
}

func (l *ArrayLeaf) Extent() shape.Extent       { return l.arr.Extent }
func (l *ArrayLeaf) Dtype() dtype.Dtype         { return l.arr.Dtype }
func (l *ArrayLeaf) Device() device.Accel       { return l.arr.Device }
func (l *ArrayLeaf) IsScalar() bool             { return l.arr.IsScalar }
func (l *ArrayLeaf) ArrayLeaves() []*core.Array { return []*core.Array{l.arr} }

func (l *ArrayLeaf) Scalar(i int64) (any, error) {
	if l.arr.IsScalar {
		return core.ScalarAt(l.arr, 0)
	}
	return core.ScalarAt(l.arr, i)
}

func (l *ArrayLeaf) Packet(i int64, width int) ([]any, error) {
	return packetByScalar(l, i, width)
}
