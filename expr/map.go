package expr

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// MapFunc is a user-supplied N-ary functor: given one value per operand
// (in operand order, already boxed in the result dtype's representation),
// it returns the combined result, boxed the same way.
type MapFunc func(operands []any) (any, error)

// Map is the N-ary user operator. Every non-scalar operand must share
// the same extent, the same dtype, and be trivial-contiguous, or
// construction fails with InvalidMapOperand — carried verbatim from
// cwisemap's precondition on the functor's operands.
type Map struct {
	fn       MapFunc
	operands []Node
	extent   shape.Extent
	dt       dtype.Dtype
	dev      device.Accel
}

// NewMap validates InvalidMapOperand's three preconditions against every
// non-scalar operand before accepting fn.
func NewMap(fn MapFunc, operands ...Node) (*Map, error) {
	if len(operands) == 0 {
		return nil, errs.Wrap(errs.ErrInvalidMapOperand, "map: at least one operand is required")
	}

	var extent shape.Extent
	dt := operands[0].Dtype()
	dev := operands[0].Device()
	haveExtent := false

	for _, op := range operands {
		dev = device.Promote(dev, op.Device())
		if op.IsScalar() {
			continue
		}
		if op.Dtype() != dt {
			return nil, errs.Wrap(errs.ErrInvalidMapOperand, "map: operand dtype %s disagrees with %s", op.Dtype(), dt)
		}
		for _, leaf := range op.ArrayLeaves() {
			if !leaf.Trivial() || !leaf.Contiguous() {
				return nil, errs.Wrap(errs.ErrInvalidMapOperand, "map: operand is not trivial-contiguous")
			}
		}
		if !haveExtent {
			extent = op.Extent().Clone()
			haveExtent = true
		} else if !extent.Equal(op.Extent()) {
			return nil, errs.Wrap(errs.ErrInvalidMapOperand, "map: operand extent %v disagrees with %v", op.Extent(), extent)
		}
	}
	if !haveExtent {
		extent = shape.Extent{1}
	}

	return &Map{fn: fn, operands: operands, extent: extent, dt: dt, dev: dev}, nil
}

func (m *Map) Extent() shape.Extent { return m.extent }
func (m *Map) Dtype() dtype.Dtype   { return m.dt }
func (m *Map) Device() device.Accel { return m.dev }

func (m *Map) IsScalar() bool {
	for _, op := range m.operands {
		if !op.IsScalar() {
			return false
		}
	}
	return true
}

func (m *Map) ArrayLeaves() []*core.Array {
	var out []*core.Array
	for _, op := range m.operands {
		out = append(out, op.ArrayLeaves()...)
	}
	return out
}

func (m *Map) Scalar(i int64) (any, error) {
	vals := make([]any, len(m.operands))
	for k, op := range m.operands {
		v, err := op.Scalar(i)
		if err != nil {
			return nil, err
		}
		cv, err := convertTo(m.dt, v)
		if err != nil {
			return nil, err
		}
		vals[k] = cv
	}
	return m.fn(vals)
}

func (m *Map) Packet(i int64, width int) ([]any, error) {
	return packetByScalar(m, i, width)
}
