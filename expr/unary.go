package expr

import (
	"math/rand"
	"sync"

	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

// Unary is the one-operand node. op is one of the UnaryFragments keys
// shared with internal/backend/gpu (neg, bitwiseNot, logicalNot, abs,
// sqrt, exp, log, sin, cos, tan), or "fillRandom" — the spec's fill-random
// treated as a unary-of-self operator, drawing from the same sticky
// process-wide generator as internal/core.FillRandom.
type Unary struct {
	op       string
	x        Node
	min, max float64
	rng      *rand.Rand
	rngMu    sync.Mutex // guards rng: dispatch.materializeParallel calls Scalar from multiple goroutines
}

// NewUnary rejects op/dtype combinations the operand dtype's capability
// flags don't support.
func NewUnary(op string, x Node) (*Unary, error) {
	kind := unaryOpKind(op)
	if kind == "unknown" {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "unknown unary op %q", op)
	}
	if kind == "fillRandom" {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "fillRandom requires bounds; use NewFillRandom")
	}
	if !dtypeSupportsKind(x.Dtype(), kind) {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "unary op %q is not supported on dtype %s", op, x.Dtype())
	}
	return &Unary{op: op, x: x}, nil
}

// NewFillRandom builds the fillRandom-as-unary-of-self node: Scalar
// ignores x's value entirely and draws the next value from the sticky
// generator, matching the array value's in-place FillRandom. The
// generator is seeded (or resumed) once here, at node construction, not
// per element — a materialization calls Scalar once per element, and
// reseeding on every call would collapse the whole fill to one value.
func NewFillRandom(x Node, min, max float64, seed int64) *Unary {
	return &Unary{op: "fillRandom", x: x, min: min, max: max, rng: core.SeedRandom(seed)}
}

func (u *Unary) Extent() shape.Extent { return u.x.Extent() }
func (u *Unary) Dtype() dtype.Dtype   { return u.x.Dtype() }
func (u *Unary) Device() device.Accel { return u.x.Device() }
func (u *Unary) IsScalar() bool       { return u.x.IsScalar() }

func (u *Unary) ArrayLeaves() []*core.Array { return u.x.ArrayLeaves() }

func (u *Unary) Scalar(i int64) (any, error) {
	if u.op == "fillRandom" {
		// *rand.Rand is not safe for concurrent use; materializeParallel
		// calls Scalar from multiple goroutines once N clears the
		// parallel threshold.
		u.rngMu.Lock()
		defer u.rngMu.Unlock()
		return core.DrawRandom(u.rng, u.Dtype(), u.min, u.max)
	}
	xv, err := u.x.Scalar(i)
	if err != nil {
		return nil, err
	}
	return applyUnary(u.op, u.Dtype(), xv)
}

func (u *Unary) Packet(i int64, width int) ([]any, error) {
	return packetByScalar(u, i, width)
}

// Op returns the operator name.
func (u *Unary) Op() string { return u.op }
