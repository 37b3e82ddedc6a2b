package array

import (
	"github.com/rapidgo/rapid/expr"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/dispatch"
	"github.com/rapidgo/rapid/internal/errs"
)

// Node is the lazy expression type operators build and Eval
// materializes. Re-exported so callers composing expressions never need
// to import expr directly.
type Node = expr.Node

// MapFunc is the N-ary user operator functor Map accepts.
type MapFunc = expr.MapFunc

// Leaf turns a into an expr.Node reading from its current storage and
// stride, the entry point into the expression algebra.
func (a *Array) Leaf() (Node, error) { return expr.NewArrayLeaf(a.core) }

// toNode accepts an *Array or an already-built Node as an operator
// operand; any other type is rejected rather than guessed at, since a
// bare Go scalar's intended dtype is ambiguous (int vs int32 vs int64).
// Use NewScalar to build an explicit scalar Array or expr.NewScalarLeaf
// for a scalar operand with an unambiguous dtype.
func toNode(x any) (Node, error) {
	switch v := x.(type) {
	case *Array:
		return v.Leaf()
	case Node:
		return v, nil
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "array: operand of type %T is neither *Array nor a Node", x)
	}
}

// Eval allocates a fresh Array with node's result shape, dtype and
// device, and runs the dispatcher to fill it.
func Eval(node Node) (*Array, error) {
	dst, err := core.New(node.Extent(), node.Dtype(), node.Device())
	if err != nil {
		return nil, err
	}
	dst.IsScalar = node.IsScalar()
	if err := dispatch.Materialize(dst, node); err != nil {
		return nil, err
	}
	return wrap(dst), nil
}

func (a *Array) binary(op string, other any) (Node, error) {
	x, err := a.Leaf()
	if err != nil {
		return nil, err
	}
	y, err := toNode(other)
	if err != nil {
		return nil, err
	}
	return expr.NewBinary(op, x, y)
}

func (a *Array) unary(op string) (Node, error) {
	x, err := a.Leaf()
	if err != nil {
		return nil, err
	}
	return expr.NewUnary(op, x)
}

// Arithmetic. other may be an *Array or a Node already under
// construction, so expressions compose without eagerly evaluating.
func (a *Array) Add(other any) (Node, error) { return a.binary("add", other) }
func (a *Array) Sub(other any) (Node, error) { return a.binary("sub", other) }
func (a *Array) Mul(other any) (Node, error) { return a.binary("mul", other) }
func (a *Array) Div(other any) (Node, error) { return a.binary("div", other) }
func (a *Array) Neg() (Node, error)          { return a.unary("neg") }

// Bitwise.
func (a *Array) BitwiseAnd(other any) (Node, error) { return a.binary("bitwiseAnd", other) }
func (a *Array) BitwiseOr(other any) (Node, error)  { return a.binary("bitwiseOr", other) }
func (a *Array) BitwiseXor(other any) (Node, error)  { return a.binary("bitwiseXor", other) }
func (a *Array) Shl(other any) (Node, error)         { return a.binary("shl", other) }
func (a *Array) Shr(other any) (Node, error)         { return a.binary("shr", other) }
func (a *Array) BitwiseNot() (Node, error)           { return a.unary("bitwiseNot") }

// Logical and comparison.
func (a *Array) LogicalAnd(other any) (Node, error) { return a.binary("logicalAnd", other) }
func (a *Array) LogicalOr(other any) (Node, error)  { return a.binary("logicalOr", other) }
func (a *Array) LogicalNot() (Node, error)          { return a.unary("logicalNot") }
func (a *Array) Eq(other any) (Node, error)         { return a.binary("eq", other) }
func (a *Array) Ne(other any) (Node, error)         { return a.binary("ne", other) }
func (a *Array) Lt(other any) (Node, error)         { return a.binary("lt", other) }
func (a *Array) Le(other any) (Node, error)         { return a.binary("le", other) }
func (a *Array) Gt(other any) (Node, error)         { return a.binary("gt", other) }
func (a *Array) Ge(other any) (Node, error)         { return a.binary("ge", other) }

// Elementary functions.
func (a *Array) Abs() (Node, error)  { return a.unary("abs") }
func (a *Array) Sqrt() (Node, error) { return a.unary("sqrt") }
func (a *Array) Exp() (Node, error)  { return a.unary("exp") }
func (a *Array) Log() (Node, error)  { return a.unary("log") }
func (a *Array) Sin() (Node, error)  { return a.unary("sin") }
func (a *Array) Cos() (Node, error)  { return a.unary("cos") }
func (a *Array) Tan() (Node, error)  { return a.unary("tan") }

// FillRandomNode builds the fillRandom-as-unary-of-self node; evaluating
// it has the same effect as FilledRandom but composes with other nodes
// (e.g. as one operand of a larger expression) before materialization.
func (a *Array) FillRandomNode(min, max float64, seed int64) (Node, error) {
	x, err := a.Leaf()
	if err != nil {
		return nil, err
	}
	return expr.NewFillRandom(x, min, max, seed), nil
}

// Map builds the N-ary user-operator node. Every operand may be an
// *Array or a Node.
func Map(fn MapFunc, operands ...any) (Node, error) {
	nodes := make([]Node, len(operands))
	for i, op := range operands {
		n, err := toNode(op)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return expr.NewMap(fn, nodes...)
}
