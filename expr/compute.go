package expr

import (
	"math"
	"math/cmplx"

	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/errs"
)

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case int:
		return float64(x), true
	default:
		return 0, false
	}
}

func asInt64(v any) (int64, bool) {
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

func asComplex128(v any) (complex128, bool) {
	switch x := v.(type) {
	case complex128:
		return x, true
	case complex64:
		return complex128(x), true
	}
	if f, ok := asFloat64(v); ok {
		return complex(f, 0), true
	}
	return 0, false
}

// convertTo converts value to dt's native Go representation, the same
// boxed shape internal/storage hands back from a typed slice.
func convertTo(dt dtype.Dtype, value any) (any, error) {
	switch dt {
	case dtype.Int32:
		i, ok := asInt64(value)
		if !ok {
			return nil, errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to int32", value)
		}
		return int32(i), nil
	case dtype.Int64:
		i, ok := asInt64(value)
		if !ok {
			return nil, errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to int64", value)
		}
		return i, nil
	case dtype.Float32:
		f, ok := asFloat64(value)
		if !ok {
			return nil, errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to float32", value)
		}
		return float32(f), nil
	case dtype.Float64:
		f, ok := asFloat64(value)
		if !ok {
			return nil, errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to float64", value)
		}
		return f, nil
	case dtype.CFloat32:
		c, ok := asComplex128(value)
		if !ok {
			return nil, errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to cfloat32", value)
		}
		return complex64(c), nil
	case dtype.CFloat64:
		c, ok := asComplex128(value)
		if !ok {
			return nil, errs.Wrap(errs.ErrInvalidDtype, "cannot convert %T to cfloat64", value)
		}
		return c, nil
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "invalid dtype %s", dt)
	}
}

func boolToF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func boolToI(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func binaryInt(op string, x, y int64) (int64, error) {
	switch op {
	case "add":
		return x + y, nil
	case "sub":
		return x - y, nil
	case "mul":
		return x * y, nil
	case "div":
		if y == 0 {
			return 0, errs.Wrap(errs.ErrInvalidDtype, "integer division by zero")
		}
		return x / y, nil
	case "bitwiseAnd":
		return x & y, nil
	case "bitwiseOr":
		return x | y, nil
	case "bitwiseXor":
		return x ^ y, nil
	case "shl":
		return x << uint(y), nil
	case "shr":
		return x >> uint(y), nil
	case "logicalAnd":
		return boolToI(x != 0 && y != 0), nil
	case "logicalOr":
		return boolToI(x != 0 || y != 0), nil
	case "eq":
		return boolToI(x == y), nil
	case "ne":
		return boolToI(x != y), nil
	case "lt":
		return boolToI(x < y), nil
	case "le":
		return boolToI(x <= y), nil
	case "gt":
		return boolToI(x > y), nil
	case "ge":
		return boolToI(x >= y), nil
	default:
		return 0, errs.Wrap(errs.ErrInvalidDtype, "binary op %q is not defined on integer operands", op)
	}
}

func binaryFloat(op string, x, y float64) (float64, error) {
	switch op {
	case "add":
		return x + y, nil
	case "sub":
		return x - y, nil
	case "mul":
		return x * y, nil
	case "div":
		return x / y, nil
	case "logicalAnd":
		return boolToF(x != 0 && y != 0), nil
	case "logicalOr":
		return boolToF(x != 0 || y != 0), nil
	case "eq":
		return boolToF(x == y), nil
	case "ne":
		return boolToF(x != y), nil
	case "lt":
		return boolToF(x < y), nil
	case "le":
		return boolToF(x <= y), nil
	case "gt":
		return boolToF(x > y), nil
	case "ge":
		return boolToF(x >= y), nil
	default:
		return 0, errs.Wrap(errs.ErrInvalidDtype, "binary op %q is not defined on floating operands", op)
	}
}

func binaryComplex(op string, x, y complex128) (complex128, error) {
	switch op {
	case "add":
		return x + y, nil
	case "sub":
		return x - y, nil
	case "mul":
		return x * y, nil
	case "div":
		return x / y, nil
	default:
		return 0, errs.Wrap(errs.ErrInvalidDtype, "binary op %q is not defined on complex operands", op)
	}
}

// applyBinary converts a and b to dt's representation and evaluates op,
// returning a value already boxed in dt's representation.
func applyBinary(op string, dt dtype.Dtype, a, b any) (any, error) {
	ca, err := convertTo(dt, a)
	if err != nil {
		return nil, err
	}
	cb, err := convertTo(dt, b)
	if err != nil {
		return nil, err
	}
	switch dt {
	case dtype.Int32:
		r, err := binaryInt(op, int64(ca.(int32)), int64(cb.(int32)))
		if err != nil {
			return nil, err
		}
		return int32(r), nil
	case dtype.Int64:
		r, err := binaryInt(op, ca.(int64), cb.(int64))
		if err != nil {
			return nil, err
		}
		return r, nil
	case dtype.Float32:
		r, err := binaryFloat(op, float64(ca.(float32)), float64(cb.(float32)))
		if err != nil {
			return nil, err
		}
		return float32(r), nil
	case dtype.Float64:
		r, err := binaryFloat(op, ca.(float64), cb.(float64))
		if err != nil {
			return nil, err
		}
		return r, nil
	case dtype.CFloat32:
		r, err := binaryComplex(op, complex128(ca.(complex64)), complex128(cb.(complex64)))
		if err != nil {
			return nil, err
		}
		return complex64(r), nil
	case dtype.CFloat64:
		r, err := binaryComplex(op, ca.(complex128), cb.(complex128))
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "invalid dtype %s", dt)
	}
}

func unaryInt(op string, x int64) (int64, error) {
	switch op {
	case "neg":
		return -x, nil
	case "bitwiseNot":
		return ^x, nil
	case "logicalNot":
		return boolToI(x == 0), nil
	case "abs":
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case "sqrt", "exp", "log", "sin", "cos", "tan":
		f, err := unaryFloat(op, float64(x))
		if err != nil {
			return 0, err
		}
		return int64(f), nil
	default:
		return 0, errs.Wrap(errs.ErrInvalidDtype, "unary op %q is not defined on integer operands", op)
	}
}

func unaryFloat(op string, x float64) (float64, error) {
	switch op {
	case "neg":
		return -x, nil
	case "logicalNot":
		return boolToF(x == 0), nil
	case "abs":
		return math.Abs(x), nil
	case "sqrt":
		return math.Sqrt(x), nil
	case "exp":
		return math.Exp(x), nil
	case "log":
		return math.Log(x), nil
	case "sin":
		return math.Sin(x), nil
	case "cos":
		return math.Cos(x), nil
	case "tan":
		return math.Tan(x), nil
	default:
		return 0, errs.Wrap(errs.ErrInvalidDtype, "unary op %q is not defined on floating operands", op)
	}
}

func unaryComplex(op string, x complex128) (complex128, error) {
	switch op {
	case "neg":
		return -x, nil
	case "abs":
		return complex(cmplx.Abs(x), 0), nil
	case "sqrt":
		return cmplx.Sqrt(x), nil
	case "exp":
		return cmplx.Exp(x), nil
	case "log":
		return cmplx.Log(x), nil
	case "sin":
		return cmplx.Sin(x), nil
	case "cos":
		return cmplx.Cos(x), nil
	case "tan":
		return cmplx.Tan(x), nil
	default:
		return 0, errs.Wrap(errs.ErrInvalidDtype, "unary op %q is not defined on complex operands", op)
	}
}

// applyUnary converts a to dt's representation and evaluates op.
func applyUnary(op string, dt dtype.Dtype, a any) (any, error) {
	ca, err := convertTo(dt, a)
	if err != nil {
		return nil, err
	}
	switch dt {
	case dtype.Int32:
		r, err := unaryInt(op, int64(ca.(int32)))
		if err != nil {
			return nil, err
		}
		return int32(r), nil
	case dtype.Int64:
		r, err := unaryInt(op, ca.(int64))
		if err != nil {
			return nil, err
		}
		return r, nil
	case dtype.Float32:
		r, err := unaryFloat(op, float64(ca.(float32)))
		if err != nil {
			return nil, err
		}
		return float32(r), nil
	case dtype.Float64:
		r, err := unaryFloat(op, ca.(float64))
		if err != nil {
			return nil, err
		}
		return r, nil
	case dtype.CFloat32:
		r, err := unaryComplex(op, complex128(ca.(complex64)))
		if err != nil {
			return nil, err
		}
		return complex64(r), nil
	case dtype.CFloat64:
		r, err := unaryComplex(op, ca.(complex128))
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "invalid dtype %s", dt)
	}
}

// binaryOpKind and unaryOpKind classify an operator name by the dtype
// capability it requires, so node construction can reject an
// op/dtype combination up front (e.g. bitwiseAnd on Float64) instead of
// failing element-by-element during materialization.
func binaryOpKind(op string) string {
	switch op {
	case "add", "sub", "mul", "div":
		return "arithmetic"
	case "bitwiseAnd", "bitwiseOr", "bitwiseXor", "shl", "shr":
		return "bitwise"
	case "logicalAnd", "logicalOr", "eq", "ne", "lt", "le", "gt", "ge":
		return "logical"
	default:
		return "unknown"
	}
}

func unaryOpKind(op string) string {
	switch op {
	case "neg", "abs", "sqrt", "exp", "log", "sin", "cos", "tan":
		return "arithmetic"
	case "bitwiseNot":
		return "bitwise"
	case "logicalNot":
		return "logical"
	case "fillRandom":
		return "fillRandom"
	default:
		return "unknown"
	}
}

func dtypeSupportsKind(dt dtype.Dtype, kind string) bool {
	t := dt.Traits()
	switch kind {
	case "arithmetic":
		return t.Arithmetic
	case "bitwise":
		return t.Bitwise
	case "logical":
		return t.Logical
	case "fillRandom":
		return true
	default:
		return false
	}
}
