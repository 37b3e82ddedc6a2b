// Package dtype describes the fixed set of scalar element types the array
// engine evaluates over: their storage size, SIMD packet width, capability
// flags, and promotion order.
package dtype

import (
	"strings"

	"github.com/rapidgo/rapid/internal/errs"
)

// Dtype is a closed enumeration of element types. Declaration order is the
// promotion order: the common type of two dtypes is the one with the larger
// ordinal.
type Dtype int

const (
	None Dtype = iota
	ValidNone
	Int32
	Int64
	Float32
	Float64
	CFloat32
	CFloat64
)

// Traits statically describes one element type.
type Traits struct {
	Name       string
	ByteSize   int
	PacketWidth int
	Arithmetic bool
	Bitwise    bool
	Logical    bool
	Floating   bool
	Signed     bool
}

var traitTable = map[Dtype]Traits{
	None:      {Name: "none"},
	ValidNone: {Name: "validnone"},
	Int32:     {Name: "i32", ByteSize: 4, PacketWidth: 8, Arithmetic: true, Bitwise: true, Logical: true, Signed: true},
	Int64:     {Name: "i64", ByteSize: 8, PacketWidth: 4, Arithmetic: true, Bitwise: true, Logical: true, Signed: true},
	Float32:   {Name: "f32", ByteSize: 4, PacketWidth: 8, Arithmetic: true, Logical: true, Floating: true, Signed: true},
	Float64:   {Name: "f64", ByteSize: 8, PacketWidth: 4, Arithmetic: true, Logical: true, Floating: true, Signed: true},
	CFloat32:  {Name: "cf32", ByteSize: 8, PacketWidth: 4, Arithmetic: true, Floating: true, Signed: true},
	CFloat64:  {Name: "cf64", ByteSize: 16, PacketWidth: 2, Arithmetic: true, Floating: true, Signed: true},
}

// Traits returns the static description for d. Unknown ordinals return the
// zero Traits.
func (d Dtype) Traits() Traits {
	return traitTable[d]
}

// String returns the canonical name used by Parse's inverse direction.
func (d Dtype) String() string {
	if t, ok := traitTable[d]; ok {
		return t.Name
	}
	return "unknown"
}

// ByteSize is a shorthand for Traits().ByteSize.
func (d Dtype) ByteSize() int { return traitTable[d].ByteSize }

// IsValid reports whether d is usable as an operand (not None/ValidNone).
func (d Dtype) IsValid() bool { return d != None && d != ValidNone }

var synonyms = map[string]Dtype{
	"i32": Int32, "int32": Int32, "int": Int32, "long": Int32,
	"i": Int64, "i64": Int64, "int64": Int64, "long long": Int64,
	"f32": Float32, "float32": Float32, "float": Float32,
	"f": Float64, "f64": Float64, "float64": Float64, "double": Float64,
	"cf32": CFloat32, "cfloat32": CFloat32, "complex float": CFloat32,
	"c": CFloat64, "cf": CFloat64, "cf64": CFloat64, "cfloat64": CFloat64,
	"complex": CFloat64, "complex double": CFloat64,
	"n": None, "none": None, "null": None, "void": None,
}

// Parse converts a dtype string (and recognized synonyms) to a Dtype.
func Parse(s string) (Dtype, error) {
	d, ok := synonyms[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return None, errs.Wrap(errs.ErrInvalidDtype, "unknown dtype string %q", s)
	}
	return d, nil
}

// Promote returns the common type of a and b by ordinal comparison. Either
// operand being None or ValidNone is an error: those are not valid operands.
func Promote(a, b Dtype) (Dtype, error) {
	if !a.IsValid() || !b.IsValid() {
		return None, errs.Wrap(errs.ErrInvalidDtype, "promote(%s, %s): invalid operand", a, b)
	}
	if a >= b {
		return a, nil
	}
	return b, nil
}
