// Package shape implements the dimension (Extent) and per-axis step
// (Stride) vectors the array engine uses for index arithmetic, plus
// Reconcile, the strict scalar-or-equal rule for a binary result shape.
package shape

import (
	"fmt"

	"github.com/rapidgo/rapid/internal/errs"
)

// AUTO is the sentinel dimension that may appear once in a reshape target;
// it resolves to whatever size makes the element count match.
const AUTO int64 = -1

// DefaultMaxDims is the cap on Extent length used until Configure overrides
// it via shape.SetMaxDims.
const DefaultMaxDims = 32

var maxDims = DefaultMaxDims

// SetMaxDims overrides the process-wide Extent length cap. It is exposed
// for rapid.Configure(WithMaxDims(n)); callers should set it before any
// Extent is constructed.
func SetMaxDims(n int) {
	if n > 0 {
		maxDims = n
	}
}

// MaxDims returns the current Extent length cap.
func MaxDims() int { return maxDims }

// Extent is a dimension vector. dims()==0 denotes a scalar.
type Extent []int64

// New builds an Extent from the given dimensions, validating the cap and
// that every dimension is >= 1.
func New(dims ...int64) (Extent, error) {
	if len(dims) > maxDims {
		return nil, errs.Wrap(errs.ErrInvalidReshape, "extent rank %d exceeds MaxDims %d", len(dims), maxDims)
	}
	e := make(Extent, len(dims))
	copy(e, dims)
	for _, d := range e {
		if d < 1 {
			return nil, errs.Wrap(errs.ErrInvalidReshape, "extent dimension %d must be >= 1", d)
		}
	}
	return e, nil
}

// Dims returns the rank (number of axes).
func (e Extent) Dims() int { return len(e) }

// Size returns the product of dimensions; 1 when Dims()==0 (scalar).
func (e Extent) Size() int64 {
	n := int64(1)
	for _, d := range e {
		n *= d
	}
	return n
}

// Equal reports structural equality.
func (e Extent) Equal(o Extent) bool {
	if len(e) != len(o) {
		return false
	}
	for i := range e {
		if e[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (e Extent) Clone() Extent {
	c := make(Extent, len(e))
	copy(c, e)
	return c
}

// IsScalar reports whether this extent describes a scalar value: rank 0 or
// rank 1 with a single element.
func (e Extent) IsScalar() bool {
	return len(e) == 0 || e.Size() == 1
}

func (e Extent) String() string {
	return fmt.Sprint([]int64(e))
}

// Reshape resolves at most one AUTO dimension in target against e's total
// size and returns the concrete result. Fails with InvalidReshape if more
// than one AUTO appears, or the resolved product disagrees with e.Size().
func (e Extent) Reshape(target Extent) (Extent, error) {
	autoIdx := -1
	known := int64(1)
	for i, d := range target {
		if d == AUTO {
			if autoIdx != -1 {
				return nil, errs.Wrap(errs.ErrInvalidReshape, "more than one AUTO dimension in %v", target)
			}
			autoIdx = i
			continue
		}
		if d < 1 {
			return nil, errs.Wrap(errs.ErrInvalidReshape, "invalid target dimension %d", d)
		}
		known *= d
	}

	total := e.Size()
	result := target.Clone()
	if autoIdx >= 0 {
		if known == 0 || total%known != 0 {
			return nil, errs.Wrap(errs.ErrInvalidReshape, "cannot resolve AUTO: size %d not divisible by %d", total, known)
		}
		result[autoIdx] = total / known
	} else if known != total {
		return nil, errs.Wrap(errs.ErrInvalidReshape, "reshape size mismatch: %d elements into shape %v", total, target)
	}
	return result, nil
}

// Reconcile implements the engine's strict binary shape rule: non-scalar
// operands must match exactly, or one side must be scalar. It returns the
// result extent (the non-scalar side; if both are scalar, the one with
// more dimensions, a on a tie).
func Reconcile(a, b Extent) (Extent, error) {
	aScalar, bScalar := a.IsScalar(), b.IsScalar()
	switch {
	case aScalar && bScalar:
		if len(a) >= len(b) {
			return a, nil
		}
		return b, nil
	case aScalar:
		return b, nil
	case bScalar:
		return a, nil
	case a.Equal(b):
		return a, nil
	default:
		return nil, errs.Wrap(errs.ErrShapeMismatch, "%v vs %v", a, b)
	}
}

// BroadcastShapes reconciles two possibly different-rank extents under
// NumPy-style dimension-by-dimension rules. It is not used on the strict
// element-wise dispatch path (see Reconcile) and has no caller yet in
// this module; it exists so a future broadcasting operator has the
// combining rule already written rather than needing to rederive it.
func BroadcastShapes(a, b Extent) (Extent, bool, error) {
	n := maxInt(len(a), len(b))
	result := make(Extent, n)
	broadcasted := false
	for i := 0; i < n; i++ {
		ai := dimAt(a, len(a), i, n)
		bi := dimAt(b, len(b), i, n)
		switch {
		case ai == bi:
			result[n-1-i] = ai
		case ai == 1:
			result[n-1-i] = bi
			broadcasted = true
		case bi == 1:
			result[n-1-i] = ai
			broadcasted = true
		default:
			return nil, false, errs.Wrap(errs.ErrShapeMismatch, "cannot broadcast %v with %v", a, b)
		}
	}
	return result, broadcasted, nil
}

func dimAt(e Extent, elen, i, n int) int64 {
	idx := elen - 1 - i
	if idx < 0 {
		return 1
	}
	return e[idx]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
