package shape

import (
	"sort"

	"github.com/rapidgo/rapid/internal/errs"
)

// Stride is a per-axis element step used to compute a flat offset from a
// multi-index: offset = Σ iₖ·strideₖ.
type Stride []int64

// FromExtent computes the natural strides for a row-major (or, if
// rowMajor is false, column-major) packing of extent.
func FromExtent(e Extent, rowMajor bool) Stride {
	n := len(e)
	s := make(Stride, n)
	if n == 0 {
		return s
	}
	if rowMajor {
		acc := int64(1)
		for i := n - 1; i >= 0; i-- {
			s[i] = acc
			acc *= e[i]
		}
	} else {
		acc := int64(1)
		for i := 0; i < n; i++ {
			s[i] = acc
			acc *= e[i]
		}
	}
	return s
}

// ComputeStrides is an alias for FromExtent(e, true), the engine's default
// row-major layout.
func ComputeStrides(e Extent) Stride { return FromExtent(e, true) }

// Clone returns an independent copy.
func (s Stride) Clone() Stride {
	c := make(Stride, len(s))
	copy(c, s)
	return c
}

// Equal reports structural equality.
func (s Stride) Equal(o Stride) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Offset computes the flat element offset for a multi-index.
func (s Stride) Offset(index []int64) int64 {
	var off int64
	for i, idx := range index {
		off += idx * s[i]
	}
	return off
}

// IsTrivial reports whether s equals the natural row-major strides of e.
func IsTrivial(s Stride, e Extent) bool {
	return s.Equal(FromExtent(e, true))
}

// IsContiguous reports whether s packs e with no gaps: sorting axes by
// ascending stride, the smallest stride is 1 and each subsequent stride
// equals the previous stride times the previous axis's extent. A trivial
// layout is always contiguous; a transposed (permuted) trivial layout is
// contiguous but not trivial.
func IsContiguous(s Stride, e Extent) bool {
	n := len(s)
	if n == 0 {
		return true
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return s[order[i]] < s[order[j]] })

	expect := int64(1)
	for _, axis := range order {
		if e[axis] == 1 {
			continue
		}
		if s[axis] != expect {
			return false
		}
		expect *= e[axis]
	}
	return true
}

// EachOffset walks every flat index 0..e.Size()-1 in row-major order,
// calling f with the flat index and the corresponding strided element
// offset (Σ iₖ·strideₖ). It is the odometer internal/core's clone, fill
// and reference-copy operations walk for general (non-trivial) layouts.
func EachOffset(e Extent, s Stride, f func(flatIndex int, offset int64)) {
	n := int(e.Size())
	if n == 0 {
		return
	}
	dims := len(e)
	if dims == 0 {
		f(0, 0)
		return
	}
	idx := make([]int64, dims)
	var offset int64
	for i := 0; i < n; i++ {
		f(i, offset)
		for k := dims - 1; k >= 0; k-- {
			idx[k]++
			offset += s[k]
			if idx[k] < e[k] {
				break
			}
			offset -= idx[k] * s[k]
			idx[k] = 0
		}
	}
}

// OffsetAt decomposes a single flat row-major index into the strided
// offset Σ iₖ·strideₖ without walking the elements before it, so that a
// node's scalar(i) contract can be evaluated as a pure function of i.
func OffsetAt(e Extent, s Stride, flat int64) int64 {
	dims := len(e)
	if dims == 0 {
		return 0
	}
	var off int64
	for k := dims - 1; k >= 0; k-- {
		if e[k] == 0 {
			continue
		}
		idx := flat % e[k]
		flat /= e[k]
		off += idx * s[k]
	}
	return off
}

// Transpose permutes s and e according to order, returning new slices.
// An empty order reverses all axes. order must be a permutation of
// 0..len(e)-1.
func Transpose(s Stride, e Extent, order []int) (Stride, Extent, error) {
	n := len(e)
	if len(order) == 0 {
		order = make([]int, n)
		for i := range order {
			order[i] = n - 1 - i
		}
	}
	if err := validatePermutation(order, n); err != nil {
		return nil, nil, err
	}
	ns := make(Stride, n)
	ne := make(Extent, n)
	for i, ax := range order {
		ns[i] = s[ax]
		ne[i] = e[ax]
	}
	return ns, ne, nil
}

func validatePermutation(order []int, n int) error {
	if len(order) != n {
		return errs.Wrap(errs.ErrInvalidReshape, "transpose order %v is not a permutation of length %d", order, n)
	}
	seen := make([]bool, n)
	for _, ax := range order {
		if ax < 0 || ax >= n || seen[ax] {
			return errs.Wrap(errs.ErrInvalidReshape, "transpose order %v is not a permutation of length %d", order, n)
		}
		seen[ax] = true
	}
	return nil
}
