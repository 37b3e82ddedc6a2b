package core

import "github.com/rapidgo/rapid/shape"

// ScalarAt reads the element named by flat row-major index i, boxed as
// any. It is the pure function of i that backs an ArrayLeaf's scalar(i)
// contract: the offset is recomputed from scratch each call rather than
// assuming sequential access.
func ScalarAt(a *Array, i int64) (any, error) {
	off := shape.OffsetAt(a.Extent, a.Stride, i)
	return readElementAt(a, off)
}

// SetScalarAt converts value to a.Dtype and writes it at flat row-major
// index i.
func SetScalarAt(a *Array, i int64, value any) error {
	off := shape.OffsetAt(a.Extent, a.Stride, i)
	return writeElementAt(a, off, value)
}
