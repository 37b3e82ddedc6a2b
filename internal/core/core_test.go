package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/shape"
)

func mustExtent(t *testing.T, dims ...int64) shape.Extent {
	e, err := shape.New(dims...)
	require.NoError(t, err)
	return e
}

func TestNewAndAt(t *testing.T) {
	a, err := New(mustExtent(t, 2, 3), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.False(t, a.Uninitialized())
	assert.Equal(t, int64(6), a.NumElements())
	assert.True(t, a.Trivial())
	assert.True(t, a.Contiguous())

	ref, err := At(a, 1, 2)
	require.NoError(t, err)
	require.NoError(t, ref.Set(int64(42)))
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)
}

func TestUninitializedRefCopyShortCircuits(t *testing.T) {
	var a *Array = &Array{}
	b := RefCopy(a)
	assert.True(t, b.Uninitialized())
}

func TestAssignUninitializedLHSReferences(t *testing.T) {
	src, err := New(mustExtent(t, 2, 2), dtype.Float64, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Fill(src, 3.0))

	dst := &Array{}
	require.NoError(t, dst.Assign(src))
	assert.Equal(t, src.Start.St, dst.Start.St)
	assert.Equal(t, int64(2), dst.Start.St.RefCount())
}

func TestAssignChildCopiesInPlaceWithoutRebinding(t *testing.T) {
	parent, err := New(mustExtent(t, 2, 3), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Fill(parent, int64(0)))

	child, err := Subscript(parent, 0)
	require.NoError(t, err)
	assert.True(t, child.IsChild)
	before := child.Start.St

	rhs, err := New(mustExtent(t, 3), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Fill(rhs, int64(7)))

	require.NoError(t, child.Assign(rhs))
	assert.Equal(t, before, child.Start.St, "child assignment must not rebind storage")

	ref, err := At(parent, 0, 1)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)
}

func TestAssignIndependentRebinds(t *testing.T) {
	a, err := New(mustExtent(t, 2), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	b, err := New(mustExtent(t, 2), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Fill(b, int64(9)))

	require.NoError(t, a.Assign(b))
	assert.Equal(t, b.Start.St, a.Start.St)
}

func TestSubscriptOutOfBounds(t *testing.T) {
	a, err := New(mustExtent(t, 2, 3), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	_, err = Subscript(a, 5)
	require.Error(t, err)
}

func TestCloneMaterializesIndependentStorage(t *testing.T) {
	a, err := New(mustExtent(t, 3), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Fill(a, int64(5)))

	clone, err := Clone(a, nil, nil)
	require.NoError(t, err)
	assert.NotSame(t, a.Start.St, clone.Start.St)

	ref, err := At(clone, 0)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)
}

func TestCloneConvertsDtype(t *testing.T) {
	a, err := New(mustExtent(t, 2), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Fill(a, int64(11)))

	want := dtype.Float64
	clone, err := Clone(a, &want, nil)
	require.NoError(t, err)
	assert.Equal(t, dtype.Float64, clone.Dtype)

	ref, err := At(clone, 1)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, 11.0, v)
}

func TestFillRandomRespectsBounds(t *testing.T) {
	a, err := New(mustExtent(t, 50), dtype.Float64, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, FillRandom(a, 2.0, 5.0, 1234))

	for i := int64(0); i < a.NumElements(); i++ {
		ref, err := At(a, i)
		require.NoError(t, err)
		v, err := ref.Get()
		require.NoError(t, err)
		f := v.(float64)
		assert.GreaterOrEqual(t, f, 2.0)
		assert.Less(t, f, 5.0)
	}
}

func TestReshapeInPlaceRequiresTrivialLayout(t *testing.T) {
	a, err := New(mustExtent(t, 2, 3), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, TransposeInPlace(a, nil))
	require.False(t, a.Trivial())

	err = ReshapeInPlace(a, mustExtent(t, 6))
	require.Error(t, err)
}

func TestReshapedSharesStorage(t *testing.T) {
	a, err := New(mustExtent(t, 2, 3), dtype.Int32, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Fill(a, int64(1)))

	r, err := Reshaped(a, shape.Extent{shape.AUTO, 2})
	require.NoError(t, err)
	assert.Equal(t, shape.Extent{3, 2}, r.Extent)
	assert.Equal(t, a.Start.St, r.Start.St)
}

func TestTransposeDoubleReverseRestoresTrivial(t *testing.T) {
	a, err := New(mustExtent(t, 2, 3, 4), dtype.Int32, device.Cpu)
	require.NoError(t, err)

	require.NoError(t, TransposeInPlace(a, nil))
	assert.False(t, a.Trivial())
	require.NoError(t, TransposeInPlace(a, nil))
	assert.True(t, a.Trivial())
}

func TestStringOnUninitialized(t *testing.T) {
	a := &Array{}
	assert.Equal(t, "Array(uninitialized)", a.String())
}
