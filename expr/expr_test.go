package expr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/shape"
)

func newArray(t *testing.T, dims []int64, dt dtype.Dtype, fill any) *core.Array {
	e, err := shape.New(dims...)
	require.NoError(t, err)
	a, err := core.New(e, dt, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, core.Fill(a, fill))
	return a
}

func TestBinaryAddMatchesScalarOp(t *testing.T) {
	a := newArray(t, []int64{2, 3}, dtype.Int64, int64(5))
	b := newArray(t, []int64{2, 3}, dtype.Int64, int64(7))

	la, err := NewArrayLeaf(a)
	require.NoError(t, err)
	lb, err := NewArrayLeaf(b)
	require.NoError(t, err)

	node, err := NewBinary("add", la, lb)
	require.NoError(t, err)
	assert.Equal(t, dtype.Int64, node.Dtype())
	assert.Equal(t, shape.Extent{2, 3}, node.Extent())

	v, err := node.Scalar(0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), v)
}

func TestBinaryShapeMismatch(t *testing.T) {
	a := newArray(t, []int64{2, 3}, dtype.Int64, int64(1))
	b := newArray(t, []int64{3, 2}, dtype.Int64, int64(1))
	la, _ := NewArrayLeaf(a)
	lb, _ := NewArrayLeaf(b)
	_, err := NewBinary("add", la, lb)
	require.Error(t, err)
}

func TestBinaryPromotesDtype(t *testing.T) {
	a := newArray(t, []int64{4}, dtype.Int32, int64(2))
	b := newArray(t, []int64{4}, dtype.Float64, 3.5)
	la, _ := NewArrayLeaf(a)
	lb, _ := NewArrayLeaf(b)
	node, err := NewBinary("mul", la, lb)
	require.NoError(t, err)
	assert.Equal(t, dtype.Float64, node.Dtype())

	v, err := node.Scalar(0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, v)
}

func TestBinaryRejectsBitwiseOnFloat(t *testing.T) {
	a := newArray(t, []int64{4}, dtype.Float64, 1.0)
	la, _ := NewArrayLeaf(a)
	lb, _ := NewArrayLeaf(a)
	_, err := NewBinary("bitwiseAnd", la, lb)
	require.Error(t, err)
}

func TestScalarLeafBroadcasts(t *testing.T) {
	a := newArray(t, []int64{5}, dtype.Int64, int64(1))
	la, _ := NewArrayLeaf(a)
	scalar, err := NewScalarLeaf(int64(9), dtype.Int64, device.Cpu)
	require.NoError(t, err)

	node, err := NewBinary("add", la, scalar)
	require.NoError(t, err)
	assert.Equal(t, shape.Extent{5}, node.Extent())

	v, err := node.Scalar(3)
	require.NoError(t, err)
	assert.Equal(t, int64(10), v)
}

func TestUnaryNeg(t *testing.T) {
	a := newArray(t, []int64{3}, dtype.Float32, float32(2))
	la, _ := NewArrayLeaf(a)
	node, err := NewUnary("neg", la)
	require.NoError(t, err)
	v, err := node.Scalar(0)
	require.NoError(t, err)
	assert.Equal(t, float32(-2), v)
}

func TestUnaryRejectsBitwiseNotOnComplex(t *testing.T) {
	a := newArray(t, []int64{3}, dtype.CFloat64, complex(1, 0))
	la, _ := NewArrayLeaf(a)
	_, err := NewUnary("bitwiseNot", la)
	require.Error(t, err)
}

func TestFillRandomNodeStaysWithinBounds(t *testing.T) {
	a := newArray(t, []int64{20}, dtype.Float64, 0.0)
	la, _ := NewArrayLeaf(a)
	node := NewFillRandom(la, 1.0, 2.0, 42)
	for i := int64(0); i < 20; i++ {
		v, err := node.Scalar(i)
		require.NoError(t, err)
		f := v.(float64)
		assert.GreaterOrEqual(t, f, 1.0)
		assert.Less(t, f, 2.0)
	}
}

func TestFillRandomNodeScalarIsSafeForConcurrentCallers(t *testing.T) {
	a := newArray(t, []int64{4096}, dtype.Float64, 0.0)
	la, _ := NewArrayLeaf(a)
	node := NewFillRandom(la, 0.0, 1.0, 7)

	var wg sync.WaitGroup
	errs := make([]error, 4096)
	for i := int64(0); i < 4096; i++ {
		wg.Add(1)
		go func(i int64) {
			defer wg.Done()
			_, errs[i] = node.Scalar(i)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
}

func TestMapRejectsMismatchedDtype(t *testing.T) {
	a := newArray(t, []int64{4}, dtype.Int32, int64(1))
	b := newArray(t, []int64{4}, dtype.Float64, 1.0)
	la, _ := NewArrayLeaf(a)
	lb, _ := NewArrayLeaf(b)
	_, err := NewMap(func(vals []any) (any, error) { return vals[0], nil }, la, lb)
	require.Error(t, err)
}

func TestMapSumsOperands(t *testing.T) {
	a := newArray(t, []int64{4}, dtype.Int64, int64(2))
	b := newArray(t, []int64{4}, dtype.Int64, int64(3))
	la, _ := NewArrayLeaf(a)
	lb, _ := NewArrayLeaf(b)

	node, err := NewMap(func(vals []any) (any, error) {
		return vals[0].(int64) + vals[1].(int64), nil
	}, la, lb)
	require.NoError(t, err)

	v, err := node.Scalar(0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestArrayLeafHonorsNonTrivialStride(t *testing.T) {
	a := newArray(t, []int64{2, 3}, dtype.Int64, int64(0))
	for i := int64(0); i < 6; i++ {
		ref, err := core.At(a, i/3, i%3)
		require.NoError(t, err)
		require.NoError(t, ref.Set(i))
	}
	require.NoError(t, core.TransposeInPlace(a, nil))

	leaf, err := NewArrayLeaf(a)
	require.NoError(t, err)
	v, err := leaf.Scalar(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)
}
