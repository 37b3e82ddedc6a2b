package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/expr"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/shape"
)

func TestMaterializeRejectsUninitializedDestination(t *testing.T) {
	a := newFilled(t, []int64{4}, dtype.Int64, int64(1))
	leaf, err := expr.NewArrayLeaf(a)
	require.NoError(t, err)
	node, err := expr.NewUnary("neg", leaf)
	require.NoError(t, err)

	err = Materialize(&core.Array{}, node)
	require.Error(t, err)
}

func TestMaterializeRejectsShapeMismatch(t *testing.T) {
	a := newFilled(t, []int64{4}, dtype.Int64, int64(1))
	leaf, err := expr.NewArrayLeaf(a)
	require.NoError(t, err)
	node, err := expr.NewUnary("neg", leaf)
	require.NoError(t, err)

	dst := newFilled(t, []int64{3}, dtype.Int64, int64(0))
	err = Materialize(dst, node)
	require.Error(t, err)
}

func TestMaterializeDetectsAliasHazardAcrossDifferentViews(t *testing.T) {
	ext, err := shape.New(2, 2)
	require.NoError(t, err)
	a, err := core.New(ext, dtype.Int64, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, core.Fill(a, int64(5)))

	row0, err := core.Subscript(a, 0)
	require.NoError(t, err)
	row1, err := core.Subscript(a, 1)
	require.NoError(t, err)

	leaf, err := expr.NewArrayLeaf(row0)
	require.NoError(t, err)
	node, err := expr.NewUnary("neg", leaf)
	require.NoError(t, err)

	err = Materialize(row1, node)
	require.Error(t, err)
}

func TestMaterializeAllowsInPlaceSameViewAlias(t *testing.T) {
	a := newFilled(t, []int64{3}, dtype.Int64, int64(4))
	leaf, err := expr.NewArrayLeaf(a)
	require.NoError(t, err)
	node, err := expr.NewUnary("neg", leaf)
	require.NoError(t, err)

	require.NoError(t, Materialize(a, node))
	for i := int64(0); i < 3; i++ {
		v, err := core.ScalarAt(a, i)
		require.NoError(t, err)
		assert.Equal(t, int64(-4), v)
	}
}

func TestMaterializeStridedPathMatchesTransposedOperand(t *testing.T) {
	ext, err := shape.New(2, 3)
	require.NoError(t, err)
	a, err := core.New(ext, dtype.Int64, device.Cpu)
	require.NoError(t, err)
	for i := int64(0); i < 2; i++ {
		for j := int64(0); j < 3; j++ {
			ref, err := core.At(a, i, j)
			require.NoError(t, err)
			require.NoError(t, ref.Set(i*3+j))
		}
	}
	require.NoError(t, core.TransposeInPlace(a, nil)) // now 3x2, non-contiguous

	leaf, err := expr.NewArrayLeaf(a)
	require.NoError(t, err)
	node, err := expr.NewUnary("neg", leaf)
	require.NoError(t, err)

	dst, err := core.New(a.Extent.Clone(), dtype.Int64, device.Cpu)
	require.NoError(t, err)
	require.NoError(t, Materialize(dst, node))

	for i := int64(0); i < 3; i++ {
		for j := int64(0); j < 2; j++ {
			want, err := core.At(a, i, j)
			require.NoError(t, err)
			wantV, err := want.Get()
			require.NoError(t, err)
			got, err := core.At(dst, i, j)
			require.NoError(t, err)
			gotV, err := got.Get()
			require.NoError(t, err)
			assert.Equal(t, -(wantV.(int64)), gotV.(int64))
		}
	}
}

func TestMaterializeParallelThresholdMatchesSerialResult(t *testing.T) {
	const n = 3000 // above internal/parallel's 2500-element MinChunkSize
	a := newFilled(t, []int64{n}, dtype.Float64, 2.0)
	b := newFilled(t, []int64{n}, dtype.Float64, 3.5)

	la, err := expr.NewArrayLeaf(a)
	require.NoError(t, err)
	lb, err := expr.NewArrayLeaf(b)
	require.NoError(t, err)
	node, err := expr.NewBinary("add", la, lb)
	require.NoError(t, err)

	dst, err := core.New(node.Extent(), node.Dtype(), node.Device())
	require.NoError(t, err)
	require.NoError(t, Materialize(dst, node))

	for i := int64(0); i < n; i++ {
		v, err := core.ScalarAt(dst, i)
		require.NoError(t, err)
		assert.Equal(t, 5.5, v)
	}
}

// TestMaterializeParallelFillRandomStaysWithinBounds is a regression test
// for a race in fillRandom's shared generator: materializeParallel calls
// node.Scalar concurrently once N clears the parallel threshold, and
// fillRandom's Scalar draws from a *rand.Rand that is not safe for
// concurrent use without expr.Unary's own lock around the draw.
func TestMaterializeParallelFillRandomStaysWithinBounds(t *testing.T) {
	const n = 4000
	a := newFilled(t, []int64{n}, dtype.Float64, 0.0)
	leaf, err := expr.NewArrayLeaf(a)
	require.NoError(t, err)
	node := expr.NewFillRandom(leaf, 10.0, 20.0, 99)

	dst, err := core.New(node.Extent(), node.Dtype(), node.Device())
	require.NoError(t, err)
	require.NoError(t, Materialize(dst, node))

	for i := int64(0); i < n; i++ {
		v, err := core.ScalarAt(dst, i)
		require.NoError(t, err)
		f := v.(float64)
		assert.GreaterOrEqual(t, f, 10.0)
		assert.Less(t, f, 20.0)
	}
}
