package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndFill(t *testing.T) {
	a, err := New([]int64{2, 3}, Float64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(4.0))

	ref, err := a.At(1, 2)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, 4.0, v)
}

func TestAssignAliases(t *testing.T) {
	a, err := New([]int64{3}, Int64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(int64(1)))
	b, err := New([]int64{3}, Int64, Cpu)
	require.NoError(t, err)

	require.NoError(t, b.Assign(a))
	require.NoError(t, a.Fill(int64(9)))

	ref, err := b.At(0)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(9), v, "b should alias a's storage after Assign")
}

func TestAddEvalMatchesElementwise(t *testing.T) {
	a, err := New([]int64{4}, Int64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(int64(2)))
	b, err := New([]int64{4}, Int64, Cpu)
	require.NoError(t, err)
	require.NoError(t, b.Fill(int64(5)))

	node, err := a.Add(b)
	require.NoError(t, err)
	out, err := Eval(node)
	require.NoError(t, err)

	ref, err := out.At(0)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestChainedExpressionEvaluatesOnce(t *testing.T) {
	a, err := New([]int64{4}, Float64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(2.0))
	b, err := New([]int64{4}, Float64, Cpu)
	require.NoError(t, err)
	require.NoError(t, b.Fill(3.0))

	sum, err := a.Add(b)
	require.NoError(t, err)
	doubled, err := Map(func(vals []any) (any, error) {
		return vals[0].(float64) * 2, nil
	}, sum)
	require.NoError(t, err)

	out, err := Eval(doubled)
	require.NoError(t, err)
	ref, err := out.At(0)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestDotVectorVector(t *testing.T) {
	a, err := New([]int64{3}, Float64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(2.0))
	b, err := New([]int64{3}, Float64, Cpu)
	require.NoError(t, err)
	require.NoError(t, b.Fill(3.0))

	out, err := Dot(a, b)
	require.NoError(t, err)
	ref, err := out.At(0)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, 18.0, v)
}

func TestZerosLikeOnesLike(t *testing.T) {
	a, err := New([]int64{2, 2}, Int32, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(int32(7)))

	z, err := ZerosLike(a)
	require.NoError(t, err)
	o, err := OnesLike(a)
	require.NoError(t, err)

	zref, err := z.At(0, 0)
	require.NoError(t, err)
	zv, err := zref.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(0), zv)

	oref, err := o.At(1, 1)
	require.NoError(t, err)
	ov, err := oref.Get()
	require.NoError(t, err)
	assert.Equal(t, int32(1), ov)
}

func TestLinearEndpointsInclusive(t *testing.T) {
	a, err := Linear(0, 10, 5, Float64, Cpu)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.NumElements())

	first, err := a.At(0)
	require.NoError(t, err)
	firstV, err := first.Get()
	require.NoError(t, err)
	assert.Equal(t, 0.0, firstV)

	last, err := a.At(4)
	require.NoError(t, err)
	lastV, err := last.Get()
	require.NoError(t, err)
	assert.Equal(t, 10.0, lastV)
}

func TestRangeHalfOpen(t *testing.T) {
	a, err := Range(0, 5, 1, Int64, Cpu)
	require.NoError(t, err)
	assert.Equal(t, int64(5), a.NumElements())
	last, err := a.At(4)
	require.NoError(t, err)
	v, err := last.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(4), v)
}

func TestConcatenateAlongAxis(t *testing.T) {
	a, err := New([]int64{2, 2}, Int64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(int64(1)))
	b, err := New([]int64{2, 2}, Int64, Cpu)
	require.NoError(t, err)
	require.NoError(t, b.Fill(int64(2)))

	out, err := Concatenate([]*Array{a, b}, 0)
	require.NoError(t, err)
	assert.Equal(t, Extent{4, 2}, out.Extent())

	ref, err := out.At(3, 0)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestStackInsertsNewAxis(t *testing.T) {
	a, err := New([]int64{2}, Int64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(int64(1)))
	b, err := New([]int64{2}, Int64, Cpu)
	require.NoError(t, err)
	require.NoError(t, b.Fill(int64(2)))

	out, err := Stack([]*Array{a, b}, 0)
	require.NoError(t, err)
	assert.Equal(t, Extent{2, 2}, out.Extent())

	ref, err := out.At(1, 0)
	require.NoError(t, err)
	v, err := ref.Get()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestReshapeRequiresTrivialLayout(t *testing.T) {
	a, err := New([]int64{2, 3}, Float64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Transpose())
	err = a.Reshape(6)
	require.Error(t, err)
}

func TestCloneCollapsesNonTrivialStride(t *testing.T) {
	a, err := New([]int64{2, 3}, Float64, Cpu)
	require.NoError(t, err)
	require.NoError(t, a.Fill(1.0))
	require.NoError(t, a.Transpose())

	c, err := a.Clone(nil, nil)
	require.NoError(t, err)
	require.NoError(t, c.Reshape(6))
}
