// Package blasdot is the opaque BLAS-like primitive the evaluator's dot
// operation delegates to for any operand pair involving a matrix. Vector
// dot product is a plain single-pass summation (the spec's neutral-
// element-0 accumulation); matrix-involving cases go through
// gonum.org/v1/gonum/blas for float dtypes, and a row-major triple loop
// for the two integer dtypes gonum's BLAS does not cover.
package blasdot

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
	"gonum.org/v1/gonum/blas/blas64"
)

// VectorDotFloat32 computes Σ a[i]*b[i] with a 64-bit accumulator, per the
// spec's requirement that 32-bit float inputs accumulate in 64 bits.
func VectorDotFloat32(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// VectorDotFloat64 computes Σ a[i]*b[i].
func VectorDotFloat64(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// VectorDotInt32 computes Σ a[i]*b[i] with a 64-bit accumulator.
func VectorDotInt32(a, b []int32) int64 {
	var sum int64
	for i := range a {
		sum += int64(a[i]) * int64(b[i])
	}
	return sum
}

// VectorDotInt64 computes Σ a[i]*b[i].
func VectorDotInt64(a, b []int64) int64 {
	var sum int64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// MatVecFloat32 computes y = A·x for row-major A of shape m×k.
func MatVecFloat32(a []float32, m, k int, x []float32) []float32 {
	y := make([]float32, m)
	blas32.Implementation().Sgemv(blas.NoTrans, m, k, 1, a, k, x, 1, 0, y, 1)
	return y
}

// VecMatFloat32 computes y = x·A for row-major A of shape k×n.
func VecMatFloat32(x []float32, k int, a []float32, n int) []float32 {
	y := make([]float32, n)
	blas32.Implementation().Sgemv(blas.Trans, k, n, 1, a, n, x, 1, 0, y, 1)
	return y
}

// MatMatFloat32 computes C = A·B for row-major A (m×k) and B (k×n).
func MatMatFloat32(a []float32, m, k int, b []float32, n int) []float32 {
	c := make([]float32, m*n)
	blas32.Implementation().Sgemm(blas.NoTrans, blas.NoTrans, m, n, k, 1, a, k, b, n, 0, c, n)
	return c
}

// MatVecFloat64 computes y = A·x for row-major A of shape m×k.
func MatVecFloat64(a []float64, m, k int, x []float64) []float64 {
	y := make([]float64, m)
	blas64.Implementation().Dgemv(blas.NoTrans, m, k, 1, a, k, x, 1, 0, y, 1)
	return y
}

// VecMatFloat64 computes y = x·A for row-major A of shape k×n.
func VecMatFloat64(x []float64, k int, a []float64, n int) []float64 {
	y := make([]float64, n)
	blas64.Implementation().Dgemv(blas.Trans, k, n, 1, a, n, x, 1, 0, y, 1)
	return y
}

// MatMatFloat64 computes C = A·B for row-major A (m×k) and B (k×n).
func MatMatFloat64(a []float64, m, k int, b []float64, n int) []float64 {
	c := make([]float64, m*n)
	blas64.Implementation().Dgemm(blas.NoTrans, blas.NoTrans, m, n, k, 1, a, k, b, n, 0, c, n)
	return c
}

// MatVecInt32 computes y = A·x for row-major A of shape m×k. gonum has no
// integer BLAS, so this is a direct triple loop rather than a delegated
// GEMM call.
func MatVecInt32(a []int32, m, k int, x []int32) []int32 {
	y := make([]int32, m)
	for i := 0; i < m; i++ {
		var sum int32
		row := a[i*k : i*k+k]
		for j := 0; j < k; j++ {
			sum += row[j] * x[j]
		}
		y[i] = sum
	}
	return y
}

// VecMatInt32 computes y = x·A for row-major A of shape k×n.
func VecMatInt32(x []int32, k int, a []int32, n int) []int32 {
	y := make([]int32, n)
	for j := 0; j < n; j++ {
		var sum int32
		for i := 0; i < k; i++ {
			sum += x[i] * a[i*n+j]
		}
		y[j] = sum
	}
	return y
}

// MatMatInt32 computes C = A·B for row-major A (m×k) and B (k×n).
func MatMatInt32(a []int32, m, k int, b []int32, n int) []int32 {
	c := make([]int32, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum int32
			for p := 0; p < k; p++ {
				sum += a[i*k+p] * b[p*n+j]
			}
			c[i*n+j] = sum
		}
	}
	return c
}

// MatVecInt64 computes y = A·x for row-major A of shape m×k.
func MatVecInt64(a []int64, m, k int, x []int64) []int64 {
	y := make([]int64, m)
	for i := 0; i < m; i++ {
		var sum int64
		row := a[i*k : i*k+k]
		for j := 0; j < k; j++ {
			sum += row[j] * x[j]
		}
		y[i] = sum
	}
	return y
}

// VecMatInt64 computes y = x·A for row-major A of shape k×n.
func VecMatInt64(x []int64, k int, a []int64, n int) []int64 {
	y := make([]int64, n)
	for j := 0; j < n; j++ {
		var sum int64
		for i := 0; i < k; i++ {
			sum += x[i] * a[i*n+j]
		}
		y[j] = sum
	}
	return y
}

// MatMatInt64 computes C = A·B for row-major A (m×k) and B (k×n).
func MatMatInt64(a []int64, m, k int, b []int64, n int) []int64 {
	c := make([]int64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum int64
			for p := 0; p < k; p++ {
				sum += a[i*k+p] * b[p*n+j]
			}
			c[i*n+j] = sum
		}
	}
	return c
}
