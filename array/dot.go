package array

import "github.com/rapidgo/rapid/internal/dispatch"

// Dot is the contraction operation: (scalar, any) degenerates to an
// element-wise multiply, (vector, vector) reduces to an inner product,
// and any shape involving a matrix delegates to the BLAS-like primitive
// in internal/blasdot. Unlike the lazy operators, Dot materializes
// immediately.
func Dot(a, b *Array) (*Array, error) {
	c, err := dispatch.Dot(a.core, b.core)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Dot is the method form of the package-level Dot(a, b).
func (a *Array) Dot(b *Array) (*Array, error) { return Dot(a, b) }
