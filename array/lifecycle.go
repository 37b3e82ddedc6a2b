package array

import "github.com/rapidgo/rapid/internal/core"

// Fill writes value, converted to Dtype, into every element in place.
func (a *Array) Fill(value any) error { return core.Fill(a.core, value) }

// Filled returns a clone of a with value filled into every element,
// leaving a untouched.
func (a *Array) Filled(value any) (*Array, error) {
	c, err := core.Clone(a.core, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := core.Fill(c, value); err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// FillRandom writes uniformly distributed values in [min, max) for
// floating dtypes, or [min, max] for integer dtypes, into every element
// in place. seed == -1 resumes the sticky process-wide generator; any
// other value reseeds it for this call and every later seed == -1 call.
func (a *Array) FillRandom(min, max float64, seed int64) error {
	return core.FillRandom(a.core, min, max, seed)
}

// FilledRandom is the pure counterpart of FillRandom.
func (a *Array) FilledRandom(min, max float64, seed int64) (*Array, error) {
	c, err := core.Clone(a.core, nil, nil)
	if err != nil {
		return nil, err
	}
	if err := core.FillRandom(c, min, max, seed); err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Reshape mutates a's extent in place, resolving at most one AUTO
// dimension. Only valid when a's layout is trivial; otherwise the caller
// must Clone first.
func (a *Array) Reshape(dims ...int64) error {
	e, err := newExtent(dims)
	if err != nil {
		return err
	}
	return core.ReshapeInPlace(a.core, e)
}

// Reshaped is the pure counterpart of Reshape, sharing a's storage.
func (a *Array) Reshaped(dims ...int64) (*Array, error) {
	e, err := newExtent(dims)
	if err != nil {
		return nil, err
	}
	c, err := core.Reshaped(a.core, e)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Transpose permutes a's extent and stride in place. An empty order
// reverses every axis.
func (a *Array) Transpose(order ...int) error {
	return core.TransposeInPlace(a.core, order)
}

// Transposed is the pure counterpart of Transpose, sharing a's storage.
func (a *Array) Transposed(order ...int) (*Array, error) {
	c, err := core.Transposed(a.core, order)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Clone allocates a fresh trivial-contiguous buffer of dt (defaulting to
// a's current dtype when nil) on dev (defaulting to a's current device
// when nil) and copies every logical element in row-major order.
func (a *Array) Clone(dt *Dtype, dev *Accel) (*Array, error) {
	c, err := core.Clone(a.core, dt, dev)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// newExtent builds a reshape target without shape.New's >= 1 validation,
// since a single dimension may legitimately be shape.AUTO (-1); Extent's
// own Reshape resolves AUTO against the source's element count.
func newExtent(dims []int64) (Extent, error) {
	e := make(Extent, len(dims))
	copy(e, dims)
	return e, nil
}
