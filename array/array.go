// Package array is the public surface of the evaluation engine: the
// Array value, its lifecycle operations, and the lazy expression
// operators built on top of internal/core, expr and internal/dispatch.
// Grounded on the teacher's tensor package, which plays the same role
// of a thin, documented re-export sitting over an internal engine.
package array

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/shape"
)

// Re-exported so callers never need to import dtype/device/shape/expr
// directly for everyday use, mirroring the teacher's type-alias surface.
type (
	Dtype  = dtype.Dtype
	Accel  = device.Accel
	Extent = shape.Extent
	Stride = shape.Stride
	Ref    = core.Ref
)

const (
	Int32    = dtype.Int32
	Int64    = dtype.Int64
	Float32  = dtype.Float32
	Float64  = dtype.Float64
	CFloat32 = dtype.CFloat32
	CFloat64 = dtype.CFloat64

	Cpu = device.Cpu
	Gpu = device.Gpu
)

// ParseDtype and ParseDevice expose the string synonym tables named in
// the external interface surface (e.g. "double" -> Float64, "gpu" ->
// Gpu), so callers configuring from text never need the dtype/device
// packages directly.
func ParseDtype(s string) (Dtype, error)  { return dtype.Parse(s) }
func ParseDevice(s string) (Accel, error) { return device.Parse(s) }

// Array is a dense N-dimensional value with shared-ownership storage.
// The zero Array is the uninitialized state: no storage. Operations that
// return an error fail with Uninitialized on it, except Assign, which
// binds it; the plain accessors (Ndim, Extent, Stride, Dtype, Location,
// IsScalar, Len, NumElements) do not check and panic on it.
type Array struct {
	core *core.Array
}

func wrap(c *core.Array) *Array { return &Array{core: c} }

// Core exposes the underlying internal/core.Array for callers that live
// outside this package but within the module. Not part of the external
// interface table.
func (a *Array) Core() *core.Array { return a.core }

// New allocates a fresh Array of extent elements on device, with trivial
// stride and refcount 1.
func New(extent []int64, dt Dtype, dev Accel) (*Array, error) {
	e, err := shape.New(extent...)
	if err != nil {
		return nil, err
	}
	c, err := core.New(e, dt, dev)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// NewScalar allocates a single-element Array, writing value converted to
// dt and marking the result IsScalar.
func NewScalar(value any, dt Dtype, dev Accel) (*Array, error) {
	c, err := core.NewScalar(value, dt, dev)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// NewFrom implements the Array(other, dtype?, device?) constructor: a
// reference copy sharing other's storage when dt/dev already match, or a
// one-shot converting copy into fresh storage otherwise.
func NewFrom(other *Array, dt Dtype, dev Accel) (*Array, error) {
	c, err := core.NewFrom(other.core, dt, dev)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// Ndim returns the rank.
func (a *Array) Ndim() int { return a.core.Ndim() }

// Extent returns the dimension vector.
func (a *Array) Extent() Extent { return a.core.Extent }

// Stride returns the per-axis element step.
func (a *Array) Stride() Stride { return a.core.Stride }

// Dtype returns the element type.
func (a *Array) Dtype() Dtype { return a.core.Dtype }

// Location returns the device the storage is resident on, named per the
// external interface table's "location" accessor.
func (a *Array) Location() Accel { return a.core.Device }

// IsScalar reports whether this Array holds exactly one logical element
// and was constructed (or broadcast) as a scalar.
func (a *Array) IsScalar() bool { return a.core.IsScalar }

// Len returns the leading dimension's size (1 for a scalar).
func (a *Array) Len() int64 { return a.core.Len() }

// NumElements returns the total element count.
func (a *Array) NumElements() int64 { return a.core.NumElements() }

// Uninitialized reports whether a carries no storage.
func (a *Array) Uninitialized() bool { return a == nil || a.core.Uninitialized() }

func (a *Array) String() string { return a.core.String() }

// Assign implements `a = b`: an uninitialized a behaves as a reference
// copy, a child a copies element-for-element into its existing storage
// window, and an independent a releases its old reference and rebinds to
// b's storage (the aliasing behavior users observe afterward).
func (a *Array) Assign(b *Array) error {
	if a.core == nil {
		a.core = &core.Array{}
	}
	return a.core.Assign(b.core)
}

// Release decrements the refcount, freeing storage at zero.
func (a *Array) Release() { a.core.Release() }

// Subscript returns a[i]: a new Array sharing storage, with the leading
// dimension dropped and IsChild set.
func (a *Array) Subscript(i int64) (*Array, error) {
	c, err := core.Subscript(a.core, i)
	if err != nil {
		return nil, err
	}
	return wrap(c), nil
}

// At resolves a multi-index to a Ref, a read/modify/write proxy that can
// write through a strided view without materializing a child Array.
func (a *Array) At(indices ...int64) (Ref, error) { return core.At(a.core, indices...) }
