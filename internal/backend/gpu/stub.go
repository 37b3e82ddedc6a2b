//go:build !gpu

// Package gpu, built without the "gpu" tag, provides no device backend:
// every entry point fails with ErrDeviceUnavailable so callers see a
// uniform error regardless of whether the binary omitted GPU support or
// the runtime adapter request failed.
package gpu

import "github.com/rapidgo/rapid/internal/errs"

// Buffer is an opaque device allocation handle. In a non-gpu build it is
// never actually populated.
type Buffer struct {
	size int64
}

func unavailable() error {
	return errs.Wrap(errs.ErrDeviceUnavailable, "binary built without the gpu tag")
}

// Available always reports false in a non-gpu build.
func Available() bool { return false }

// SetEnabled is a no-op in a non-gpu build: the backend is unconditionally
// unavailable regardless of rapid.Configure(WithGPU).
func SetEnabled(v bool) {}

// Allocate always fails in a non-gpu build.
func Allocate(size int64) (*Buffer, error) { return nil, unavailable() }

// Free is a no-op in a non-gpu build.
func Free(b *Buffer) {}

// Upload always fails in a non-gpu build.
func Upload(b *Buffer, offset int64, data []byte) error { return unavailable() }

// Download always fails in a non-gpu build.
func Download(b *Buffer, offset int64, dst []byte) error { return unavailable() }

// CopyDeviceToDevice always fails in a non-gpu build.
func CopyDeviceToDevice(dst *Buffer, dstOff int64, src *Buffer, srcOff int64, n int64) error {
	return unavailable()
}

// Launch always fails in a non-gpu build.
func Launch(source string, n int64, buffers []*Buffer) error { return unavailable() }
