// Package storage implements the engine's raw, device-tagged contiguous
// buffer: allocation, free, host<->device copy, and element offsetting.
// Reference counting lives in a separate atomic object decoupled from the
// buffer, so that origin and start views can differ without complicating
// counting, grounded on the teacher's tensorBuffer and on
// librapid's increment/decrement/AUTOCAST_FREE pattern.
package storage

import (
	"sync/atomic"

	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/backend/gpu"
	"github.com/rapidgo/rapid/internal/errs"
)

// maxHostAlloc is a sanity ceiling on a single host allocation; it exists
// only to turn a pathological caller-supplied size into OutOfMemory
// instead of an unrecoverable runtime panic from make().
const maxHostAlloc = int64(1) << 40

type refCount struct {
	n atomic.Int64
}

func newRefCount() *refCount {
	rc := &refCount{}
	rc.n.Store(1)
	return rc
}

func (r *refCount) increment() { r.n.Add(1) }
func (r *refCount) decrement() int64 { return r.n.Add(-1) }
func (r *refCount) load() int64 { return r.n.Load() }

// Storage is the owned allocation: the origin of every View sharing it.
type Storage struct {
	Device device.Accel
	Dtype  dtype.Dtype
	N      int64 // element count of the full allocation

	host   []byte
	gpuBuf *gpu.Buffer

	refs *refCount
}

// Allocate reserves storage for n elements of dt on dev with refcount 1.
func Allocate(n int64, dt dtype.Dtype, dev device.Accel) (*Storage, error) {
	if !dt.IsValid() {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "allocate: dtype %s is not a valid operand", dt)
	}
	if n < 0 {
		return nil, errs.Wrap(errs.ErrOutOfMemory, "allocate: negative element count %d", n)
	}

	s := &Storage{Device: dev, Dtype: dt, N: n, refs: newRefCount()}
	switch dev {
	case device.Cpu:
		buf, err := allocateHost(n, dt)
		if err != nil {
			return nil, err
		}
		s.host = buf
	case device.Gpu:
		buf, err := gpu.Allocate(n * int64(dt.ByteSize()))
		if err != nil {
			return nil, err
		}
		s.gpuBuf = buf
	default:
		return nil, errs.Wrap(errs.ErrInvalidDevice, "allocate: unknown device %v", dev)
	}
	return s, nil
}

func allocateHost(n int64, dt dtype.Dtype) ([]byte, error) {
	size := n * int64(dt.ByteSize())
	if size < 0 || size > maxHostAlloc {
		return nil, errs.Wrap(errs.ErrOutOfMemory, "allocate: %d bytes exceeds host allocation limit", size)
	}
	return make([]byte, size), nil
}

// Retain increments the reference count. Call once per Array that names
// this storage beyond the one implicitly held at Allocate time.
func (s *Storage) Retain() { s.refs.increment() }

// Release decrements the reference count, freeing the backing buffer when
// it reaches zero.
func (s *Storage) Release() {
	if s.refs.decrement() == 0 {
		s.free()
	}
}

// RefCount reports the live reference count.
func (s *Storage) RefCount() int64 { return s.refs.load() }

func (s *Storage) free() {
	switch s.Device {
	case device.Cpu:
		s.host = nil
	case device.Gpu:
		gpu.Free(s.gpuBuf)
		s.gpuBuf = nil
	}
}

// View is a non-owning pointer into a Storage: origin = View{St, 0},
// start = View{St, offset}. Constructing a View never allocates.
type View struct {
	St     *Storage
	Offset int64 // element offset from the storage's element 0
}

// Origin returns the view at element offset 0.
func (s *Storage) Origin() View { return View{St: s} }

// At returns a view offset by k elements from v.
func (v View) At(k int64) View { return View{St: v.St, Offset: v.Offset + k} }

// HostBytes returns the byte slice starting at this view's offset,
// extending to the end of the allocation. It fails if the storage is not
// on the Cpu device.
func (v View) HostBytes() ([]byte, error) {
	if v.St.Device != device.Cpu {
		return nil, errs.Wrap(errs.ErrInvalidDevice, "hostBytes: storage is on %v, not cpu", v.St.Device)
	}
	bs := int64(v.St.Dtype.ByteSize())
	start := v.Offset * bs
	return v.St.host[start:], nil
}

// Copy moves n elements from src to dst, across any device direction.
// Storage never converts element type during a copy: conversion is the
// evaluator's job. Copy fails TypeMismatch if the dtypes differ.
func Copy(dst, src View, n int64) error {
	if dst.St.Dtype != src.St.Dtype {
		return errs.Wrap(errs.ErrTypeMismatch, "copy: dst dtype %s != src dtype %s", dst.St.Dtype, src.St.Dtype)
	}
	bs := int64(dst.St.Dtype.ByteSize())
	nbytes := n * bs

	srcOnHost := src.St.Device == device.Cpu
	dstOnHost := dst.St.Device == device.Cpu

	switch {
	case srcOnHost && dstOnHost:
		srcBytes, err := src.HostBytes()
		if err != nil {
			return err
		}
		dstBytes, err := dst.HostBytes()
		if err != nil {
			return err
		}
		copy(dstBytes[:nbytes], srcBytes[:nbytes])
		return nil
	case srcOnHost && !dstOnHost:
		srcBytes, err := src.HostBytes()
		if err != nil {
			return err
		}
		return gpu.Upload(dst.St.gpuBuf, dst.Offset*bs, srcBytes[:nbytes])
	case !srcOnHost && dstOnHost:
		dstBytes, err := dst.HostBytes()
		if err != nil {
			return err
		}
		return gpu.Download(src.St.gpuBuf, src.Offset*bs, dstBytes[:nbytes])
	default:
		return gpu.CopyDeviceToDevice(dst.St.gpuBuf, dst.Offset*bs, src.St.gpuBuf, src.Offset*bs, nbytes)
	}
}

// GpuBuffer exposes the device buffer backing this view's storage, for
// internal/backend/gpu kernel launches. It is nil unless Device == Gpu.
func (v View) GpuBuffer() *gpu.Buffer { return v.St.gpuBuf }
