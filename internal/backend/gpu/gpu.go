//go:build gpu

// Package gpu implements the GPU backend: device buffer allocation, the
// JIT kernel compile/cache path, and kernel launch, all built on
// go-webgpu/webgpu. It is gated behind the "gpu" build tag so a default
// build carries no native dependency; without the tag, every call in the
// sibling stub.go fails with ErrDeviceUnavailable.
package gpu

import (
	"encoding/binary"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"

	"github.com/rapidgo/rapid/internal/errs"
)

// Buffer is an opaque device allocation. The array engine never inspects
// its contents directly; it always goes through Upload/Download/Copy.
type Buffer struct {
	raw  *wgpu.Buffer
	size int64
}

var (
	once     sync.Once
	initErr  error
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	cacheMu   sync.RWMutex
	shaders   = map[string]*wgpu.ShaderModule{}
	pipelines = map[string]*wgpu.ComputePipeline{}

	enabledMu sync.RWMutex
	enabled   = true
)

// SetEnabled toggles the backend at runtime, for rapid.Configure(WithGPU).
// Disabling it makes every entry point fail with ErrDeviceUnavailable even
// though the binary was built with the gpu tag.
func SetEnabled(v bool) {
	enabledMu.Lock()
	enabled = v
	enabledMu.Unlock()
}

func isEnabled() bool {
	enabledMu.RLock()
	defer enabledMu.RUnlock()
	return enabled
}

func ensureDevice() error {
	if !isEnabled() {
		return errs.Wrap(errs.ErrDeviceUnavailable, "gpu backend disabled by rapid.Configure(WithGPU(false))")
	}
	once.Do(func() {
		instance = wgpu.CreateInstance(nil)
		var err error
		adapter, err = instance.RequestAdapter(nil)
		if err != nil {
			initErr = errs.Wrap(errs.ErrDeviceUnavailable, "request adapter: %v", err)
			return
		}
		device, err = adapter.RequestDevice(nil)
		if err != nil {
			initErr = errs.Wrap(errs.ErrDeviceUnavailable, "request device: %v", err)
			return
		}
		queue = device.GetQueue()
	})
	return initErr
}

// Available reports whether a GPU device could be acquired.
func Available() bool {
	return ensureDevice() == nil
}

// Allocate reserves a device buffer of the given byte size.
func Allocate(size int64) (*Buffer, error) {
	if err := ensureDevice(); err != nil {
		return nil, err
	}
	raw, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  uint64(size),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst | wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrOutOfMemory, "gpu allocate %d bytes: %v", size, err)
	}
	return &Buffer{raw: raw, size: size}, nil
}

// Free releases a device buffer.
func Free(b *Buffer) {
	if b == nil || b.raw == nil {
		return
	}
	b.raw.Release()
	b.raw = nil
}

// Upload copies host bytes into a device buffer at the given byte offset.
func Upload(b *Buffer, offset int64, data []byte) error {
	if err := ensureDevice(); err != nil {
		return err
	}
	queue.WriteBuffer(b.raw, uint64(offset), data)
	return nil
}

// Download copies device bytes starting at offset into a freshly
// allocated staging buffer and reads them back to the host.
func Download(b *Buffer, offset int64, dst []byte) error {
	if err := ensureDevice(); err != nil {
		return err
	}
	staging, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  uint64(len(dst)),
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return errs.Wrap(errs.ErrOutOfMemory, "gpu staging buffer: %v", err)
	}
	defer staging.Release()

	encoder := device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(b.raw, uint64(offset), staging, 0, uint64(len(dst)))
	cmd := encoder.Finish(nil)
	queue.Submit([]*wgpu.CommandBuffer{cmd})

	done := make(chan error, 1)
	staging.MapAsync(wgpu.MapModeRead, 0, uint64(len(dst)), func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			done <- errs.Wrap(errs.ErrLaunchError, "map staging buffer: status %v", status)
			return
		}
		done <- nil
	})
	device.Poll(true, nil)
	if err := <-done; err != nil {
		return err
	}
	copy(dst, staging.GetMappedRange(0, uint64(len(dst))))
	staging.Unmap()
	return nil
}

// CopyDeviceToDevice copies n bytes between two device buffers.
func CopyDeviceToDevice(dst *Buffer, dstOff int64, src *Buffer, srcOff int64, n int64) error {
	if err := ensureDevice(); err != nil {
		return err
	}
	encoder := device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src.raw, uint64(srcOff), dst.raw, uint64(dstOff), uint64(n))
	cmd := encoder.Finish(nil)
	queue.Submit([]*wgpu.CommandBuffer{cmd})
	return nil
}

// compileShader compiles and caches a shader module keyed by its full
// source text, mirroring the teacher's compileShader/b.shaders cache.
func compileShader(source string) (*wgpu.ShaderModule, error) {
	cacheMu.RLock()
	if mod, ok := shaders[source]; ok {
		cacheMu.RUnlock()
		return mod, nil
	}
	cacheMu.RUnlock()

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if mod, ok := shaders[source]; ok {
		return mod, nil
	}
	mod, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Code: wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKernelCompileError, "%v", err)
	}
	shaders[source] = mod
	return mod, nil
}

// getOrCreatePipeline returns the cached compute pipeline for source,
// compiling and caching it on first use.
func getOrCreatePipeline(source string) (*wgpu.ComputePipeline, error) {
	if err := ensureDevice(); err != nil {
		return nil, err
	}
	cacheMu.RLock()
	if p, ok := pipelines[source]; ok {
		cacheMu.RUnlock()
		return p, nil
	}
	cacheMu.RUnlock()

	mod, err := compileShader(source)
	if err != nil {
		return nil, err
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()
	if p, ok := pipelines[source]; ok {
		return p, nil
	}
	p, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Compute: wgpu.ProgrammableStageDescriptor{Module: mod, EntryPoint: "main"},
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKernelCompileError, "%v", err)
	}
	pipelines[source] = p
	return p, nil
}

// blockSize returns the workgroup count for n elements, per the launch
// policy: one block of n threads under 512, else 512-thread blocks.
func blockSize(n int64) (workgroups int64, threadsPerBlock int64) {
	if n < 512 {
		return 1, n
	}
	return (n + 511) / 512, 512
}

// newParamsBuffer allocates and populates the uniform buffer every
// assembled kernel declares at ParamsBinding for its bounds check
// (idx >= params.size).
func newParamsBuffer(n int64) (*Buffer, error) {
	const size = 16 // struct Params{size: u32} padded to a uniform-buffer-friendly stride
	raw, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrOutOfMemory, "gpu params buffer: %v", err)
	}
	data := make([]byte, size)
	binary.LittleEndian.PutUint32(data[0:4], uint32(n))
	queue.WriteBuffer(raw, 0, data)
	return &Buffer{raw: raw, size: size}, nil
}

// Launch assembles bind groups for the given buffers plus the params
// uniform every kernel fragment declares at ParamsBinding, dispatches
// source over n elements, and blocks until the command has been
// submitted.
func Launch(source string, n int64, buffers []*Buffer) error {
	pipeline, err := getOrCreatePipeline(source)
	if err != nil {
		return err
	}
	if err := ensureDevice(); err != nil {
		return err
	}

	params, err := newParamsBuffer(n)
	if err != nil {
		return err
	}
	defer Free(params)

	entries := make([]wgpu.BindGroupEntry, len(buffers)+1)
	for i, b := range buffers {
		entries[i] = wgpu.BindGroupEntry{Binding: uint32(i), Buffer: b.raw, Size: uint64(b.size)}
	}
	entries[len(buffers)] = wgpu.BindGroupEntry{Binding: ParamsBinding, Buffer: params.raw, Size: uint64(params.size)}
	layout := pipeline.GetBindGroupLayout(0)
	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{Layout: layout, Entries: entries})
	if err != nil {
		return errs.Wrap(errs.ErrLaunchError, "bind group: %v", err)
	}
	defer bindGroup.Release()

	encoder := device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)

	workgroups, _ := blockSize(n)
	pass.DispatchWorkgroups(uint32(workgroups), 1, 1)
	pass.End()

	cmd := encoder.Finish(nil)
	queue.Submit([]*wgpu.CommandBuffer{cmd})
	return nil
}
