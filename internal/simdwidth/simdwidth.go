// Package simdwidth detects the host's usable SIMD lane width via CPU
// feature flags, so the dispatcher's packet loop can pick a packet width
// that the hardware actually supports instead of trusting a hand-rolled
// feature probe.
package simdwidth

import (
	"github.com/klauspost/cpuid/v2"

	"github.com/rapidgo/rapid/dtype"
)

// lanesPerRegister returns how many 32-bit lanes the widest available
// vector register holds, based on the CPU's advertised feature set.
func lanesPerRegister() int {
	switch {
	case cpuid.CPU.Supports(cpuid.AVX512F):
		return 16
	case cpuid.CPU.Supports(cpuid.AVX2):
		return 8
	case cpuid.CPU.Supports(cpuid.SSE2):
		return 4
	default:
		return 1
	}
}

// Packet returns the packet width the dispatcher should use for d: the
// dtype's declared width, capped by what the host CPU can actually hold
// in its widest vector register (scaled by element size relative to a
// 32-bit lane).
func Packet(d dtype.Dtype) int {
	t := d.Traits()
	if t.PacketWidth <= 0 {
		return 1
	}
	scale := t.ByteSize / 4
	if scale < 1 {
		scale = 1
	}
	hostWidth := lanesPerRegister() / scale
	if hostWidth < 1 {
		hostWidth = 1
	}
	if t.PacketWidth < hostWidth {
		return t.PacketWidth
	}
	return hostWidth
}
