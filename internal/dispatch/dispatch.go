// Package dispatch evaluates an expr.Node into a destination Array: it
// picks a trivial or strided traversal, a packet or scalar loop, and a
// serial or parallel fan-out, then (for device destinations) assembles
// and launches a GPU kernel instead. Grounded on the shape of the
// teacher's per-op CPU backend branch structure (inplace/vectorized/
// broadcast) generalized to a single evaluator driven by the node
// algebra rather than one method per operator.
package dispatch

import (
	"sync"

	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/expr"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/internal/parallel"
	"github.com/rapidgo/rapid/internal/simdwidth"
)

// Materialize allocates no storage itself: dst must already be sized to
// node's result shape (the array package's eval constructs it via
// core.New before calling in).
func Materialize(dst *core.Array, node expr.Node) error {
	if dst.Uninitialized() {
		return errs.Wrap(errs.ErrUninitialized, "materialize: destination is uninitialized")
	}
	if !node.IsScalar() && !dst.Extent.Equal(node.Extent()) {
		return errs.Wrap(errs.ErrShapeMismatch, "materialize: destination %v vs source %v", dst.Extent, node.Extent())
	}
	if err := checkAliasHazard(dst, node); err != nil {
		return err
	}

	n := dst.NumElements()
	trivial := isTrivialMaterialization(dst, node)

	if dst.Device == device.Gpu {
		return materializeGPU(dst, node, trivial)
	}

	threshold := int64(parallel.DefaultConfig().MinChunkSize)
	if n >= threshold {
		return materializeParallel(dst, node, n)
	}
	if trivial {
		return materializePacketSerial(dst, node, n)
	}
	return materializeScalarSerial(dst, node, n)
}

// checkAliasHazard implements the spec's aliasing rule: a destination
// that also appears as a source leaf is only permitted when it is
// exactly that leaf's view (same storage, offset, extent and stride);
// any other overlap requires the caller to clone first.
func checkAliasHazard(dst *core.Array, node expr.Node) error {
	for _, leaf := range node.ArrayLeaves() {
		if leaf.Start.St != dst.Start.St {
			continue
		}
		sameView := leaf.Start.Offset == dst.Start.Offset &&
			leaf.Extent.Equal(dst.Extent) &&
			leaf.Stride.Equal(dst.Stride)
		if !sameView {
			return errs.Wrap(errs.ErrShapeMismatch, "materialize: destination aliases a source operand under a different view; clone first")
		}
	}
	return nil
}

// isTrivialMaterialization requires the destination to be trivial and
// contiguous (true of any freshly allocated Array), and every non-scalar
// Array leaf to be either trivial-and-contiguous on its own or exactly
// matching the destination's stride (the "same stride" fast case named
// in the dispatcher contract).
func isTrivialMaterialization(dst *core.Array, node expr.Node) bool {
	if !(dst.Trivial() && dst.Contiguous()) {
		return false
	}
	for _, leaf := range node.ArrayLeaves() {
		if leaf.IsScalar {
			continue
		}
		if leaf.Trivial() && leaf.Contiguous() {
			continue
		}
		if leaf.Stride.Equal(dst.Stride) {
			continue
		}
		return false
	}
	return true
}

func materializeScalarSerial(dst *core.Array, node expr.Node, n int64) error {
	for i := int64(0); i < n; i++ {
		v, err := node.Scalar(i)
		if err != nil {
			return err
		}
		if err := core.SetScalarAt(dst, i, v); err != nil {
			return err
		}
	}
	return nil
}

// materializePacketSerial loads simdwidth.Packet(dst.Dtype) elements per
// iteration. Go has no portable SIMD reachable without assembly, so the
// "packet" here is a dispatch-granularity batch rather than a literal
// vector instruction; the node computes each lane through Scalar.
func materializePacketSerial(dst *core.Array, node expr.Node, n int64) error {
	packeter, _ := node.(expr.Packetable)
	width := simdwidth.Packet(dst.Dtype)
	if width < 1 {
		width = 1
	}

	i := int64(0)
	for ; i+int64(width) <= n; i += int64(width) {
		var vals []any
		var err error
		if packeter != nil {
			vals, err = packeter.Packet(i, width)
		} else {
			vals, err = scalarBatch(node, i, width)
		}
		if err != nil {
			return err
		}
		for k := 0; k < width; k++ {
			if err := core.SetScalarAt(dst, i+int64(k), vals[k]); err != nil {
				return err
			}
		}
	}
	for ; i < n; i++ {
		v, err := node.Scalar(i)
		if err != nil {
			return err
		}
		if err := core.SetScalarAt(dst, i, v); err != nil {
			return err
		}
	}
	return nil
}

func scalarBatch(node expr.Node, i int64, width int) ([]any, error) {
	out := make([]any, width)
	for k := 0; k < width; k++ {
		v, err := node.Scalar(i + int64(k))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// materializeParallel splits the index range across a worker pool via
// internal/parallel.For, which already enforces the N ≥ 2500 threshold
// internally; each goroutine processes one index at a time rather than a
// packet, since the fan-out itself is what amortizes dispatch overhead
// once N is large enough to parallelize.
func materializeParallel(dst *core.Array, node expr.Node, n int64) error {
	var (
		mu       sync.Mutex
		firstErr error
	)
	parallel.For(int(n), func(i int) {
		v, err := node.Scalar(int64(i))
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}
		if err := core.SetScalarAt(dst, int64(i), v); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}, parallel.DefaultConfig())
	return firstErr
}
