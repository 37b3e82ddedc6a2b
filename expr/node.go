// Package expr builds the lazy element-wise expression graph: a small
// closed algebra of value-typed nodes (ScalarLeaf, ArrayLeaf, Unary,
// Binary, Map) over internal/core Arrays. Nodes never allocate storage;
// materializing one into a destination Array is internal/dispatch's job,
// which keeps this package free of any dependency on the dispatcher and
// avoids an import cycle between the two.
package expr

import (
	"github.com/rapidgo/rapid/device"
	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/core"
	"github.com/rapidgo/rapid/shape"
)

// Node is one element of the expression tree. Scalar is a pure function
// of a flat row-major index; ArrayLeaves lists every Array a
// materialization needs to read from, in tree order, so the dispatcher
// can decide the trivial-vs-strided path without re-walking the tree
// itself.
type Node interface {
	Extent() shape.Extent
	Dtype() dtype.Dtype
	Device() device.Accel
	IsScalar() bool
	Scalar(i int64) (any, error)
	ArrayLeaves() []*core.Array
}

// Packetable is implemented by nodes that can produce width boxed values
// starting at flat index i in one call. Every node in this package
// implements it; the dispatcher type-asserts rather than requiring it on
// Node, since a hand-written Node from outside this package may not
// bother.
type Packetable interface {
	Packet(i int64, width int) ([]any, error)
}

// packetByScalar is the fallback Packet implementation: Go has no
// portable SIMD intrinsics reachable from pure Go, so "packet" here
// means dispatch granularity (a batch the evaluator processes together),
// not literal hardware vector instructions — every node satisfies the
// contract by calling Scalar width times.
func packetByScalar(n Node, i int64, width int) ([]any, error) {
	out := make([]any, width)
	for k := 0; k < width; k++ {
		v, err := n.Scalar(i + int64(k))
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
