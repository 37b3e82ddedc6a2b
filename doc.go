// Package rapid holds process-wide configuration for the array evaluation
// engine exposed through package array: Configure and its Option set
// toggle the GPU backend and the Extent rank cap (the managed-stream
// option is accepted and has no effect), and OptimiseThreads calibrates internal/parallel's worker count
// against a measured probe workload.
package rapid
