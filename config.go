package rapid

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/rapidgo/rapid/internal/backend/gpu"
	"github.com/rapidgo/rapid/internal/parallel"
	"github.com/rapidgo/rapid/shape"
)

// Option configures process-wide engine behavior via Configure.
type Option func(*config)

type config struct{}

// Configure applies opts in order. It is safe to call more than once;
// later calls override earlier ones for any option they touch.
func Configure(opts ...Option) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
}

// WithGPU enables or disables the GPU backend at runtime. It only takes
// effect in a binary built with the gpu tag: without the tag every
// Gpu-device Array construction already fails ErrDeviceUnavailable, and
// WithGPU has nothing to toggle.
func WithGPU(enabled bool) Option {
	return func(*config) { gpu.SetEnabled(enabled) }
}

// WithMaxDims overrides the cap on Extent length, default 32.
func WithMaxDims(n int) Option {
	return func(*config) { shape.SetMaxDims(n) }
}

// WithUseManagedStream is accepted for parity with the rest of the option
// set and has no effect: the option records nothing, and the GPU backend
// always serializes through its single device queue.
func WithUseManagedStream(bool) Option {
	return func(*config) {}
}

// OptimiseThreads calibrates internal/parallel's worker count by timing a
// fixed probe workload at increasing goroutine counts, up to
// runtime.NumCPU(), and keeping the largest count whose marginal gain
// over the previous count still exceeds timePerThread. It persists the
// result via parallel.SetOverride so every later dispatch reuses it
// without recalibrating.
func OptimiseThreads(timePerThread time.Duration, verbose bool) {
	const probeElements = 1 << 20
	maxWorkers := runtime.NumCPU()

	bestWorkers := 1
	bestDuration := probe(probeElements, 1)
	if verbose {
		log.Printf("rapid: optimiseThreads: 1 worker took %v", bestDuration)
	}

	for workers := 2; workers <= maxWorkers; workers++ {
		d := probe(probeElements, workers)
		gain := bestDuration - d
		if verbose {
			log.Printf("rapid: optimiseThreads: %d workers took %v (gain %v)", workers, d, gain)
		}
		if gain < timePerThread {
			break
		}
		bestWorkers = workers
		bestDuration = d
	}

	cfg := parallel.Config{
		Enabled:      bestWorkers > 1,
		NumWorkers:   bestWorkers,
		MinChunkSize: 2500,
	}
	parallel.SetOverride(&cfg)
	if verbose {
		log.Printf("rapid: optimiseThreads: settled on %d workers", bestWorkers)
	}
}

// probe times a no-allocation fan-out of n independent increments across
// workers goroutines, standing in for the per-element work the dispatcher
// actually performs.
func probe(n, workers int) time.Duration {
	cfg := parallel.Config{Enabled: workers > 1, NumWorkers: workers, MinChunkSize: 1}
	sink := make([]int, workers)
	start := time.Now()
	parallel.For(n, func(i int) {
		sink[i%workers] += i
	}, cfg)
	elapsed := time.Since(start)
	// Reference sink so the fan-out body is never optimized away.
	if sink[0] < -1 {
		fmt.Println(sink)
	}
	return elapsed
}
