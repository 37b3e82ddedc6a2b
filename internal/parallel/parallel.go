// Package parallel provides the worker-pool fan-out the dispatcher uses
// to split an element-wise materialization across goroutines once the
// element count clears the parallel threshold.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Below this element count, For runs serially.
}

var (
	overrideMu sync.RWMutex
	override   *Config
)

// SetOverride installs cfg as the result of every subsequent DefaultConfig
// call, for rapid.OptimiseThreads to persist its calibration.
// Passing nil reverts to the runtime.NumCPU() baseline.
func SetOverride(cfg *Config) {
	overrideMu.Lock()
	override = cfg
	overrideMu.Unlock()
}

// DefaultConfig returns the calibrated override installed by SetOverride,
// or sensible defaults based on CPU count: one worker per logical CPU, and
// the engine's default parallel threshold (2500 elements) as the minimum
// chunk size.
func DefaultConfig() Config {
	overrideMu.RLock()
	o := override
	overrideMu.RUnlock()
	if o != nil {
		return *o
	}

	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 2500,
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
