package core

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rapidgo/rapid/dtype"
	"github.com/rapidgo/rapid/internal/errs"
	"github.com/rapidgo/rapid/shape"
)

var (
	randMu     sync.Mutex
	randSrc    *rand.Rand
	randSeeded bool
)

// SeedRandom returns the process-wide sticky random source: seed == -1
// reuses whatever generator is already seeded (seeding it from
// wall-clock time on first use), and any other seed reseeds it, so that
// the generator returned from the *next* call with seed == -1 continues
// this same deterministic sequence. Call once per fillRandom operation,
// not once per element, so a reseed doesn't collapse a whole array fill
// to one repeated value.
func SeedRandom(seed int64) *rand.Rand {
	randMu.Lock()
	defer randMu.Unlock()
	if seed != -1 {
		randSrc = rand.New(rand.NewSource(seed))
		randSeeded = true
		return randSrc
	}
	if !randSeeded {
		randSrc = rand.New(rand.NewSource(time.Now().UnixNano()))
		randSeeded = true
	}
	return randSrc
}

// DrawRandom draws one uniformly distributed value of dt from rng: a
// real-valued open interval [min, max) for floats, a closed [min, max]
// for integers, both components independently for complex dtypes.
func DrawRandom(rng *rand.Rand, dt dtype.Dtype, min, max float64) (any, error) {
	if !dt.IsValid() {
		return nil, errs.Wrap(errs.ErrInvalidDtype, "fillRandom: dtype %s", dt)
	}
	nextReal := func() float64 { return min + rng.Float64()*(max-min) }
	nextInt := func() int64 {
		span := int64(max) - int64(min)
		if span <= 0 {
			return int64(min)
		}
		return int64(min) + rng.Int63n(span+1)
	}

	switch dt {
	case dtype.Int32:
		return int32(nextInt()), nil
	case dtype.Int64:
		return nextInt(), nil
	case dtype.Float32:
		return float32(nextReal()), nil
	case dtype.Float64:
		return nextReal(), nil
	case dtype.CFloat32:
		return complex64(complex(nextReal(), nextReal())), nil
	case dtype.CFloat64:
		return complex(nextReal(), nextReal()), nil
	default:
		return nil, errs.Wrap(errs.ErrInvalidDtype, "fillRandom: dtype %s", dt)
	}
}

// Fill writes value, converted to a.Dtype, into every element, respecting
// stride.
func Fill(a *Array, value any) error {
	if a.Uninitialized() {
		return errs.Wrap(errs.ErrUninitialized, "fill: array is uninitialized")
	}
	var walkErr error
	shape.EachOffset(a.Extent, a.Stride, func(_ int, off int64) {
		if walkErr != nil {
			return
		}
		walkErr = writeElementAt(a, off, value)
	})
	return walkErr
}

// FillRandom writes uniformly distributed values into every element,
// seeding (or resuming) the sticky generator once for the whole call.
func FillRandom(a *Array, min, max float64, seed int64) error {
	if a.Uninitialized() {
		return errs.Wrap(errs.ErrUninitialized, "fillRandom: array is uninitialized")
	}
	rng := SeedRandom(seed)

	var walkErr error
	shape.EachOffset(a.Extent, a.Stride, func(_ int, off int64) {
		if walkErr != nil {
			return
		}
		v, err := DrawRandom(rng, a.Dtype, min, max)
		if err != nil {
			walkErr = err
			return
		}
		walkErr = writeElementAt(a, off, v)
	})
	return walkErr
}
