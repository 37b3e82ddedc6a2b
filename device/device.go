// Package device describes the compute accelerators the array engine can
// target and the promotion rule used when two operands disagree.
package device

import (
	"strings"

	"github.com/rapidgo/rapid/internal/errs"
)

// Accel is the device an Array's storage lives on.
type Accel int

const (
	Cpu Accel = iota
	Gpu
)

func (a Accel) String() string {
	switch a {
	case Cpu:
		return "cpu"
	case Gpu:
		return "gpu"
	default:
		return "unknown"
	}
}

// Parse converts a case-insensitive device string to an Accel.
func Parse(s string) (Accel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cpu":
		return Cpu, nil
	case "gpu":
		return Gpu, nil
	default:
		return Cpu, errs.Wrap(errs.ErrInvalidDevice, "unknown device string %q", s)
	}
}

// Promote returns the device a mixed-device binary operation resolves to:
// Gpu if either operand is Gpu, else Cpu.
func Promote(a, b Accel) Accel {
	if a == Gpu || b == Gpu {
		return Gpu
	}
	return Cpu
}
