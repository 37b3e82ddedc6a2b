package gpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssembleBinaryContainsOperator(t *testing.T) {
	src := AssembleBinary("add", "f32")
	assert.Contains(t, src, "a[idx] + b[idx]")
	assert.Contains(t, src, "array<f32>")
}

func TestAssembleBinaryShiftOperators(t *testing.T) {
	assert.Contains(t, AssembleBinary("shl", "i32"), "a[idx] << b[idx]")
	assert.Contains(t, AssembleBinary("shr", "i32"), "a[idx] >> b[idx]")
}

func TestAssembleUnaryCallForm(t *testing.T) {
	src := AssembleUnary("sqrt", "f32")
	assert.Contains(t, src, "sqrt(a[idx])")
}

func TestAssembleIsDeterministicCacheKey(t *testing.T) {
	a := AssembleBinary("mul", "i32")
	b := AssembleBinary("mul", "i32")
	assert.Equal(t, a, b)
	assert.True(t, strings.Contains(a, "array<i32>"))
}

func TestNonGPUBuildFailsUnavailable(t *testing.T) {
	_, err := Allocate(16)
	assert.Error(t, err)
	assert.False(t, Available())
}
