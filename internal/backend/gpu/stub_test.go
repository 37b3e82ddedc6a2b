//go:build !gpu

package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStubAlwaysUnavailableRegardlessOfSetEnabled(t *testing.T) {
	SetEnabled(true)
	assert.False(t, Available())

	_, err := Allocate(64)
	assert.Error(t, err)

	SetEnabled(false)
	assert.False(t, Available())
}
