package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidArgument", ErrInvalidArgument},
		{"ErrParseFailure", ErrParseFailure},
		{"ErrCapabilityUnavailable", ErrCapabilityUnavailable},
		{"ErrMissingAPIKey", ErrMissingAPIKey},
		{"ErrDimensionMismatch", ErrDimensionMismatch},
		{"ErrIndexNotBuilt", ErrIndexNotBuilt},
		{"ErrEmptyIndex", ErrEmptyIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestDimensionError(t *testing.T) {
	err := NewDimensionError(1536, 768)

	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.Contains(t, err.Error(), "want 1536, got 768")

	var dimErr *DimensionError
	require.True(t, errors.As(fmt.Errorf("build: %w", err), &dimErr))
	assert.Equal(t, 1536, dimErr.Want)
	assert.Equal(t, 768, dimErr.Got)
}

func TestCapabilityError(t *testing.T) {
	cause := errors.New("connection refused")

	t.Run("whole call", func(t *testing.T) {
		err := &CapabilityError{Capability: "openai", Op: "embed", Item: -1, Err: cause}
		assert.Equal(t, "openai embed: connection refused", err.Error())
		assert.True(t, errors.Is(err, ErrCapabilityUnavailable))
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("single item", func(t *testing.T) {
		err := &CapabilityError{Capability: "openai", Op: "embed", Item: 2, Err: cause}
		assert.Equal(t, "openai embed: item 2: connection refused", err.Error())
	})
}

func TestInvalidArgument(t *testing.T) {
	err := InvalidArgument("k must be >= 1, got %d", 0)

	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Equal(t, "invalid argument: k must be >= 1, got 0", err.Error())
}
