package aerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkkdy/april/pkg/aerr"
)

func TestNew_FormatsEntityAndMessage(t *testing.T) {
	err := aerr.New(aerr.InvalidConfig, "particle 3", "mass %g is non-positive", -1.0)
	assert.Equal(t, "InvalidConfig: particle 3: mass -1 is non-positive", err.Error())
}

func TestNew_FormatsWithoutEntity(t *testing.T) {
	err := aerr.New(aerr.IOError, "", "disk full")
	assert.Equal(t, "IOError: disk full", err.Error())
}

func TestIs_MatchesDirectKind(t *testing.T) {
	err := aerr.New(aerr.Unsupported, "linked_cells", "infinite domain")
	assert.True(t, aerr.Is(err, aerr.Unsupported))
	assert.False(t, aerr.Is(err, aerr.IOError))
}

func TestIs_UnwrapsWrappedError(t *testing.T) {
	inner := aerr.New(aerr.DomainMismatch, "p0", "left the domain")
	wrapped := fmt.Errorf("step failed: %w", inner)
	assert.True(t, aerr.Is(wrapped, aerr.DomainMismatch))
}

func TestIs_FalseForPlainError(t *testing.T) {
	assert.False(t, aerr.Is(errors.New("boom"), aerr.IOError))
}

func TestUnwrap_ReturnsUnderlyingError(t *testing.T) {
	inner := errors.New("root cause")
	err := &aerr.Error{Kind: aerr.IOError, Err: inner}
	assert.Equal(t, inner, errors.Unwrap(err))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "InvalidConfig", aerr.InvalidConfig.String())
	assert.Equal(t, "DomainMismatch", aerr.DomainMismatch.String())
	assert.Equal(t, "Unsupported", aerr.Unsupported.String())
	assert.Equal(t, "IOError", aerr.IOError.String())
}
