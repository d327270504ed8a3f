package logx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jkkdy/april/pkg/logx"
)

func TestDefault_SetDebug_TogglesDebugEnabled(t *testing.T) {
	l := logx.NewDefault("test", false)
	assert.False(t, l.DebugEnabled())
	l.SetDebug(true)
	assert.True(t, l.DebugEnabled())
}

func TestDefault_LoggingDoesNotPanic(t *testing.T) {
	l := logx.NewDefault("engine", true)
	assert.NotPanics(t, func() {
		l.Debugf("step %d", 1)
		l.Infof("built system with %d particles", 42)
		l.Warnf("cutoff %g exceeds half the domain", 5.0)
		l.Errorf("write failed: %v", "disk full")
	})
}

func TestNop_SatisfiesLoggerWithoutPanicking(t *testing.T) {
	var l logx.Logger = logx.NewNop()
	assert.False(t, l.DebugEnabled())
	assert.NotPanics(t, func() {
		l.SetDebug(true)
		l.Debugf("x")
		l.Infof("x")
		l.Warnf("x")
		l.Errorf("x")
	})
	assert.False(t, l.DebugEnabled())
}
