package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	log, err := New("")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New("debug")
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	_, err = New("verbose")
	assert.Error(t, err)
}

func TestNamed(t *testing.T) {
	assert.NotNil(t, Named(nil, "svc.inventory"))

	base, err := New("info")
	require.NoError(t, err)
	assert.Equal(t, "svc.inventory", Named(base, "svc.inventory").Name())
}

func TestMustPanics(t *testing.T) {
	_, err := New("verbose")
	assert.Panics(t, func() { Must(nil, err) })
}
