package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	prod, err := New(false)
	require.NoError(t, err)
	assert.False(t, prod.Core().Enabled(zapcore.DebugLevel), "production logger should skip debug")

	dev, err := New(true)
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zapcore.DebugLevel), "debug logger should emit debug")
}

func TestMust(t *testing.T) {
	assert.Panics(t, func() { Must(nil, assert.AnError) })
	l := zap.NewNop()
	assert.Same(t, l, Must(l, nil))
}

func TestNamed(t *testing.T) {
	assert.NotNil(t, Named(nil, "store"), "nil base should fall back to a nop logger")

	core, logs := observer.New(zapcore.InfoLevel)
	Named(zap.New(core), "alerts").Info("ran")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "alerts", entries[0].LoggerName)
}

func TestSugared(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Sugared(zap.New(core), "engine").Infof("portfolio of %d properties", 2)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "portfolio of 2 properties", entries[0].Message)
	assert.Equal(t, "engine", entries[0].LoggerName)
}
