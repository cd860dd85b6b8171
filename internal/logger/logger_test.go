package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Modes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "PRODUCTION", ""} {
		l, err := New(mode)
		require.NoError(t, err, mode)
		require.NotNil(t, l)
	}
}

func TestWith_CarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("session_id", "abc")

	l.Warn("hip corrected", "original_cm", 22.0, "substituted_cm", 95.5)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "hip corrected", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["session_id"])
	assert.Equal(t, 22.0, fields["original_cm"])
}

func TestNewNop_DoesNotPanic(t *testing.T) {
	l := NewNop()
	l.Debug("debug")
	l.Info("info", "k", "v")
	l.Error("error")
	l.Sync()
}
