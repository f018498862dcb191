package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"info", zapcore.InfoLevel},
		{"bogus", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := New(tt.level, "json")
			assert.True(t, l.Core().Enabled(tt.want))
			if tt.want > zapcore.DebugLevel {
				assert.False(t, l.Core().Enabled(tt.want-1))
			}
		})
	}
}

func TestZapAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core)).
		WithFields(map[string]interface{}{"taskType": "decode-mrz"}).
		WithError(errors.New("boom"))

	log.Info("processing job", map[string]interface{}{
		"jobKey": int64(42),
		"cause":  errors.New("inner"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "decode-mrz", ctx["taskType"])
	assert.Equal(t, "boom", ctx["error"])
	assert.Equal(t, int64(42), ctx["jobKey"])
	assert.Equal(t, "inner", ctx["cause"])
}

func TestNoOpLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		l := NewNoOpLogger()
		l.Debug("x", nil)
		l.Warn("x", map[string]interface{}{"a": 1})
		l.Error("x", nil)
	})
}
