package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"unknown": zapcore.InfoLevel,
	}
	for name, want := range cases {
		logger := New(name, "json")
		assert.True(t, logger.Core().Enabled(want), name)
		if want > zapcore.DebugLevel {
			assert.False(t, logger.Core().Enabled(want-1), name)
		}
	}
}
