package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	out := sanitizeKVs([]interface{}{"user_id", "u1", "access_token", "abc", "API_KEY", "k", "dangling"})

	assert.Equal(t, []interface{}{"user_id", "u1", "access_token", "[REDACTED]", "API_KEY", "[REDACTED]", "dangling"}, out)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Info("hello", "k", "v")
		l.With("a", 1).Warn("w")
		l.Sync()
	})
}
