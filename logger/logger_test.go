package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsCredentials(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"email", "a@b.c",
		"refresh_token", "abc",
		"path", "/api/notes",
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"email", "[REDACTED]",
		"refresh_token", "[REDACTED]",
		"path", "/api/notes",
		"dangling",
	}, out)
}

func TestNopLoggerDoesNotPanic(t *testing.T) {
	l := Nop().With("component", "test")
	l.Info("hello", "user_id", "42")
	l.Sync()
}
