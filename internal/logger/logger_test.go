package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("should fall back to info on an unknown level", func(t *testing.T) {
		log, err := New(Config{Level: "loud", Format: "json"})
		require.NoError(t, err)

		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("should honour the configured level", func(t *testing.T) {
		log, err := New(Config{Level: "DEBUG", Format: "console", Development: true})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("should write to a rotating file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "server.log")

		log, err := New(Config{Level: "info", File: path})
		require.NoError(t, err)
		log.Info("hello from the test")
		_ = log.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "hello from the test")
	})
}
