package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Astemirdum/book-exchange/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger_FileSink(t *testing.T) {
	t.Parallel()
	sink := filepath.Join(t.TempDir(), "market.log")

	log := logger.NewLogger(logger.Log{LogLevel: zapcore.InfoLevel, Sink: sink, MaxSizeMB: 1}, "test")
	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync()

	data, err := os.ReadFile(sink)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"visible"`)
	require.Contains(t, string(data), `"logger":"test"`)
	require.NotContains(t, string(data), "hidden")
}
