package logger

import (
	"os"
	"path/filepath"
	"portfolio/internal/domain/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init(config.LogConfig{Level: "chatty"}))
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "portfolio.log")
	require.NoError(t, Init(config.LogConfig{Level: "debug", File: path}))
	t.Cleanup(func() { Use(zap.NewNop()) })

	Infof("[test] hello %s", "file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[test] hello file")
}

func TestUseObserver(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	Use(zap.New(core))
	t.Cleanup(func() { Use(zap.NewNop()) })

	Infof("dropped")
	Warnf("[test] kept %d", 1)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "[test] kept 1", logs.All()[0].Message)
}
