package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("JSON", func(t *testing.T) {
		l, err := New(&Config{Level: "info", Format: "json"})
		require.NoError(t, err)
		assert.NotNil(t, l)
	})

	t.Run("ConsoleDebug", func(t *testing.T) {
		l, err := New(&Config{Level: "debug", Format: "console"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zap.DebugLevel))
	})

	t.Run("InvalidLevel", func(t *testing.T) {
		_, err := New(&Config{Level: "loud"})
		assert.Error(t, err)
	})

	t.Run("FileOutput", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sync.log")
		l, err := New(&Config{Level: "warn", FilePath: path, MaxSizeMB: 1, MaxBackups: 1})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zap.InfoLevel))
		l.Warn("written")
		_ = l.Sync()
		assert.FileExists(t, path)
	})
}

func TestReporter(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rep := NewReporter(zap.New(core))

	act := rep.Activity("Fetching")
	act.End()
	act.End()

	p := rep.Progress("Media of article", 2)
	p.Tick()
	p.Tick()
	p.Done()

	rep.Error("download failed", assert.AnError, zap.String("url", "http://x"))

	assert.Equal(t, 1, logs.FilterMessage("Activity finished").Len())
	assert.Equal(t, 2, logs.FilterMessage("Progress").Len())
	finished := logs.FilterMessage("Progress finished").All()
	require.Len(t, finished, 1)
	assert.Equal(t, int64(2), finished[0].ContextMap()["processed"])
	assert.Equal(t, 1, logs.FilterMessage("download failed").Len())
}
