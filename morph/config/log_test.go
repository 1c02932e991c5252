package config

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogConfigResolve(t *testing.T) {
	cfg := LogConfig{Format: "json", Level: "debug", File: "-"}
	level, formatter, out, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)
	assert.IsType(t, &log.JSONFormatter{}, formatter)
	assert.Equal(t, os.Stderr, out)

	cfg = LogConfig{}
	level, formatter, _, err = cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, level)
	assert.IsType(t, &log.TextFormatter{}, formatter)
}

func TestLogConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "morph.log")
	cfg := LogConfig{File: path}
	_, _, out, err := cfg.Resolve()
	require.NoError(t, err)
	f, ok := out.(*os.File)
	require.True(t, ok)
	require.NoError(t, f.Close())
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLogConfigErrors(t *testing.T) {
	cfg := LogConfig{Format: "xml"}
	_, _, _, err := cfg.Resolve()
	assert.Error(t, err)

	cfg = LogConfig{Level: "loud"}
	_, _, _, err = cfg.Resolve()
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	w := DefaultWriterOptions()
	assert.Equal(t, DefaultChunkSize, w.ChunkSize)
	assert.True(t, w.Sync)
	assert.True(t, DefaultReaderOptions().VerifyChecksum)
}
