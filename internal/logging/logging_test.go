package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, closer := New(Options{Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1})

	log.Info().Str("run_id", "r1").Msg("ingestion finished")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "ingestion finished")
	require.Contains(t, string(data), "r1")
	require.Equal(t, zerolog.DebugLevel, log.GetLevel())
}

func TestNewDefaultsToInfo(t *testing.T) {
	log, closer := New(Options{Level: "chatty"})
	defer closer.Close()
	require.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
