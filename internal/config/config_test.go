package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	ws := t.TempDir()
	cfg := Load(ws)

	assert.Equal(t, ws, cfg.Workspace)
	assert.Equal(t, filepath.Join(ws, ".iffidb", "iffidb.db"), cfg.DBPath)
	assert.Equal(t, filepath.Join(ws, "exports"), cfg.ExportDir)
	assert.Equal(t, "Admin", cfg.Operator)
	assert.Equal(t, 10, cfg.SampleSize)
	assert.Equal(t, 800*time.Millisecond, cfg.LoginDelay())
	assert.Equal(t, 300*time.Millisecond, cfg.MutateDelay())
	assert.Equal(t, 100*time.Millisecond, cfg.ReadDelay())
	assert.Empty(t, cfg.TranscriptFeed)
}

func TestLoadReadsPartialFileAndFillsRest(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, ".iffidb")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"operator: Iftikhar Ali\ndelays_ms:\n  login: 0\n  mutate: 0\n  read: 0\n",
	), 0644))

	cfg := Load(ws)
	assert.Equal(t, "Iftikhar Ali", cfg.Operator)
	assert.Equal(t, time.Duration(0), cfg.LoginDelay())
	assert.Equal(t, time.Duration(0), cfg.MutateDelay())
	// Unspecified fields keep their defaults.
	assert.Equal(t, 10, cfg.SampleSize)
	assert.Equal(t, filepath.Join(ws, "exports"), cfg.ExportDir)
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	ws := t.TempDir()
	dir := filepath.Join(ws, ".iffidb")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml: ["), 0644))

	cfg := Load(ws)
	assert.Equal(t, "Admin", cfg.Operator)
	assert.Equal(t, 800*time.Millisecond, cfg.LoginDelay())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ws := t.TempDir()

	cfg := Default(ws)
	cfg.Operator = "Iftikhar Ali"
	cfg.SampleSize = 25
	cfg.TranscriptFeed = filepath.Join(ws, "voice.txt")
	require.NoError(t, Save(cfg))

	got := Load(ws)
	assert.Equal(t, "Iftikhar Ali", got.Operator)
	assert.Equal(t, 25, got.SampleSize)
	assert.Equal(t, cfg.TranscriptFeed, got.TranscriptFeed)
}

func TestLoadHonorsWorkspaceEnv(t *testing.T) {
	ws := t.TempDir()
	t.Setenv(EnvWorkspace, ws)

	cfg := Load("")
	assert.Equal(t, ws, cfg.Workspace)
}
