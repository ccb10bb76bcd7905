package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voiceatis.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Equal(t, "https://api.ivao.aero/v2/tracker/whazzup", cfg.Sources.WhazzupURL)
	assert.InDelta(t, 180.0, cfg.Resolver.RadioRange.NM(), 0.001)
	assert.Equal(t, time.Duration(cfg.Ticker.PollInterval), 3*time.Second)
}

func TestLoad_MergesUserValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voiceatis.yaml")

	content := `
ticker:
  poll_interval: 5s
resolver:
  radio_range: 100nm
sim:
  provider: mock
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// User values applied
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Ticker.PollInterval))
	assert.InDelta(t, 100.0, cfg.Resolver.RadioRange.NM(), 0.001)
	// Defaults retained for unset keys
	assert.Equal(t, 3, cfg.Request.Retries)
	assert.Equal(t, "windows-sapi", cfg.TTS.Engine)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voiceatis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MockRadios(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voiceatis.yaml")

	content := `
sim:
  provider: mock
  mock:
    nav1:
      frequency: "126.275"
    nav2:
      frequency: "118.025"
      receive: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "126.275", cfg.Sim.Mock.NAV1.Frequency)
	// Omitted receive key means the switch is on.
	assert.True(t, cfg.Sim.Mock.NAV1.Receiving())
	assert.False(t, cfg.Sim.Mock.NAV2.Receiving())
}
