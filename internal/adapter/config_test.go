package adapter

import (
	"os"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
	return dir
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Len(t, cfg.Stations, len(defaultStations))
	assert.Equal(t, []string{"ČRo Dvojka"}, cfg.DefaultStations)
	assert.Equal(t, "mpv", cfg.Player.Command)
	assert.Equal(t, "http://hledani.rozhlas.cz/iradio/", cfg.Archive.BaseURL)
	assert.Zero(t, cfg.Archive.Timeout)
	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, 30*24*time.Hour, cfg.Cache.MaxAge)
	assert.Equal(t, filepath.Join(os.TempDir(), fmt.Sprintf("iradio-mpv-%d.sock", os.Getpid())), cfg.Player.Socket,
		"each process gets its own mpv socket")
}

func TestLoadConfig_FileReplacesStationList(t *testing.T) {
	dir := writeConfig(t, `
archive:
  base_url: http://localhost:9999/
  timeout: 5s
stations:
  - name: Alpha
    token: alpha-token
  - name: Beta
default_stations: [Beta]
player:
  command: /opt/mpv
  args: ["--volume=50"]
cache:
  file: ""
  max_age: 48h
`)

	cfg, err := loadConfig(viper.New(), dir)
	require.NoError(t, err)

	require.Len(t, cfg.Stations, 2)
	assert.Equal(t, "Alpha", cfg.Stations[0].Name)
	assert.Equal(t, []string{"Beta"}, cfg.DefaultStations)
	assert.Equal(t, "http://localhost:9999/", cfg.Archive.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Archive.Timeout)
	assert.Equal(t, "/opt/mpv", cfg.Player.Command)
	assert.Equal(t, []string{"--volume=50"}, cfg.Player.Args)
	assert.Empty(t, cfg.Cache.File)
	assert.Equal(t, 48*time.Hour, cfg.Cache.MaxAge)

	catalog := cfg.Catalog()
	require.Len(t, catalog, 2)
	assert.Equal(t, "alpha-token", catalog[0].Token)
	assert.Equal(t, "Beta", catalog[1].Token, "token falls back to the name")
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("IRADIO_PLAYER_COMMAND", "vlc")
	t.Setenv("IRADIO_LOGGING_LEVEL", "DEBUG")

	cfg, err := loadConfig(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "vlc", cfg.Player.Command)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := writeConfig(t, "stations: [unterminated\n")

	_, err := loadConfig(viper.New(), dir)
	assert.Error(t, err)
}
