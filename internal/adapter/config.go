package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/iradio/internal/domain"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Archive         ArchiveConfig   `mapstructure:"archive"`
	Stations        []StationConfig `mapstructure:"stations"`
	DefaultStations []string        `mapstructure:"default_stations"`
	Player          PlayerConfig    `mapstructure:"player"`
	Cache           CacheConfig     `mapstructure:"cache"`
	Logging         LoggingConfig   `mapstructure:"logging"`
}

// ArchiveConfig holds the search endpoint configuration
type ArchiveConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"` // 0 waits forever
	UserAgent string        `mapstructure:"user_agent"`
}

// StationConfig is one catalog entry; list order is display order
type StationConfig struct {
	Name  string `mapstructure:"name"`
	Token string `mapstructure:"token"`
}

// PlayerConfig holds media player configuration
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
	Socket  string   `mapstructure:"socket"` // mpv IPC socket path
}

// CacheConfig holds the playlist cache location and retention
type CacheConfig struct {
	File   string        `mapstructure:"file"`    // empty keeps the cache in memory
	MaxAge time.Duration `mapstructure:"max_age"` // 0 keeps entries forever
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// defaultStations is the station list of the Czech Radio archive
var defaultStations = []StationConfig{
	{Name: "ČRo Radiožurnál", Token: "ČRo Radiožurnál"},
	{Name: "ČRo Dvojka", Token: "ČRo Dvojka"},
	{Name: "ČRo Vltava", Token: "ČRo Vltava"},
	{Name: "ČRo Plus", Token: "ČRo Plus"},
	{Name: "ČRo Radio Wave", Token: "ČRo Radio Wave"},
	{Name: "ČRo Jazz", Token: "ČRo Jazz"},
	{Name: "Rádio Junior", Token: "Rádio Junior"},
	{Name: "Rádio vašeho kraje", Token: "Rádio vašeho kraje"},
	{Name: "Brno", Token: "Brno"},
	{Name: "České Budějovice", Token: "České Budějovice"},
	{Name: "Hradec Králové", Token: "Hradec Králové"},
	{Name: "Olomouc", Token: "Olomouc"},
	{Name: "Ostrava", Token: "Ostrava"},
	{Name: "Pardubice", Token: "Pardubice"},
	{Name: "Plzeň", Token: "Plzeň"},
	{Name: "Regina", Token: "Regina"},
	{Name: "Region - střední Čechy", Token: "Region - střední Čechy"},
	{Name: "Region - Vysočina", Token: "Region - Vysočina"},
	{Name: "Sever", Token: "Sever"},
	{Name: "ČRo 6", Token: "ČRo 6"},
	{Name: "Rádio Česko", Token: "Rádio Česko"},
	{Name: "ČRo Leonardo", Token: "ČRo Leonardo"},
	{Name: "Rádio Retro", Token: "Rádio Retro"},
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	stations := make([]StationConfig, len(defaultStations))
	copy(stations, defaultStations)

	return &Config{
		Archive: ArchiveConfig{
			BaseURL:   "http://hledani.rozhlas.cz/iradio/",
			UserAgent: "iradio/1.0",
		},
		Stations:        stations,
		DefaultStations: []string{"ČRo Dvojka"},
		Player: PlayerConfig{
			Command: "mpv",
			Args:    []string{},
			Socket:  defaultSocketPath(),
		},
		Cache: CacheConfig{
			File:   filepath.Join(defaultDataPath(), "cache.db"),
			MaxAge: 30 * 24 * time.Hour,
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "iradio.log"),
			Level: "INFO",
		},
	}
}

// Catalog converts the configured station list to domain stations
func (c *Config) Catalog() []domain.Station {
	catalog := make([]domain.Station, len(c.Stations))
	for i, s := range c.Stations {
		token := s.Token
		if token == "" {
			token = s.Name
		}
		catalog[i] = domain.Station{Name: s.Name, Token: token}
	}
	return catalog
}

// defaultSocketPath returns an mpv IPC socket path private to this process
func defaultSocketPath() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("iradio-mpv-%d.sock", os.Getpid()))
}

// defaultDataPath returns the directory for logs and cache on the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "iradio")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "iradio")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "iradio")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "iradio")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), defaultConfigPath(), ".")
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// Environment variable overrides, e.g. IRADIO_PLAYER_COMMAND
	v.SetEnvPrefix("IRADIO")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	// Lists are decoded into fresh slices; mapstructure would otherwise
	// overlay a shorter configured list onto the defaults.
	stations, defaults := cfg.Stations, cfg.DefaultStations
	cfg.Stations, cfg.DefaultStations = nil, nil

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if !v.IsSet("stations") {
		cfg.Stations = stations
	}
	if !v.IsSet("default_stations") {
		cfg.DefaultStations = defaults
	}

	return cfg, nil
}

// bindEnv registers scalar keys so AutomaticEnv sees them without a config file
func bindEnv(v *viper.Viper) {
	for _, key := range []string{
		"archive.base_url",
		"archive.timeout",
		"archive.user_agent",
		"player.command",
		"player.socket",
		"cache.file",
		"cache.max_age",
		"logging.file",
		"logging.level",
	} {
		_ = v.BindEnv(key)
	}
}
