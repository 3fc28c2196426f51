// Package config provides configuration types, defaults and persistence for voidmm.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/voidmm/voidmm/internal/domain/registry"
	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/paths"
	"github.com/voidmm/voidmm/internal/tracing"
)

// Config holds all configuration options for voidmm.
type Config struct {
	Downloads  download.Config `mapstructure:"downloads"`
	Log        LogConfig       `mapstructure:"log"`
	Cache      CacheConfig     `mapstructure:"cache"`
	Tracing    tracing.Config  `mapstructure:"tracing"`
	Metrics    MetricsConfig   `mapstructure:"metrics"`
	ActiveGame string          `mapstructure:"active_game"`
	Games      []GameConfig    `mapstructure:"games"`
}

// LogConfig controls the debug log file.
type LogConfig struct {
	Path  string `mapstructure:"path"`  // default: voidmm-debug.log in the working directory
	Level string `mapstructure:"level"` // debug, info, warn or error
}

// CacheConfig controls provider metadata caching.
type CacheConfig struct {
	ExtendedInfoTTL time.Duration `mapstructure:"extended_info_ttl"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Listen string `mapstructure:"listen"` // e.g. "127.0.0.1:9464"; empty disables
}

// GameConfig declares a folder-installed game.
type GameConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Provider string `mapstructure:"provider"` // required mod provider id
	ModsDir  string `mapstructure:"mods_dir"`
}

// DefaultLogPath is used when log.path is empty.
const DefaultLogPath = "voidmm-debug.log"

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Downloads: download.DefaultConfig(),
		Log: LogConfig{
			Path:  DefaultLogPath,
			Level: "debug",
		},
		Cache: CacheConfig{
			ExtendedInfoTTL: 5 * time.Minute,
		},
		Tracing: func() tracing.Config {
			c := tracing.DefaultConfig()
			c.FilePath = paths.TracesFile()
			return c
		}(),
	}
}

// Validate checks the whole configuration.
func Validate(cfg Config) error {
	if cfg.Downloads.QueueCapacity < 0 {
		return fmt.Errorf("downloads.queue_capacity must not be negative, got %d", cfg.Downloads.QueueCapacity)
	}
	if cfg.Downloads.HeaderTimeout < 0 {
		return fmt.Errorf("downloads.header_timeout must not be negative, got %s", cfg.Downloads.HeaderTimeout)
	}
	if cfg.Log.Level != "" {
		if _, ok := log.ParseLevel(cfg.Log.Level); !ok {
			return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
		}
	}
	if cfg.Cache.ExtendedInfoTTL < 0 {
		return fmt.Errorf("cache.extended_info_ttl must not be negative, got %s", cfg.Cache.ExtendedInfoTTL)
	}
	if err := ValidateTracing(cfg.Tracing); err != nil {
		return err
	}
	return ValidateGames(cfg.Games)
}

// ValidateGames checks game identifiers and their required providers.
// Whether the provider exists is only known after registration.
func ValidateGames(games []GameConfig) error {
	seen := make(map[string]int, len(games))
	for i, g := range games {
		id, err := registry.Normalize(g.ID)
		if err != nil {
			return fmt.Errorf("games[%d].id: %w", i, err)
		}
		if prev, ok := seen[id]; ok {
			return fmt.Errorf("games[%d].id %q duplicates games[%d]", i, id, prev)
		}
		seen[id] = i

		if g.Provider == "" {
			return fmt.Errorf("games[%d].provider is required", i)
		}
		if _, err := registry.Normalize(g.Provider); err != nil {
			return fmt.Errorf("games[%d].provider: %w", i, err)
		}
	}
	return nil
}

// ValidateTracing checks tracing configuration. Empty values take defaults.
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	switch t.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
	default:
		return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
	}

	if t.Enabled {
		if t.Exporter == tracing.ExporterFile && t.FilePath == "" {
			return fmt.Errorf("tracing.file_path is required when exporter is \"file\"")
		}
		if t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
			return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
		}
	}
	return nil
}

// DefaultConfigTemplate returns the default config as YAML with comments.
func DefaultConfigTemplate() string {
	return `# voidmm configuration

# Downloads are processed one at a time in the order they were queued.
downloads:
  # dir: /path/to/downloads   # default: <local app data>/me.ghoul.void_mod_manager/downloads
  queue_capacity: 100         # queued downloads before enqueueing blocks
  header_timeout: 30s         # max wait for response headers

# Debug log (written only with --debug or VOIDMM_DEBUG=1)
log:
  path: voidmm-debug.log
  level: debug                # debug, info, warn, error

# Provider metadata cache
cache:
  extended_info_ttl: 5m

# Active game, updated by 'voidmm activate'
# active_game: payday-2

# Games installed by copying archives into a mods directory
# games:
#   - id: payday-2
#     name: PAYDAY 2
#     provider: direct
#     mods_dir: ~/.steam/steam/steamapps/common/PAYDAY 2/mods

# Prometheus metrics endpoint (also --metrics-addr)
# metrics:
#   listen: 127.0.0.1:9464

# OpenTelemetry tracing, one span per download
# tracing:
#   enabled: false
#   exporter: file                 # none, file, stdout, otlp
#   file_path: ~/.config/voidmm/traces/traces.jsonl
#   otlp_endpoint: localhost:4317
#   sample_rate: 1.0
`
}

// WriteDefaultConfig writes DefaultConfigTemplate to configPath, creating the
// parent directory.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
