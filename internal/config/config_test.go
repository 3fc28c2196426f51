package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/tracing"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	require.Equal(t, download.DefaultQueueCapacity, cfg.Downloads.QueueCapacity)
	require.Equal(t, 30*time.Second, cfg.Downloads.HeaderTimeout)
	require.Empty(t, cfg.Downloads.Dir)
	require.Equal(t, DefaultLogPath, cfg.Log.Path)
	require.Equal(t, 5*time.Minute, cfg.Cache.ExtendedInfoTTL)
	require.False(t, cfg.Tracing.Enabled)
	require.Equal(t, tracing.ExporterFile, cfg.Tracing.Exporter)
	require.NotEmpty(t, cfg.Tracing.FilePath)
	require.NoError(t, Validate(cfg))
}

func TestDefaultConfigTemplate_LoadsWithViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))

	require.Equal(t, 100, cfg.Downloads.QueueCapacity)
	require.Equal(t, 30*time.Second, cfg.Downloads.HeaderTimeout)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 5*time.Minute, cfg.Cache.ExtendedInfoTTL)
	require.Empty(t, cfg.Games)
	require.NoError(t, Validate(cfg))
}

func TestUnmarshalGames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
active_game: payday-2
games:
  - id: payday-2
    name: PAYDAY 2
    provider: direct
    mods_dir: /games/pd2/mods
tracing:
  enabled: true
  exporter: otlp
  otlp_endpoint: collector:4317
  sample_rate: 0.5
`), 0o600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg := Defaults()
	require.NoError(t, v.Unmarshal(&cfg))

	require.Equal(t, "payday-2", cfg.ActiveGame)
	require.Equal(t, []GameConfig{{ID: "payday-2", Name: "PAYDAY 2", Provider: "direct", ModsDir: "/games/pd2/mods"}}, cfg.Games)
	require.True(t, cfg.Tracing.Enabled)
	require.Equal(t, "collector:4317", cfg.Tracing.OTLPEndpoint)
	require.InDelta(t, 0.5, cfg.Tracing.SampleRate, 1e-9)
	require.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"negative capacity", func(c *Config) { c.Downloads.QueueCapacity = -1 }, "queue_capacity"},
		{"negative header timeout", func(c *Config) { c.Downloads.HeaderTimeout = -time.Second }, "header_timeout"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"negative ttl", func(c *Config) { c.Cache.ExtendedInfoTTL = -time.Second }, "extended_info_ttl"},
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 1.5 }, "sample_rate"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, "tracing.exporter"},
		{"file path required", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.FilePath = ""
		}, "file_path"},
		{"otlp endpoint required", func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = tracing.ExporterOTLP
			c.Tracing.OTLPEndpoint = ""
		}, "otlp_endpoint"},
		{"game bad id", func(c *Config) {
			c.Games = []GameConfig{{ID: "bad id", Provider: "direct"}}
		}, "games[0].id"},
		{"game duplicate id", func(c *Config) {
			c.Games = []GameConfig{{ID: "pd2", Provider: "direct"}, {ID: " PD2 ", Provider: "direct"}}
		}, "duplicates games[0]"},
		{"game missing provider", func(c *Config) {
			c.Games = []GameConfig{{ID: "pd2"}}
		}, "games[0].provider is required"},
		{"game bad provider", func(c *Config) {
			c.Games = []GameConfig{{ID: "pd2", Provider: "a:b:c"}}
		}, "games[0].provider"},
		{"game unknown provider is fine", func(c *Config) {
			c.Games = []GameConfig{{ID: "pd2", Provider: "mws"}}
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
