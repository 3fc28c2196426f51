// Package cmd is the voidmm command tree.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/voidmm/voidmm/internal/config"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/paths"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply does not race with the input loop.
	_ = lipgloss.HasDarkBackground()
}

// localConfigPath is checked before the user config directory.
const localConfigPath = ".voidmm/config.yaml"

var (
	version     = "dev"
	cfgFile     string
	debugFlag   bool
	metricsAddr string

	cfg        config.Config
	cfgPath    string
	cfgErr     error
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "voidmm",
	Short: "Download and install game mods",
	Long: `voidmm downloads mods through pluggable mod providers and installs them
into the games you configure. Downloads run one at a time in the order
they were queued.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./.voidmm/config.yaml, then ~/.config/voidmm/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write a debug log (also VOIDMM_DEBUG=1)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "",
		"serve Prometheus metrics on this address, e.g. 127.0.0.1:9464")

	_ = viper.BindPFlag("metrics.listen", rootCmd.PersistentFlags().Lookup("metrics-addr"))
}

func initConfig() {
	cfg, cfgPath, cfgErr = loadConfig(viper.GetViper(), cfgFile,
		[]string{localConfigPath, paths.ConfigFile()}, paths.ConfigFile())
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := config.Defaults()
	v.SetDefault("downloads.dir", d.Downloads.Dir)
	v.SetDefault("downloads.queue_capacity", d.Downloads.QueueCapacity)
	v.SetDefault("downloads.user_agent", d.Downloads.UserAgent)
	v.SetDefault("downloads.header_timeout", d.Downloads.HeaderTimeout)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("cache.extended_info_ttl", d.Cache.ExtendedInfoTTL)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
	v.SetDefault("metrics.listen", d.Metrics.Listen)
	v.SetDefault("active_game", d.ActiveGame)

	v.SetEnvPrefix("VOIDMM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// findConfig returns the first candidate that exists, or "".
func findConfig(candidates ...string) string {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// loadConfig resolves the config file, writing defaultPath from the template
// when no candidate exists, and unmarshals it into a Config. The returned
// path is "" when running on defaults only.
func loadConfig(v *viper.Viper, explicit string, candidates []string, defaultPath string) (config.Config, string, error) {
	setDefaults(v)

	path := explicit
	if path == "" {
		path = findConfig(candidates...)
	}
	if path == "" && defaultPath != "" {
		if err := config.WriteDefaultConfig(defaultPath); err == nil {
			path = defaultPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, path, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c config.Config
	if err := v.Unmarshal(&c); err != nil {
		return config.Config{}, path, fmt.Errorf("decoding config: %w", err)
	}
	expandPaths(&c)
	return c, path, nil
}

// expandPaths resolves a leading ~ in every filesystem path of c.
func expandPaths(c *config.Config) {
	c.Downloads.Dir = expandHome(c.Downloads.Dir)
	c.Tracing.FilePath = expandHome(c.Tracing.FilePath)
	c.Log.Path = expandHome(c.Log.Path)
	for i := range c.Games {
		c.Games[i].ModsDir = expandHome(c.Games[i].ModsDir)
	}
}

func setup(_ *cobra.Command, _ []string) error {
	if cfgErr != nil {
		return cfgErr
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if debugFlag || os.Getenv("VOIDMM_DEBUG") != "" {
		logPath := cfg.Log.Path
		if logPath == "" {
			logPath = config.DefaultLogPath
		}
		cleanup, err := log.Init(logPath)
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		applyLogLevel(cfg.Log.Level)
		log.Info(log.CatConfig, "voidmm starting", "version", version, "config", cfgPath)
	}
	return nil
}

// closeLog closes the debug log opened by setup, if any.
func closeLog() {
	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
}

func applyLogLevel(level string) {
	if l, ok := log.ParseLevel(level); ok {
		log.SetMinLevel(l)
	}
}

// Execute runs the root command. The debug log is closed afterwards even
// when the command fails.
func Execute() error {
	defer closeLog()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
