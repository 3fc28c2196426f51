package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"

	"github.com/voidmm/voidmm/internal/application/gamectx"
	"github.com/voidmm/voidmm/internal/cachemanager"
	"github.com/voidmm/voidmm/internal/config"
	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/domain/registry"
	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/metrics"
	"github.com/voidmm/voidmm/internal/providerapi"
	"github.com/voidmm/voidmm/internal/providers/direct"
	"github.com/voidmm/voidmm/internal/providers/folder"
	"github.com/voidmm/voidmm/internal/pubsub"
	"github.com/voidmm/voidmm/internal/tracing"
	"github.com/voidmm/voidmm/internal/watcher"
)

// configSource is the plugin name for games declared in the config file.
const configSource = "config"

const shutdownTimeout = 10 * time.Second

// app holds the core services for one command invocation.
type app struct {
	games     *gamectx.Context
	downloads *download.Service
	events    *pubsub.Broker[any]

	tracing    *tracing.Provider
	metrics    *prometheus.Registry
	metricsSrv *http.Server
	watcher    *watcher.Watcher
}

// newApp builds the registry, the download orchestrator and the context.
// Neither the download worker nor the metrics endpoint runs until
// startDownloads, so read-only commands bind no port.
func newApp(c config.Config, configPath string) (*app, error) {
	tp, err := tracing.NewProvider(c.Tracing)
	if err != nil {
		return nil, fmt.Errorf("setting up tracing: %w", err)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	events := pubsub.NewBroker[any]()
	downloads := download.NewService(c.Downloads,
		download.WithMetrics(metrics.NewDownloads(promReg)),
		download.WithTracer(tp.Tracer()),
		download.WithEventSink(download.NewBrokerSink(events)),
	)

	selection := gamectx.NewSelection()
	api := providerapi.NewCoreAPI(downloads, selection)

	reg, err := buildRegistry(c.Games, api)
	if err != nil {
		events.Close()
		_ = tp.Shutdown(context.Background())
		return nil, err
	}
	for _, problem := range reg.Validate() {
		log.Warn(log.CatRegistry, "Registry problem", "error", problem)
	}

	ttl := c.Cache.ExtendedInfoTTL
	cache := cachemanager.NewInMemoryCacheManager[string, mods.ModExtendedMetadata](
		"extended-info", ttl, cachemanager.DefaultCleanupInterval)
	games := gamectx.New(reg,
		gamectx.WithSelection(selection),
		gamectx.WithExtendedInfoCache(cache, ttl),
	)

	if c.ActiveGame != "" {
		if err := games.ActivateGame(c.ActiveGame); err != nil {
			log.Warn(log.CatContext, "Configured active game not available", "game", c.ActiveGame, "error", err)
		}
	}

	a := &app{
		games:     games,
		downloads: downloads,
		events:    events,
		tracing:   tp,
		metrics:   promReg,
	}

	if configPath != "" {
		a.watchConfig(configPath)
	}
	return a, nil
}

// startDownloads serves metrics on listen, when set, and starts the download
// worker. Subscribe to a.events first to see every lifecycle event.
func (a *app) startDownloads(listen string) error {
	if listen != "" && a.metricsSrv == nil {
		srv, err := serveMetrics(listen, a.metrics)
		if err != nil {
			return err
		}
		a.metricsSrv = srv
	}
	a.downloads.Start()
	return nil
}

// buildRegistry registers the built-in direct provider and one folder game
// per configured entry.
func buildRegistry(games []config.GameConfig, api providerapi.API) (*registry.Registry, error) {
	b := registry.NewBuilder()

	p := direct.New(api, nil)
	if err := b.RegisterProvider(p.Register(), registry.CoreSource(), p); err != nil {
		return nil, fmt.Errorf("registering provider %s: %w", direct.ID, err)
	}

	for _, g := range games {
		id, err := registry.Normalize(g.ID)
		if err != nil {
			return nil, fmt.Errorf("game %q: %w", g.ID, err)
		}
		name := g.Name
		if name == "" {
			name = id
		}
		game := folder.New(mods.GameMetadata{
			ID:          id,
			DisplayName: name,
			ModsDir:     expandHome(g.ModsDir),
		})
		if err := b.RegisterGame(id, registry.PluginSource(configSource), game, g.Provider); err != nil {
			return nil, fmt.Errorf("registering game %s: %w", id, err)
		}
	}

	reg := b.Freeze()
	nProviders, nGames := reg.Len()
	log.Info(log.CatRegistry, "Registry frozen", "providers", nProviders, "games", nGames)
	return reg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// serveMetrics starts the Prometheus endpoint in the background.
func serveMetrics(addr string, gatherer prometheus.Gatherer) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listening for metrics on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{
		Addr:         ln.Addr().String(),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorErr(log.CatMetrics, "Metrics server stopped", err)
		}
	}()
	log.Info(log.CatMetrics, "Serving metrics", "addr", srv.Addr)
	return srv, nil
}

// watchConfig re-applies the log level whenever the config file changes.
func (a *app) watchConfig(path string) {
	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		log.ErrorErr(log.CatWatcher, "Config watcher unavailable", err)
		return
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		log.ErrorErr(log.CatWatcher, "Config watcher unavailable", err)
		return
	}
	a.watcher = w

	go func() {
		for range changes {
			reloadLogLevel(path)
		}
	}()
}

func reloadLogLevel(path string) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		log.ErrorErr(log.CatConfig, "Config reload failed", err, "path", path)
		return
	}
	level := v.GetString("log.level")
	if _, ok := log.ParseLevel(level); !ok {
		log.Warn(log.CatConfig, "Ignoring invalid log level", "level", level)
		return
	}
	applyLogLevel(level)
	log.Info(log.CatConfig, "Config reloaded", "log_level", level)
}

// Close stops the worker, draining pending downloads, and releases the
// tracing and metrics resources.
func (a *app) Close() {
	if a.watcher != nil {
		_ = a.watcher.Stop()
	}
	a.downloads.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if a.metricsSrv != nil {
		if err := a.metricsSrv.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatMetrics, "Metrics server shutdown failed", err)
		}
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
	}
	if dropped := a.events.Dropped(); dropped > 0 {
		log.Warn(log.CatDownload, "Slow event subscribers missed events", "dropped", dropped)
	}
	a.events.Close()
}
