package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/voidmm/voidmm/internal/config"
	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/domain/registry"
	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/providerapi"
	"github.com/voidmm/voidmm/internal/pubsub"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, `
downloads:
  queue_capacity: 5
  header_timeout: 2s
active_game: payday-2
games:
  - id: payday-2
    name: PAYDAY 2
    provider: direct
    mods_dir: /tmp/mods
`)

	c, used, err := loadConfig(viper.New(), path, nil, "")
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, 5, c.Downloads.QueueCapacity)
	require.Equal(t, 2*time.Second, c.Downloads.HeaderTimeout)
	require.Equal(t, download.DefaultUserAgent, c.Downloads.UserAgent)
	require.Equal(t, "payday-2", c.ActiveGame)
	require.Equal(t, []config.GameConfig{{ID: "payday-2", Name: "PAYDAY 2", Provider: "direct", ModsDir: "/tmp/mods"}}, c.Games)
}

func TestLoadConfig_FirstExistingCandidateWins(t *testing.T) {
	dir := t.TempDir()
	local := filepath.Join(dir, "local", "config.yaml")
	user := filepath.Join(dir, "user", "config.yaml")
	writeFile(t, user, "active_game: from-user\n")
	writeFile(t, local, "active_game: from-local\n")

	c, used, err := loadConfig(viper.New(), "", []string{local, user}, "")
	require.NoError(t, err)
	require.Equal(t, local, used)
	require.Equal(t, "from-local", c.ActiveGame)
}

func TestLoadConfig_WritesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	defaultPath := filepath.Join(dir, "voidmm", "config.yaml")

	c, used, err := loadConfig(viper.New(), "", []string{filepath.Join(dir, "nope.yaml")}, defaultPath)
	require.NoError(t, err)
	require.Equal(t, defaultPath, used)
	require.FileExists(t, defaultPath)
	require.Equal(t, download.DefaultQueueCapacity, c.Downloads.QueueCapacity)
	require.Equal(t, download.DefaultHeaderTimeout, c.Downloads.HeaderTimeout)
	require.Equal(t, config.DefaultLogPath, c.Log.Path)
	require.NoError(t, config.Validate(c))
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("VOIDMM_DOWNLOADS_QUEUE_CAPACITY", "7")
	t.Setenv("VOIDMM_ACTIVE_GAME", "mws")
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "downloads:\n  queue_capacity: 3\n")

	c, _, err := loadConfig(viper.New(), path, nil, "")
	require.NoError(t, err)
	require.Equal(t, 7, c.Downloads.QueueCapacity)
	require.Equal(t, "mws", c.ActiveGame)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "downloads: [unclosed\n")

	_, _, err := loadConfig(viper.New(), path, nil, "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "reading config")
}

func TestLoadConfig_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		yaml string
		get  func(config.Config) string
		want string
	}{
		{
			name: "downloads.dir",
			yaml: "downloads:\n  dir: ~/voidmm/downloads\n",
			get:  func(c config.Config) string { return c.Downloads.Dir },
			want: filepath.Join(home, "voidmm", "downloads"),
		},
		{
			name: "tracing.file_path",
			yaml: "tracing:\n  file_path: ~/voidmm/traces.jsonl\n",
			get:  func(c config.Config) string { return c.Tracing.FilePath },
			want: filepath.Join(home, "voidmm", "traces.jsonl"),
		},
		{
			name: "log.path",
			yaml: "log:\n  path: ~/voidmm.log\n",
			get:  func(c config.Config) string { return c.Log.Path },
			want: filepath.Join(home, "voidmm.log"),
		},
		{
			name: "games.mods_dir",
			yaml: "games:\n  - id: mws\n    provider: direct\n    mods_dir: ~/mws/mods\n",
			get:  func(c config.Config) string { return c.Games[0].ModsDir },
			want: filepath.Join(home, "mws", "mods"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			writeFile(t, path, tt.yaml)

			c, _, err := loadConfig(viper.New(), path, nil, "")
			require.NoError(t, err)
			require.Equal(t, tt.want, tt.get(c))
		})
	}
}

func TestLoadConfig_ExpandsHomeFromEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VOIDMM_LOG_PATH", "~/env.log")

	c, _, err := loadConfig(viper.New(), "", nil, "")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "env.log"), c.Log.Path)
}

func TestFindConfig(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "c.yaml")
	writeFile(t, existing, "")

	require.Equal(t, existing, findConfig("", filepath.Join(dir, "missing.yaml"), existing))
	require.Equal(t, "", findConfig(filepath.Join(dir, "missing.yaml")))
}

type nopAPI struct{}

func (nopAPI) QueueDownload(context.Context, string) (*download.Handle, error) { return nil, nil }
func (nopAPI) CurrentGameID() string                                           { return "" }

var _ providerapi.API = nopAPI{}

func TestBuildRegistry(t *testing.T) {
	reg, err := buildRegistry([]config.GameConfig{
		{ID: "Payday-2", Provider: "direct", ModsDir: "/mods"},
		{ID: "orphan", Name: "Orphan", Provider: "missing"},
	}, nopAPI{})
	require.NoError(t, err)

	p, err := reg.Provider("direct")
	require.NoError(t, err)
	require.True(t, p.Source.IsCore())

	g, err := reg.Game("payday-2")
	require.NoError(t, err)
	require.Equal(t, "plugin:config", g.Source.String())
	require.Equal(t, "direct", g.RequiredProviderID)
	require.Equal(t, mods.GameMetadata{ID: "payday-2", DisplayName: "payday-2", ModsDir: "/mods"}, g.Game.Metadata())

	problems := reg.Validate()
	require.Len(t, problems, 1)
	require.ErrorIs(t, problems[0], registry.ErrNotFound)
}

func TestBuildRegistry_DuplicateGame(t *testing.T) {
	_, err := buildRegistry([]config.GameConfig{
		{ID: "mws", Provider: "direct"},
		{ID: "MWS", Provider: "direct"},
	}, nopAPI{})
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	require.Equal(t, filepath.Join(home, "mods"), expandHome("~/mods"))
	require.Equal(t, home, expandHome("~"))
	require.Equal(t, "/abs/mods", expandHome("/abs/mods"))
	require.Equal(t, "~other/mods", expandHome("~other/mods"))
}

func TestSummarize(t *testing.T) {
	require.NoError(t, summarize([]mods.Result{mods.Completed("/a")}))

	err := summarize([]mods.Result{mods.Completed("/a"), mods.Failed("x"), mods.Cancelled()})
	require.EqualError(t, err, "2 of 3 downloads did not complete (1 failed, 1 cancelled)")
}

func newTestApp(t *testing.T, c config.Config) *app {
	t.Helper()
	c.Downloads.Dir = filepath.Join(t.TempDir(), "downloads")
	a, err := newApp(c, "")
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewApp_ActivatesConfiguredGame(t *testing.T) {
	a := newTestApp(t, config.Config{
		ActiveGame: "payday-2",
		Games:      []config.GameConfig{{ID: "payday-2", Provider: "direct"}},
	})

	id, ok := a.games.ActiveGame()
	require.True(t, ok)
	require.Equal(t, "payday-2", id)
	require.Len(t, a.games.ListProviders(), 1)
}

func TestNewApp_UnknownActiveGameIsIgnored(t *testing.T) {
	a := newTestApp(t, config.Config{ActiveGame: "nope"})

	_, ok := a.games.ActiveGame()
	require.False(t, ok)
}

func TestAwaitAll_PlainReporter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.zip" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "archive")
	}))
	defer srv.Close()

	a := newTestApp(t, config.Config{})
	require.NoError(t, a.startDownloads(""))
	ctx := context.Background()

	ok, err := a.downloads.QueueDownload(ctx, srv.URL+"/hud.zip")
	require.NoError(t, err)
	missing, err := a.downloads.QueueDownload(ctx, srv.URL+"/missing.zip")
	require.NoError(t, err)

	var out bytes.Buffer
	results := awaitAll(ctx, []*download.Handle{ok, missing}, plainReporter(&out))

	require.Equal(t, mods.KindCompleted, results[0].Kind)
	require.Equal(t, "hud.zip", filepath.Base(results[0].Path))
	require.Equal(t, mods.Failed("HTTP 404: Not Found"), results[1])

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, out.String(), "completed "+srv.URL+"/hud.zip")
	require.Contains(t, out.String(), "failed    "+srv.URL+"/missing.zip: HTTP 404: Not Found")
}

func TestNewApp_DoesNotStartWorkerOrMetrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "archive")
	}))
	defer srv.Close()

	c := config.Config{Metrics: config.MetricsConfig{Listen: "127.0.0.1:0"}}
	a := newTestApp(t, c)
	require.Nil(t, a.metricsSrv, "read-only commands bind no port")

	h, err := a.downloads.QueueDownload(context.Background(), srv.URL+"/hud.zip")
	require.NoError(t, err)
	require.Equal(t, 1, a.downloads.Pending(), "worker has not started")
	require.Equal(t, mods.InProgress(0), h.Status())

	require.NoError(t, a.startDownloads(c.Metrics.Listen))
	require.NotNil(t, a.metricsSrv)
	require.Equal(t, mods.KindCompleted, providerapi.AwaitResult(context.Background(), h).Kind)
}

func TestStartDownloads_SubscriberSeesFirstStartedEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "archive")
	}))
	defer srv.Close()

	a := newTestApp(t, config.Config{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	events := a.events.Subscribe(ctx)
	require.NoError(t, a.startDownloads(""))
	h, err := a.downloads.QueueDownload(ctx, srv.URL+"/hud.zip")
	require.NoError(t, err)

	for {
		select {
		case ev := <-events:
			if p, ok := ev.Payload.(download.StartedPayload); ok {
				require.Equal(t, h.ID(), p.ID)
				require.Equal(t, "hud.zip", p.Filename)
				return
			}
		case <-ctx.Done():
			t.Fatal("started event never arrived")
		}
	}
}

func TestAppClose_ReportsDroppedEvents(t *testing.T) {
	var buf bytes.Buffer
	cleanup := log.InitWriter(&buf)
	defer cleanup()

	c := config.Config{}
	c.Downloads.Dir = filepath.Join(t.TempDir(), "downloads")
	a, err := newApp(c, "")
	require.NoError(t, err)

	// A subscriber that never reads fills its buffer.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = a.events.Subscribe(ctx)
	for range 200 {
		a.events.Publish(pubsub.MessageEvent, "tick")
	}
	a.Close()

	require.Contains(t, buf.String(), "Slow event subscribers missed events")
}

func TestServeMetrics(t *testing.T) {
	c := config.Config{Metrics: config.MetricsConfig{Listen: "127.0.0.1:0"}}
	a := newTestApp(t, c)
	require.NoError(t, a.startDownloads(c.Metrics.Listen))
	require.NotNil(t, a.metricsSrv)

	resp, err := http.Get("http://" + a.metricsSrv.Addr + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "voidmm_downloads_in_flight")
}

func TestExecute_ClosesLogWhenCommandFails(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "debug.log")
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, "log:\n  path: "+logPath+"\n"+
		"downloads:\n  dir: "+filepath.Join(dir, "downloads")+"\n"+
		"tracing:\n  enabled: false\n")

	rootCmd.SetArgs([]string{"--config", path, "--debug", "activate", "missing-game"})
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		cfgFile, debugFlag = "", false
	})

	require.Error(t, Execute())
	require.Nil(t, logCleanup)

	log.Info(log.CatConfig, "logged after execute")
	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "voidmm starting")
	require.NotContains(t, string(data), "logged after execute")
}
