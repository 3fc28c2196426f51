package paths

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/require"
)

func withXDG(t *testing.T) (data, config string) {
	t.Helper()
	data = filepath.Join(t.TempDir(), "data")
	config = filepath.Join(t.TempDir(), "config")
	t.Setenv("XDG_DATA_HOME", data)
	t.Setenv("XDG_CONFIG_HOME", config)
	xdg.Reload()
	t.Cleanup(xdg.Reload)
	return data, config
}

func TestDownloadsDir(t *testing.T) {
	data, _ := withXDG(t)

	dir, err := DownloadsDir()

	require.NoError(t, err)
	require.Equal(t, filepath.Join(data, AppID, "downloads"), dir)
}

func TestConfigPaths(t *testing.T) {
	_, config := withXDG(t)

	require.Equal(t, filepath.Join(config, "voidmm"), ConfigDir())
	require.Equal(t, filepath.Join(config, "voidmm", "config.yaml"), ConfigFile())
	require.Equal(t, filepath.Join(config, "voidmm", "traces", "traces.jsonl"), TracesFile())
}

func TestResolveDir(t *testing.T) {
	called := false
	fallback := func() (string, error) {
		called = true
		return "/fallback", nil
	}

	dir, err := ResolveDir("/custom/dir/", fallback)
	require.NoError(t, err)
	require.Equal(t, filepath.Clean("/custom/dir"), dir)
	require.False(t, called)

	dir, err = ResolveDir("", fallback)
	require.NoError(t, err)
	require.Equal(t, "/fallback", dir)
	require.True(t, called)

	_, err = ResolveDir("", func() (string, error) { return "", ErrNoDataDir })
	require.True(t, errors.Is(err, ErrNoDataDir))
}
