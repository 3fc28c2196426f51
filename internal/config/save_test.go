package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func readYAML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, yaml.Unmarshal(data, &out))
	return out
}

func TestSaveActiveGame_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, SaveActiveGame(path, "payday-2"))

	require.Equal(t, map[string]any{"active_game": "payday-2"}, readYAML(t, path))
}

func TestSaveActiveGame_PreservesCommentsAndKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`# top comment
downloads:
  queue_capacity: 10 # keep me
active_game: old-game
`), 0o600))

	require.NoError(t, SaveActiveGame(path, "new-game"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "# top comment")
	require.Contains(t, string(data), "# keep me")

	doc := readYAML(t, path)
	require.Equal(t, "new-game", doc["active_game"])
	require.Equal(t, map[string]any{"queue_capacity": 10}, doc["downloads"])
}

func TestSaveActiveGame_AppendsKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o600))

	require.NoError(t, SaveActiveGame(path, "pd2"))

	doc := readYAML(t, path)
	require.Equal(t, "pd2", doc["active_game"])
	require.Equal(t, map[string]any{"level": "info"}, doc["log"])
}

func TestSaveActiveGame_EmptyRemovesKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("active_game: pd2\nlog:\n  level: info\n"), 0o600))

	require.NoError(t, SaveActiveGame(path, ""))

	doc := readYAML(t, path)
	_, ok := doc["active_game"]
	require.False(t, ok)
	require.Contains(t, doc, "log")
}

func TestSaveActiveGame_NumericLookingIDStaysString(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, SaveActiveGame(path, "218620"))

	require.Equal(t, "218620", readYAML(t, path)["active_game"])
}

func TestSaveActiveGame_RejectsNonMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- a\n- b\n"), 0o600))

	require.ErrorContains(t, SaveActiveGame(path, "pd2"), "mapping")
}

func TestSaveActiveGame_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("a: [unclosed\n"), 0o600))

	require.ErrorContains(t, SaveActiveGame(path, "pd2"), "parsing config")
}
