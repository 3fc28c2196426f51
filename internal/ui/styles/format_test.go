package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWidth int
		expected string
	}{
		{"fits", "hud.zip", 10, "hud.zip"},
		{"exact", "hud.zip", 7, "hud.zip"},
		{"truncated", "https://example.com/mods/hud.zip", 12, "https://e..."},
		{"tiny width", "hud.zip", 2, ".."},
		{"zero width", "hud.zip", 0, ""},
		{"wide runes", "模组下载器", 7, "模组..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, TruncateString(tt.s, tt.maxWidth))
		})
	}
}

func TestTruncateString_NeverExceedsWidth(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.StringMatching(`[ -~]{0,60}`).Draw(t, "s")
		width := rapid.IntRange(0, 40).Draw(t, "width")

		got := TruncateString(s, width)
		if lipgloss.Width(got) > width {
			t.Fatalf("TruncateString(%q, %d) = %q is %d wide", s, width, got, lipgloss.Width(got))
		}
	})
}
