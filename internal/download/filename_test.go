package download

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"simple", "https://cdn.example.com/mods/hud.zip", "hud.zip"},
		{"query ignored", "https://cdn.example.com/f/pack.7z?token=abc#frag", "pack.7z"},
		{"escaped space", "https://cdn.example.com/f/My%20Mod.zip", "My Mod.zip"},
		{"no path", "https://cdn.example.com", FallbackFilename},
		{"root", "https://cdn.example.com/", FallbackFilename},
		{"trailing slash", "https://cdn.example.com/mods/hud/", FallbackFilename},
		{"dot dot", "https://cdn.example.com/mods/%2e%2e", FallbackFilename},
		{"escaped slash", "https://cdn.example.com/mods/evil%2Fname.zip", FallbackFilename},
		{"backslash", "https://cdn.example.com/mods/evil%5Cname.zip", FallbackFilename},
		{"no extension", "https://cdn.example.com/download/12345", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.raw)
			require.NoError(t, err)
			require.Equal(t, tt.want, FilenameFromURL(u))
		})
	}
}

func TestFilenameFromURL_Nil(t *testing.T) {
	require.Equal(t, FallbackFilename, FilenameFromURL(nil))
}

func TestPercent(t *testing.T) {
	tests := []struct {
		downloaded, total int64
		want              uint8
	}{
		{0, 10, 0},
		{5, 10, 50},
		{10, 10, 100},
		{1, 3, 33},
		{2, 3, 67},
		{995, 1000, 100},
		{994, 1000, 99},
		{20, 10, 100},
		{5, 0, 0},
		{5, -1, 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, Percent(tt.downloaded, tt.total), "Percent(%d, %d)", tt.downloaded, tt.total)
	}
}

func TestPercent_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.Int64Range(1, 1<<40).Draw(t, "total")
		a := rapid.Int64Range(0, total).Draw(t, "a")
		b := rapid.Int64Range(a, total).Draw(t, "b")

		pa, pb := Percent(a, total), Percent(b, total)
		if pa > 100 || pb > 100 {
			t.Fatalf("percent out of range: %d %d", pa, pb)
		}
		if pa > pb {
			t.Fatalf("percent not monotonic: Percent(%d)=%d > Percent(%d)=%d", a, pa, b, pb)
		}
		if Percent(total, total) != 100 {
			t.Fatalf("complete download must be 100%%")
		}
	})
}
