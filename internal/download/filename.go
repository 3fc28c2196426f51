package download

import (
	"math"
	"net/url"
	"strings"
)

// FilenameFromURL returns the last path segment of u, unescaped. It falls back
// to FallbackFilename when that segment is empty or cannot name a file inside
// the download directory.
func FilenameFromURL(u *url.URL) string {
	if u == nil {
		return FallbackFilename
	}

	escaped := u.EscapedPath()
	last := escaped[strings.LastIndex(escaped, "/")+1:]

	name, err := url.PathUnescape(last)
	if err != nil {
		return FallbackFilename
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return FallbackFilename
	}
	return name
}

// Percent returns round(downloaded/total*100) clamped to 0..100. Unknown or
// zero totals report 0.
func Percent(downloaded, total int64) uint8 {
	if total <= 0 || downloaded <= 0 {
		return 0
	}
	p := math.Round(float64(downloaded) / float64(total) * 100)
	if p >= 100 {
		return 100
	}
	return uint8(p)
}
