package registry

import (
	"fmt"
	"strings"
)

// MaxIdentifierLength is the longest accepted normalized identifier.
const MaxIdentifierLength = 200

// Normalize validates a raw identifier and returns its canonical form.
// The input is trimmed and lowercased, then must be 1-200 characters drawn
// from [a-z0-9._-] with at most one ':' that is neither first nor last.
func Normalize(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" || len(s) > MaxIdentifierLength {
		return "", newError(KindInvalidID, raw, fmt.Sprintf("id %q is invalid", raw))
	}

	seenColon := false
	for i, ch := range s {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '.', ch == '_', ch == '-':
		case ch == ':' && !seenColon && i > 0 && i < len(s)-1:
			seenColon = true
		default:
			return "", newError(KindInvalidID, raw,
				fmt.Sprintf("id %q contains invalid character %q at position %d", raw, ch, i))
		}
	}

	return s, nil
}
