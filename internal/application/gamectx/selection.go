package gamectx

import "sync/atomic"

// Selection holds the identifier of the active game. The zero value has no
// active game. It is safe for concurrent use.
type Selection struct {
	current atomic.Pointer[string]
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{}
}

// Current returns the active game id, or false when none is active.
func (s *Selection) Current() (string, bool) {
	p := s.current.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// CurrentGameID returns the active game id or "" when none is active.
func (s *Selection) CurrentGameID() string {
	id, _ := s.Current()
	return id
}

func (s *Selection) store(id string) {
	s.current.Store(&id)
}
