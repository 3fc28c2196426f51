package registry

import "fmt"

// Registry is the frozen, read-only set of providers and games.
// All methods are safe for concurrent use without locking.
type Registry struct {
	providers     []ProviderEntry
	games         []GameEntry
	providerIndex map[string]int
	gameIndex     map[string]int
}

func newRegistry(providers []ProviderEntry, games []GameEntry) *Registry {
	r := &Registry{
		providers:     append([]ProviderEntry(nil), providers...),
		games:         append([]GameEntry(nil), games...),
		providerIndex: make(map[string]int, len(providers)),
		gameIndex:     make(map[string]int, len(games)),
	}
	for i, p := range r.providers {
		r.providerIndex[p.ID] = i
	}
	for i, g := range r.games {
		r.gameIndex[g.ID] = i
	}
	return r
}

// Provider looks up a provider entry. The id is normalized first.
func (r *Registry) Provider(id string) (ProviderEntry, error) {
	normalized, err := Normalize(id)
	if err != nil {
		return ProviderEntry{}, err
	}
	i, ok := r.providerIndex[normalized]
	if !ok {
		return ProviderEntry{}, NotFoundError(normalized, fmt.Sprintf("cannot find provider %s", normalized))
	}
	return r.providers[i], nil
}

// Game looks up a game entry. The id is normalized first.
func (r *Registry) Game(id string) (GameEntry, error) {
	normalized, err := Normalize(id)
	if err != nil {
		return GameEntry{}, err
	}
	i, ok := r.gameIndex[normalized]
	if !ok {
		return GameEntry{}, NotFoundError(normalized, fmt.Sprintf("cannot find game %s", normalized))
	}
	return r.games[i], nil
}

// Providers returns all provider entries in registration order.
func (r *Registry) Providers() []ProviderEntry {
	return append([]ProviderEntry(nil), r.providers...)
}

// Games returns all game entries in registration order.
func (r *Registry) Games() []GameEntry {
	return append([]GameEntry(nil), r.games...)
}

// Len returns the number of providers and games.
func (r *Registry) Len() (providers, games int) {
	return len(r.providers), len(r.games)
}

// Validate reports every game whose required provider is not registered.
// It never fails the registry; lookups stay lazy.
func (r *Registry) Validate() []error {
	var errs []error
	for _, g := range r.games {
		if _, ok := r.providerIndex[g.RequiredProviderID]; !ok {
			errs = append(errs, NotFoundError(g.RequiredProviderID,
				fmt.Sprintf("game %s requires unregistered provider %s", g.ID, g.RequiredProviderID)))
		}
	}
	return errs
}
