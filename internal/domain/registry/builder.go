package registry

import (
	"fmt"
	"sync"
)

// Builder accumulates registrations until Freeze is called.
// It is safe for concurrent use.
type Builder struct {
	mu        sync.Mutex
	providers []ProviderEntry
	games     []GameEntry
	frozen    bool
}

// NewBuilder creates an empty, mutable registry builder.
func NewBuilder() *Builder {
	return &Builder{
		providers: make([]ProviderEntry, 0),
		games:     make([]GameEntry, 0),
	}
}

// RegisterProvider adds a mod provider under id.
// A failed registration leaves the builder unchanged.
func (b *Builder) RegisterProvider(id string, source Source, provider ModProvider) error {
	normalized, err := checkID(id, source)
	if err != nil {
		return err
	}
	if provider == nil {
		return newError(KindInvalidID, normalized, fmt.Sprintf("provider %q is nil", normalized))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return newError(KindFrozen, normalized, fmt.Sprintf("registry is frozen, cannot register provider %q", normalized))
	}
	for _, existing := range b.providers {
		if existing.ID == normalized {
			return newError(KindProviderAlreadyExists, normalized, fmt.Sprintf("duplicate provider id: %s", normalized))
		}
	}

	b.providers = append(b.providers, ProviderEntry{ID: normalized, Source: source, Provider: provider})
	return nil
}

// RegisterGame adds a game under id that requires the provider
// requiredProviderID. The provider does not have to be registered yet.
func (b *Builder) RegisterGame(id string, source Source, game GameProvider, requiredProviderID string) error {
	normalized, err := checkID(id, source)
	if err != nil {
		return err
	}
	required, err := Normalize(requiredProviderID)
	if err != nil {
		return err
	}
	if game == nil {
		return newError(KindInvalidID, normalized, fmt.Sprintf("game %q is nil", normalized))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return newError(KindFrozen, normalized, fmt.Sprintf("registry is frozen, cannot register game %q", normalized))
	}
	for _, existing := range b.games {
		if existing.ID == normalized {
			return newError(KindGameAlreadyExists, normalized, fmt.Sprintf("duplicate game id: %s", normalized))
		}
	}

	b.games = append(b.games, GameEntry{ID: normalized, Source: source, Game: game, RequiredProviderID: required})
	return nil
}

// Freeze returns the immutable Registry and rejects all further registrations.
// Calling Freeze again returns an equivalent snapshot.
func (b *Builder) Freeze() *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frozen = true
	return newRegistry(b.providers, b.games)
}

// Frozen reports whether Freeze has been called.
func (b *Builder) Frozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// checkID normalizes id and applies the reserved "core" rule.
func checkID(id string, source Source) (string, error) {
	normalized, err := Normalize(id)
	if err != nil {
		return "", err
	}
	if normalized == CoreID && !source.IsCore() {
		return "", newError(KindReservedCoreID, normalized,
			fmt.Sprintf("cannot use reserved identifier \"core\" for non core implementations (%s)", source))
	}
	return normalized, nil
}
