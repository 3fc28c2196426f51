package gamectx

import "github.com/voidmm/voidmm/internal/domain/mods"

// GameSummary is the listing view of a registered game.
type GameSummary struct {
	ID                 string            `json:"id"`
	RequiredProviderID string            `json:"required_provider_id"`
	Source             string            `json:"source"`
	Active             bool              `json:"active"`
	Metadata           mods.GameMetadata `json:"metadata"`
}

// ProviderSummary is the listing view of a registered mod provider.
type ProviderSummary struct {
	ID       string        `json:"id"`
	Source   string        `json:"source"`
	Features mods.Features `json:"features"`
}

// ListGames returns every game in registration order.
func (c *Context) ListGames() []GameSummary {
	active, _ := c.selection.Current()
	entries := c.reg.Games()
	out := make([]GameSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, GameSummary{
			ID:                 e.ID,
			RequiredProviderID: e.RequiredProviderID,
			Source:             e.Source.String(),
			Active:             e.ID == active,
			Metadata:           e.Game.Metadata(),
		})
	}
	return out
}

// ListProviders returns every mod provider in registration order.
func (c *Context) ListProviders() []ProviderSummary {
	entries := c.reg.Providers()
	out := make([]ProviderSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, ProviderSummary{
			ID:       e.ID,
			Source:   e.Source.String(),
			Features: e.Provider.Configure(),
		})
	}
	return out
}
