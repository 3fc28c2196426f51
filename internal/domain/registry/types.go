package registry

// ProviderEntry is one registered mod provider.
type ProviderEntry struct {
	ID       string
	Source   Source
	Provider ModProvider
}

// GameEntry is one registered game together with the provider it requires.
// RequiredProviderID is normalized but may reference a provider that was never
// registered; that is only detected when the game is used.
type GameEntry struct {
	ID                 string
	Source             Source
	Game               GameProvider
	RequiredProviderID string
}
