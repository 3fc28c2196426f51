package registry

// Lookup defines read-only access to a frozen registry. It lets the
// application layer depend on an interface and substitute fakes in tests.
type Lookup interface {
	Provider(id string) (ProviderEntry, error)
	Game(id string) (GameEntry, error)
	Providers() []ProviderEntry
	Games() []GameEntry
}

// Compile-time check that Registry implements Lookup.
var _ Lookup = (*Registry)(nil)
