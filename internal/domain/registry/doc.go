// Package registry implements the provider/game registry of the mod manager.
//
// This package follows the same layering as the rest of internal/domain:
//   - Contains only pure Go code with standard library imports
//   - Defines the entry types (ProviderEntry, GameEntry) and the Source value object
//   - Implements identifier normalization and the registration invariants
//   - Has no knowledge of downloads, configuration or the CLI
//
// # Identifiers
//
// Normalize trims and lowercases a raw identifier and validates it against
// the allowed alphabet [a-z0-9._-] with at most one inner ':' separator.
// Every registration and lookup runs through Normalize, so callers never need
// to pre-normalize.
//
// # Lifecycle
//
// Registration happens on a Builder. Freeze hands out the read-only Registry
// and marks the Builder frozen; any later registration fails with ErrFrozen
// instead of being silently ignored.
//
//	b := registry.NewBuilder()
//	_ = b.RegisterProvider("direct", registry.CoreSource(), directProvider)
//	_ = b.RegisterGame("payday-2", registry.CoreSource(), pd2, "direct")
//	reg := b.Freeze()
//
// # Reserved identifiers
//
// The identifier "core" may only be used by entries whose Source is CoreSource.
//
// # Deferred validation
//
// A game's required provider is normalized at registration but only resolved
// when it is used. Registry.Validate reports dangling references without
// changing that contract.
package registry
