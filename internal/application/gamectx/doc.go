// Package gamectx is the application view over a frozen provider registry.
//
// A Context pairs the read-only registry with the active-game cell and
// exposes the projections the CLI needs: game and provider listings, game
// metadata, extended mod info and discovery routed to the provider the
// active game requires.
//
// # Active game
//
// The active game lives in a Selection, an atomically swapped cell. The
// Selection is created before providers are registered so that the
// provider API can read it without a package-level global:
//
//	sel := gamectx.NewSelection()
//	api := providerapi.NewCoreAPI(downloads, sel)
//	// ... register providers that hold api ...
//	ctx := gamectx.New(builder.Freeze(), gamectx.WithSelection(sel))
//
// Readers never block writers and no lock is held across provider I/O.
package gamectx
