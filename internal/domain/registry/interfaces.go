package registry

import (
	"context"

	"github.com/voidmm/voidmm/internal/domain/mods"
)

// ModProvider is a pluggable integration with one modding site.
// Implementations are shared between the registry and anything that needs to
// call them, so they must be safe for concurrent use.
type ModProvider interface {
	// Register returns the identifier the provider wants to be registered under.
	Register() string

	// Configure reports the optional features the provider supports.
	Configure() mods.Features

	// DownloadMod fetches the mod and blocks until the download reaches a
	// terminal state.
	DownloadMod(ctx context.Context, modID string) mods.Result

	// ExtendedInfo returns detailed metadata for one mod of the given game.
	ExtendedInfo(ctx context.Context, gameID, modID string) (mods.ModExtendedMetadata, error)

	// Discover returns a page of mods matching the query.
	Discover(ctx context.Context, query mods.DiscoveryQuery) (mods.DiscoveryResult, error)
}

// GameProvider is a pluggable integration with one game's install process.
type GameProvider interface {
	// Metadata describes the game for display.
	Metadata() mods.GameMetadata

	// InstallMod installs the downloaded archive at path.
	InstallMod(ctx context.Context, path string) error
}
