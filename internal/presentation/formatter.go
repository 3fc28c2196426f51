// Package presentation renders command output as indented JSON.
package presentation

import (
	"encoding/json"
	"io"

	"github.com/voidmm/voidmm/internal/application/gamectx"
	"github.com/voidmm/voidmm/internal/domain/mods"
)

// Formatter writes command results to an output stream.
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatGames writes the game listing. An empty registry prints [].
func (f *Formatter) FormatGames(games []gamectx.GameSummary) error {
	if games == nil {
		games = []gamectx.GameSummary{}
	}
	return f.encode(games)
}

// FormatProviders writes the provider listing.
func (f *Formatter) FormatProviders(providers []gamectx.ProviderSummary) error {
	if providers == nil {
		providers = []gamectx.ProviderSummary{}
	}
	return f.encode(providers)
}

// FormatActiveGame writes the active game, with null when none is active.
func (f *Formatter) FormatActiveGame(id string, active bool) error {
	dto := ActiveGameDTO{}
	if active {
		dto.GameID = &id
	}
	return f.encode(dto)
}

// FormatExtendedInfo writes one mod's metadata.
func (f *Formatter) FormatExtendedInfo(info mods.ModExtendedMetadata) error {
	return f.encode(info)
}

// FormatDiscovery writes a discovery page.
func (f *Formatter) FormatDiscovery(result mods.DiscoveryResult) error {
	if result.Mods == nil {
		result.Mods = []mods.GenericMod{}
	}
	return f.encode(result)
}

// FormatResults writes the outcome of a batch of downloads or installs.
func (f *Formatter) FormatResults(results []ResultDTO) error {
	if results == nil {
		results = []ResultDTO{}
	}
	return f.encode(results)
}
