package mods

import "fmt"

// SortOrder selects how discovery results are ordered.
type SortOrder string

const (
	SortRelevance SortOrder = "relevance"
	SortDownloads SortOrder = "downloads"
	SortViews     SortOrder = "views"
	SortLikes     SortOrder = "likes"
	SortNewest    SortOrder = "newest"
	SortUpdated   SortOrder = "updated"
)

// DiscoveryQuery asks a provider for a page of mods for one game.
type DiscoveryQuery struct {
	GameID   string    `json:"game_id"`
	Page     int       `json:"page,omitempty"`
	PageSize int       `json:"page_size,omitempty"`
	Search   string    `json:"search,omitempty"`
	Tags     []string  `json:"tags,omitempty"`
	Sort     SortOrder `json:"sort,omitempty"`
}

// PaginationMeta describes the page returned by a provider. Totals are zero
// when the provider does not know them.
type PaginationMeta struct {
	Current    int `json:"current"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages,omitempty"`
	TotalItems int `json:"total_items,omitempty"`
}

// Tag is a provider-defined mod category.
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DiscoveryMeta accompanies a DiscoveryResult.
type DiscoveryMeta struct {
	ProviderID    string         `json:"provider_id"`
	GameID        string         `json:"game_id"`
	Pagination    PaginationMeta `json:"pagination"`
	AppliedTags   []string       `json:"applied_tags"`
	AvailableTags []Tag          `json:"available_tags,omitempty"`
}

// DiscoveryResult is a page of mods.
type DiscoveryResult struct {
	Meta DiscoveryMeta `json:"meta"`
	Mods []GenericMod  `json:"mods"`
}

// DiscoveryErrorKind classifies discovery failures.
type DiscoveryErrorKind int

const (
	DiscoveryNetwork DiscoveryErrorKind = iota
	DiscoveryInvalidQuery
	DiscoveryProviderUnavailable
	DiscoveryInternal
)

// DiscoveryError is returned by providers from Discover and ExtendedInfo.
type DiscoveryError struct {
	Kind   DiscoveryErrorKind
	Detail string
}

func (e *DiscoveryError) Error() string {
	switch e.Kind {
	case DiscoveryNetwork:
		return fmt.Sprintf("network error: %s", e.Detail)
	case DiscoveryInvalidQuery:
		return fmt.Sprintf("invalid query: %s", e.Detail)
	case DiscoveryProviderUnavailable:
		return "the required provider is unavailable"
	default:
		return fmt.Sprintf("internal error: %s", e.Detail)
	}
}
