package mods

// GameMetadata describes a game for display purposes.
type GameMetadata struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ShortName   string `json:"short_name,omitempty"`
	IconURL     string `json:"icon_url,omitempty"`
	ModsDir     string `json:"mods_dir,omitempty"`
}

// Features lists the optional capabilities a mod provider supports.
type Features struct {
	Discovery    bool `json:"discovery"`
	ExtendedInfo bool `json:"extended_info"`
	Downloads    bool `json:"downloads"`
}

// GenericMod is the provider-agnostic summary of a mod listing.
type GenericMod struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Summary      string   `json:"summary,omitempty"`
	Author       string   `json:"author,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	Downloads    uint64   `json:"downloads"`
	Likes        uint64   `json:"likes"`
	Views        uint64   `json:"views"`
	Tags         []string `json:"tags,omitempty"`
}

// ModExtendedMetadata is the detail view of a single mod, usually fetched
// from the provider's remote API.
type ModExtendedMetadata struct {
	Mod         GenericMod `json:"mod"`
	Description string     `json:"description,omitempty"`
	Version     string     `json:"version,omitempty"`
	FileName    string     `json:"file_name,omitempty"`
	FileSize    int64      `json:"file_size,omitempty"`
	DownloadURL string     `json:"download_url,omitempty"`
}
