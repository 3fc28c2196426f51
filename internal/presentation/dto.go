package presentation

import "github.com/voidmm/voidmm/internal/domain/mods"

// ActiveGameDTO is the output of the active command.
type ActiveGameDTO struct {
	GameID *string `json:"game_id"`
}

// ResultDTO reports the terminal state of one download or install.
type ResultDTO struct {
	ID     string `json:"id,omitempty"`
	ModID  string `json:"mod_id,omitempty"`
	URL    string `json:"url,omitempty"`
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// FromResult converts a download result. Percent is dropped; only terminal
// results are reported.
func FromResult(id, modID, url string, r mods.Result) ResultDTO {
	dto := ResultDTO{
		ID:     id,
		ModID:  modID,
		URL:    url,
		Status: StatusName(r.Kind),
	}
	switch r.Kind {
	case mods.KindCompleted:
		dto.Path = r.Path
	case mods.KindFailed:
		dto.Reason = r.Reason
	}
	return dto
}

// StatusName maps a result kind to its lowercase output name.
func StatusName(k mods.ResultKind) string {
	switch k {
	case mods.KindCompleted:
		return "completed"
	case mods.KindFailed:
		return "failed"
	case mods.KindCancelled:
		return "cancelled"
	default:
		return "in_progress"
	}
}
