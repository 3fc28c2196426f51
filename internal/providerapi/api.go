// Package providerapi is the narrow surface the core exposes to mod providers.
package providerapi

import (
	"context"
	"errors"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/log"
)

// API is what a mod provider may ask of the core.
type API interface {
	// QueueDownload hands url to the download orchestrator. It blocks while
	// the queue is full.
	QueueDownload(ctx context.Context, url string) (*download.Handle, error)

	// CurrentGameID returns the active game id, or "" when none is active.
	CurrentGameID() string
}

// Downloader is satisfied by *download.Service.
type Downloader interface {
	QueueDownload(ctx context.Context, url string, opts ...download.QueueOption) (*download.Handle, error)
}

// GameSelection is satisfied by *gamectx.Selection.
type GameSelection interface {
	CurrentGameID() string
}

// CoreAPI implements API over the download service and the active-game cell.
type CoreAPI struct {
	downloads Downloader
	selection GameSelection
}

var _ API = (*CoreAPI)(nil)

// NewCoreAPI creates the provider API.
func NewCoreAPI(downloads Downloader, selection GameSelection) *CoreAPI {
	return &CoreAPI{downloads: downloads, selection: selection}
}

func (a *CoreAPI) QueueDownload(ctx context.Context, url string) (*download.Handle, error) {
	return a.downloads.QueueDownload(ctx, url)
}

// QueueModDownload is QueueDownload with the mod id attached to the
// download's events.
func (a *CoreAPI) QueueModDownload(ctx context.Context, modID, url string) (*download.Handle, error) {
	return a.downloads.QueueDownload(ctx, url, download.WithModID(modID))
}

func (a *CoreAPI) CurrentGameID() string {
	if a.selection == nil {
		return ""
	}
	return a.selection.CurrentGameID()
}

// AwaitResult blocks until h reaches a terminal result. A ctx that ends
// first cancels the download and yields Cancelled. A stream that closes
// without a terminal value yields Failed.
func AwaitResult(ctx context.Context, h *download.Handle) mods.Result {
	res, err := h.Wait(ctx)
	switch {
	case err == nil:
		return res
	case errors.Is(err, download.ErrEndedUnexpectedly):
		log.Error(log.CatProvider, "Download stream closed early", "id", h.ID())
		return mods.Failed(download.ErrEndedUnexpectedly.Error())
	default:
		h.Cancel()
		return mods.Cancelled()
	}
}

// Download queues url and waits for its terminal result. Queue errors are
// reported as Failed, or Cancelled when ctx ended.
func Download(ctx context.Context, api API, url string) mods.Result {
	h, err := api.QueueDownload(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			return mods.Cancelled()
		}
		return mods.Failed(err.Error())
	}
	return AwaitResult(ctx, h)
}
