// Package direct is the built-in mod provider for plain download links.
// A mod id is the http(s) URL of the archive.
package direct

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/domain/registry"
	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/providerapi"
)

// ID is the registry identifier of the provider.
const ID = "direct"

type modDownloader interface {
	QueueModDownload(ctx context.Context, modID, url string) (*download.Handle, error)
}

// Provider downloads mods straight from their URL.
type Provider struct {
	api    providerapi.API
	client *http.Client
}

var _ registry.ModProvider = (*Provider)(nil)

// New creates the provider. A nil client uses http.DefaultClient for
// metadata lookups.
func New(api providerapi.API, client *http.Client) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{api: api, client: client}
}

func (p *Provider) Register() string {
	return ID
}

func (p *Provider) Configure() mods.Features {
	return mods.Features{ExtendedInfo: true, Downloads: true}
}

func parseModURL(modID string) (*url.URL, error) {
	u, err := url.Parse(modID)
	if err != nil {
		return nil, fmt.Errorf("invalid mod url %q: %w", modID, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid mod url %q: scheme must be http or https", modID)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid mod url %q: missing host", modID)
	}
	return u, nil
}

// DownloadMod queues modID and blocks until the download finishes.
func (p *Provider) DownloadMod(ctx context.Context, modID string) mods.Result {
	u, err := parseModURL(modID)
	if err != nil {
		return mods.Failed(err.Error())
	}

	var h *download.Handle
	if md, ok := p.api.(modDownloader); ok {
		h, err = md.QueueModDownload(ctx, modID, u.String())
	} else {
		h, err = p.api.QueueDownload(ctx, u.String())
	}
	if err != nil {
		if ctx.Err() != nil {
			return mods.Cancelled()
		}
		return mods.Failed(err.Error())
	}

	log.Debug(log.CatProvider, "Direct download queued", "game", p.api.CurrentGameID(), "url", u.String())
	return providerapi.AwaitResult(ctx, h)
}

// ExtendedInfo describes the archive behind modID using a HEAD request.
func (p *Provider) ExtendedInfo(ctx context.Context, _ string, modID string) (mods.ModExtendedMetadata, error) {
	u, err := parseModURL(modID)
	if err != nil {
		return mods.ModExtendedMetadata{}, &mods.DiscoveryError{Kind: mods.DiscoveryInvalidQuery, Detail: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u.String(), nil)
	if err != nil {
		return mods.ModExtendedMetadata{}, &mods.DiscoveryError{Kind: mods.DiscoveryInternal, Detail: err.Error()}
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return mods.ModExtendedMetadata{}, &mods.DiscoveryError{Kind: mods.DiscoveryNetwork, Detail: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mods.ModExtendedMetadata{}, &mods.DiscoveryError{
			Kind:   mods.DiscoveryNetwork,
			Detail: fmt.Sprintf("HEAD %s: %s", u.Redacted(), resp.Status),
		}
	}

	name := download.FilenameFromURL(resp.Request.URL)
	info := mods.ModExtendedMetadata{
		Mod:         mods.GenericMod{ID: modID, Name: name},
		FileName:    name,
		DownloadURL: resp.Request.URL.String(),
	}
	if resp.ContentLength > 0 {
		info.FileSize = resp.ContentLength
	}
	return info, nil
}

// Discover is not supported; direct links have no catalogue.
func (p *Provider) Discover(context.Context, mods.DiscoveryQuery) (mods.DiscoveryResult, error) {
	return mods.DiscoveryResult{}, &mods.DiscoveryError{Kind: mods.DiscoveryProviderUnavailable}
}
