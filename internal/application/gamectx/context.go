package gamectx

import (
	"context"
	"fmt"
	"time"

	"github.com/voidmm/voidmm/internal/cachemanager"
	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/domain/registry"
	"github.com/voidmm/voidmm/internal/log"
)

// DefaultExtendedInfoTTL is how long successful ExtendedInfo results are kept.
const DefaultExtendedInfoTTL = 5 * time.Minute

type extendedInfoRequest struct {
	provider registry.ModProvider
	gameID   string
	modID    string
}

// Context is the frozen registry plus the active-game cell.
type Context struct {
	reg       *registry.Registry
	selection *Selection
	infoCache *cachemanager.ReadThroughCache[string, mods.ModExtendedMetadata, extendedInfoRequest]
	infoTTL   time.Duration
}

// Option configures a Context.
type Option func(*options)

type options struct {
	selection *Selection
	cache     cachemanager.CacheManager[string, mods.ModExtendedMetadata]
	ttl       time.Duration
}

// WithSelection shares an existing active-game cell with the Context.
func WithSelection(sel *Selection) Option {
	return func(o *options) {
		o.selection = sel
	}
}

// WithExtendedInfoCache caches successful ExtendedInfo lookups for ttl.
// A non-positive ttl uses DefaultExtendedInfoTTL.
func WithExtendedInfoCache(cache cachemanager.CacheManager[string, mods.ModExtendedMetadata], ttl time.Duration) Option {
	return func(o *options) {
		o.cache = cache
		o.ttl = ttl
	}
}

// New creates a Context over reg. Without WithSelection no game is active.
func New(reg *registry.Registry, opts ...Option) *Context {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.selection == nil {
		o.selection = NewSelection()
	}
	if o.ttl <= 0 {
		o.ttl = DefaultExtendedInfoTTL
	}

	return &Context{
		reg:       reg,
		selection: o.selection,
		infoCache: cachemanager.NewReadThroughCache(o.cache, fetchExtendedInfo, false),
		infoTTL:   o.ttl,
	}
}

func fetchExtendedInfo(ctx context.Context, req extendedInfoRequest) (mods.ModExtendedMetadata, error) {
	return req.provider.ExtendedInfo(ctx, req.gameID, req.modID)
}

// Selection returns the active-game cell.
func (c *Context) Selection() *Selection {
	return c.selection
}

// ActivateGame makes id the active game. On error the selection is unchanged.
func (c *Context) ActivateGame(id string) error {
	entry, err := c.reg.Game(id)
	if err != nil {
		return err
	}
	c.selection.store(entry.ID)
	log.Info(log.CatContext, "Active game changed", "game", entry.ID)
	return nil
}

// ActiveGame returns the active game id.
func (c *Context) ActiveGame() (string, bool) {
	return c.selection.Current()
}

// ActiveGameRequiredProvider returns the provider id required by the active
// game. It reports false when no game is active. The provider itself may not
// be registered.
func (c *Context) ActiveGameRequiredProvider() (string, bool) {
	id, ok := c.selection.Current()
	if !ok {
		return "", false
	}
	entry, err := c.reg.Game(id)
	if err != nil {
		return "", false
	}
	return entry.RequiredProviderID, true
}

// ModProvider returns the provider registered under id.
func (c *Context) ModProvider(id string) (registry.ModProvider, error) {
	entry, err := c.reg.Provider(id)
	if err != nil {
		return nil, err
	}
	return entry.Provider, nil
}

// GameProvider returns the game registered under id.
func (c *Context) GameProvider(id string) (registry.GameProvider, error) {
	entry, err := c.reg.Game(id)
	if err != nil {
		return nil, err
	}
	return entry.Game, nil
}

// Metadata returns the display metadata of game id.
func (c *Context) Metadata(id string) (mods.GameMetadata, error) {
	entry, err := c.reg.Game(id)
	if err != nil {
		return mods.GameMetadata{}, err
	}
	return entry.Game.Metadata(), nil
}

// RequiredProvider resolves the provider a game depends on. It fails with
// KindNotFound when the game or its required provider is not registered.
func (c *Context) RequiredProvider(gameID string) (registry.ModProvider, error) {
	entry, err := c.reg.Game(gameID)
	if err != nil {
		return nil, err
	}
	provider, err := c.reg.Provider(entry.RequiredProviderID)
	if err != nil {
		return nil, registry.NotFoundError(entry.RequiredProviderID,
			fmt.Sprintf("game %s requires provider %s which is not registered", entry.ID, entry.RequiredProviderID))
	}
	return provider.Provider, nil
}

func (c *Context) activeProvider() (string, registry.ModProvider, error) {
	gameID, ok := c.selection.Current()
	if !ok {
		return "", nil, registry.NotFoundError("", "no active game")
	}
	provider, err := c.RequiredProvider(gameID)
	if err != nil {
		return "", nil, err
	}
	return gameID, provider, nil
}

// ExtendedInfo asks the active game's required provider for details about
// modID. Provider errors are returned unchanged. Successful results are cached
// per game and mod.
func (c *Context) ExtendedInfo(ctx context.Context, modID string) (mods.ModExtendedMetadata, error) {
	gameID, provider, err := c.activeProvider()
	if err != nil {
		return mods.ModExtendedMetadata{}, err
	}

	key := gameID + "/" + modID
	return c.infoCache.Get(ctx, key, extendedInfoRequest{provider: provider, gameID: gameID, modID: modID}, c.infoTTL)
}

// Discover asks the active game's required provider for a page of mods.
// The query's GameID is always set to the active game.
func (c *Context) Discover(ctx context.Context, query mods.DiscoveryQuery) (mods.DiscoveryResult, error) {
	gameID, provider, err := c.activeProvider()
	if err != nil {
		return mods.DiscoveryResult{}, err
	}
	query.GameID = gameID
	if query.Page <= 0 {
		query.Page = 1
	}

	log.Debug(log.CatContext, "Discover", "game", gameID, "page", query.Page, "search", query.Search)
	return provider.Discover(ctx, query)
}
