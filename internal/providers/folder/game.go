// Package folder implements a game provider that installs a mod by copying
// the downloaded archive into the game's mods directory.
package folder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/domain/registry"
	"github.com/voidmm/voidmm/internal/log"
)

// ErrNoModsDir is returned by InstallMod when the game has no mods directory.
var ErrNoModsDir = errors.New("game has no mods directory configured")

// Game is a game whose mods live in a single directory.
type Game struct {
	meta mods.GameMetadata
}

var _ registry.GameProvider = (*Game)(nil)

// New creates a folder game from its metadata. ModsDir may be empty, in
// which case the game can be listed but not installed into.
func New(meta mods.GameMetadata) *Game {
	return &Game{meta: meta}
}

func (g *Game) Metadata() mods.GameMetadata {
	return g.meta
}

// InstallMod copies the archive at path into the mods directory, replacing
// any file with the same name.
func (g *Game) InstallMod(ctx context.Context, path string) error {
	if g.meta.ModsDir == "" {
		return ErrNoModsDir
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(g.meta.ModsDir, 0o755); err != nil {
		return fmt.Errorf("create mods directory: %w", err)
	}

	dst := filepath.Join(g.meta.ModsDir, filepath.Base(path))
	if err := copyFile(ctx, path, dst); err != nil {
		return err
	}

	log.Info(log.CatProvider, "Mod installed", "game", g.meta.ID, "path", dst)
	return nil
}

func copyFile(ctx context.Context, src, dst string) (err error) {
	in, err := os.Open(src) // #nosec G304 -- src is a completed download path
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer in.Close()

	tmp := dst + ".partial"
	out, err := os.Create(tmp) // #nosec G304 -- dst is inside the configured mods directory
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(tmp)
		}
	}()

	if _, err = io.Copy(out, &ctxReader{ctx: ctx, r: in}); err != nil {
		return fmt.Errorf("copy archive: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err = os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
