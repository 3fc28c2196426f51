package providerapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/voidmm/voidmm/internal/application/gamectx"
	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/domain/registry"
	"github.com/voidmm/voidmm/internal/download"
)

type nopGame struct{}

func (nopGame) Metadata() mods.GameMetadata              { return mods.GameMetadata{ID: "payday-2"} }
func (nopGame) InstallMod(context.Context, string) error { return nil }

func newService(t *testing.T) *download.Service {
	t.Helper()
	svc := download.NewService(download.Config{Dir: filepath.Join(t.TempDir(), "dl")})
	t.Cleanup(svc.Stop)
	return svc
}

func TestCoreAPI_CurrentGameIDFollowsActivation(t *testing.T) {
	sel := gamectx.NewSelection()
	api := NewCoreAPI(newService(t), sel)

	b := registry.NewBuilder()
	require.NoError(t, b.RegisterGame("payday-2", registry.CoreSource(), nopGame{}, "mws"))
	ctx := gamectx.New(b.Freeze(), gamectx.WithSelection(sel))

	require.Equal(t, "", api.CurrentGameID())
	require.NoError(t, ctx.ActivateGame("payday-2"))
	require.Equal(t, "payday-2", api.CurrentGameID())
}

func TestCoreAPI_NilSelection(t *testing.T) {
	api := NewCoreAPI(newService(t), nil)
	require.Equal(t, "", api.CurrentGameID())
}

func TestDownload_Completed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("zip"))
	}))
	defer srv.Close()

	svc := newService(t)
	svc.Start()
	api := NewCoreAPI(svc, gamectx.NewSelection())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	res := Download(ctx, api, srv.URL+"/hud.zip")

	require.Equal(t, mods.KindCompleted, res.Kind)
	require.Equal(t, "hud.zip", filepath.Base(res.Path))
}

func TestQueueModDownload_AttachesModID(t *testing.T) {
	svc := newService(t)
	api := NewCoreAPI(svc, nil)

	h, err := api.QueueModDownload(context.Background(), "42", "http://127.0.0.1:1/x.zip")

	require.NoError(t, err)
	require.Equal(t, "42", h.ModID())
}

func TestAwaitResult_ContextEndCancels(t *testing.T) {
	svc := newService(t)
	api := NewCoreAPI(svc, nil)
	h, err := api.QueueDownload(context.Background(), "http://127.0.0.1:1/never.zip")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.Equal(t, mods.Cancelled(), AwaitResult(ctx, h))

	svc.Start()
	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	res, err := h.Wait(waitCtx)
	require.NoError(t, err)
	require.Equal(t, mods.Cancelled(), res)
}

func TestDownload_QueueErrorAfterStop(t *testing.T) {
	svc := newService(t)
	svc.Stop()
	api := NewCoreAPI(svc, nil)

	res := Download(context.Background(), api, "http://127.0.0.1:1/x.zip")

	require.Equal(t, mods.Failed(download.ErrStopped.Error()), res)
}
