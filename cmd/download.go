package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/download"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/presentation"
	"github.com/voidmm/voidmm/internal/providerapi"
	"github.com/voidmm/voidmm/internal/pubsub"
	"github.com/voidmm/voidmm/internal/ui/progress"
)

var downloadPlain bool

var downloadCmd = &cobra.Command{
	Use:   "download <url>...",
	Short: "Download files through the download queue",
	Long: `Queue one or more URLs and wait for them to finish. Downloads run one at
a time in the order given. Progress is shown on stderr; the results are
printed to stdout as JSON.

Examples:
  voidmm download https://example.com/mods/hud.zip
  voidmm download --plain https://a.example/1.zip https://b.example/2.zip`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDownload,
}

var installGame string

var installCmd = &cobra.Command{
	Use:   "install <mod-id>",
	Short: "Download a mod with the game's provider and install it",
	Long: `Download a mod through the required provider of the game and, when the
download completes, install it into the game. Uses the active game unless
--game is given.

Example:
  voidmm install https://example.com/mods/hud.zip --game payday-2`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	downloadCmd.Flags().BoolVar(&downloadPlain, "plain", false, "print plain progress lines instead of the interactive view")
	installCmd.Flags().StringVarP(&installGame, "game", "g", "", "game to install into (default: active game)")
	rootCmd.AddCommand(downloadCmd, installCmd)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(cfg, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	stderr := cmd.ErrOrStderr()
	interactive := !downloadPlain && isTerminal(stderr)

	// The view's event subscription must exist before the worker starts.
	viewCtx, cancelView := context.WithCancel(ctx)
	defer cancelView()
	var viewEvents *pubsub.ContinuousListener[any]
	if interactive {
		viewEvents = pubsub.NewContinuousListener(viewCtx, a.events)
	}
	if err := a.startDownloads(cfg.Metrics.Listen); err != nil {
		return err
	}

	handles := make([]*download.Handle, 0, len(args))
	for _, u := range args {
		h, err := a.downloads.QueueDownload(ctx, u)
		if err != nil {
			for _, queued := range handles {
				queued.Cancel()
			}
			return fmt.Errorf("queueing %s: %w", u, err)
		}
		handles = append(handles, h)
	}
	log.Info(log.CatDownload, "Downloads queued", "count", len(handles), "waiting", a.downloads.Pending())

	var results []mods.Result
	if !interactive {
		results = awaitAll(ctx, handles, plainReporter(stderr))
	} else {
		if err := runProgressView(viewCtx, stderr, handles, viewEvents); err != nil {
			log.ErrorErr(log.CatDownload, "Progress view failed", err)
		}
		cancelView()
		results = awaitAll(ctx, handles, nil)
	}

	dtos := make([]presentation.ResultDTO, len(handles))
	for i, h := range handles {
		dtos[i] = presentation.FromResult(h.ID(), "", h.URL(), results[i])
	}
	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatResults(dtos); err != nil {
		return err
	}
	return summarize(results)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// runProgressView runs the interactive view until every download finishes
// or ctx ends. events must already be subscribed.
func runProgressView(ctx context.Context, out io.Writer, handles []*download.Handle, events *pubsub.ContinuousListener[any]) error {
	m := progress.New(ctx, handles,
		progress.WithEvents(events),
		progress.WithLogs(log.NewListener(ctx)),
	)
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// plainReporter prints one line per terminal result.
func plainReporter(w io.Writer) func(*download.Handle, mods.Result) {
	var mu sync.Mutex
	return func(h *download.Handle, r mods.Result) {
		mu.Lock()
		defer mu.Unlock()
		_, _ = fmt.Fprintln(w, progress.PlainLine(h.URL(), r))
	}
}

// awaitAll waits for every handle. onDone, when set, is called as each one
// finishes.
func awaitAll(ctx context.Context, handles []*download.Handle, onDone func(*download.Handle, mods.Result)) []mods.Result {
	results := make([]mods.Result, len(handles))
	var g errgroup.Group
	for i, h := range handles {
		g.Go(func() error {
			results[i] = providerapi.AwaitResult(ctx, h)
			if onDone != nil {
				onDone(h, results[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// summarize turns failed or cancelled results into a command error.
func summarize(results []mods.Result) error {
	var failed, cancelled int
	for _, r := range results {
		switch r.Kind {
		case mods.KindFailed:
			failed++
		case mods.KindCancelled:
			cancelled++
		}
	}
	if failed == 0 && cancelled == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d downloads did not complete (%d failed, %d cancelled)",
		failed+cancelled, len(results), failed, cancelled)
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := newApp(cfg, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	if installGame != "" {
		if err := a.games.ActivateGame(installGame); err != nil {
			return err
		}
	}
	gameID, ok := a.games.ActiveGame()
	if !ok {
		return fmt.Errorf("no active game; run 'voidmm activate <game>' or pass --game")
	}

	provider, err := a.games.RequiredProvider(gameID)
	if err != nil {
		return err
	}
	game, err := a.games.GameProvider(gameID)
	if err != nil {
		return err
	}

	eventsCtx, cancelEvents := context.WithCancel(ctx)
	defer cancelEvents()
	go printEvents(cmd.ErrOrStderr(), a.events.Subscribe(eventsCtx))
	if err := a.startDownloads(cfg.Metrics.Listen); err != nil {
		return err
	}

	modID := args[0]
	result := provider.DownloadMod(ctx, modID)
	if result.Kind == mods.KindCompleted {
		if err := game.InstallMod(ctx, result.Path); err != nil {
			result = mods.Failed(fmt.Sprintf("install: %v", err))
		}
	}

	dto := presentation.FromResult("", modID, "", result)
	if err := presentation.NewFormatter(cmd.OutOrStdout()).FormatResults([]presentation.ResultDTO{dto}); err != nil {
		return err
	}
	return summarize([]mods.Result{result})
}

// printEvents writes download lifecycle events as plain lines until events
// is closed.
func printEvents(w io.Writer, events <-chan pubsub.Event[any]) {
	for ev := range events {
		switch p := ev.Payload.(type) {
		case download.StartedPayload:
			_, _ = fmt.Fprintf(w, "downloading %s\n", p.Filename)
		case download.CompletedPayload:
			_, _ = fmt.Fprintf(w, "downloaded  %s\n", p.Path)
		}
	}
}
