package download

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/pubsub"
)

// ErrEndedUnexpectedly is returned by Handle.Wait when the status stream
// closed without a terminal value.
var ErrEndedUnexpectedly = errors.New("download task ended unexpectedly")

// queuedDownload is one accepted request. It is consumed exactly once, either
// by the worker or by the drain in Stop.
type queuedDownload struct {
	id       string
	modID    string
	url      string
	queuedAt time.Time
	link     trace.Link

	watch  *pubsub.Watch[mods.Result]
	ctx    context.Context
	cancel context.CancelFunc
}

func (q *queuedDownload) publish(r mods.Result) {
	q.watch.Send(r)
}

// finish publishes the terminal value and closes the stream.
func (q *queuedDownload) finish(r mods.Result) {
	q.watch.Send(r)
	q.watch.Close()
	q.cancel()
}

// Handle observes one queued download.
//
// The status is a single overwrite slot, not a queue: readers see the latest
// value and may miss intermediate percentages. The terminal value is always
// observable.
type Handle struct {
	item *queuedDownload
	rcv  *pubsub.Receiver[mods.Result]
}

func newHandle(item *queuedDownload) *Handle {
	return &Handle{item: item, rcv: item.watch.Subscribe()}
}

// ID is the unique identifier of this download.
func (h *Handle) ID() string {
	return h.item.id
}

// ModID is the mod id attached with WithModID, or a generated one.
func (h *Handle) ModID() string {
	return h.item.modID
}

// URL is the requested URL.
func (h *Handle) URL() string {
	return h.item.url
}

// Status returns the latest result.
func (h *Handle) Status() mods.Result {
	return h.item.watch.Load()
}

// Changed blocks until the status changes after the last value this handle
// observed through Changed. It returns pubsub.ErrWatchClosed once the final
// value has been observed. Changed is meant for a single observer; use
// Subscribe for more.
func (h *Handle) Changed(ctx context.Context) error {
	return h.rcv.Changed(ctx)
}

// Subscribe returns an independent receiver over the status stream.
func (h *Handle) Subscribe() *pubsub.Receiver[mods.Result] {
	return h.item.watch.Subscribe()
}

// Wait blocks until a terminal result is published or ctx ends. It is safe to
// call from several goroutines.
func (h *Handle) Wait(ctx context.Context) (mods.Result, error) {
	rcv := h.item.watch.Subscribe()
	for {
		current := h.item.watch.Load()
		if current.IsTerminal() {
			return current, nil
		}
		if err := rcv.Changed(ctx); err != nil {
			if errors.Is(err, pubsub.ErrWatchClosed) {
				if final := h.item.watch.Load(); final.IsTerminal() {
					return final, nil
				}
				return h.item.watch.Load(), ErrEndedUnexpectedly
			}
			return current, err
		}
	}
}

// Cancel asks the worker to abandon this download. A pending item is
// reported Cancelled when the worker reaches it; an active transfer stops at
// the next chunk and its partial file is removed. Cancel after a terminal
// result has no effect.
func (h *Handle) Cancel() {
	h.item.cancel()
}

// Done reports whether a terminal result has been published.
func (h *Handle) Done() bool {
	return h.item.watch.Closed()
}
