package download

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/voidmm/voidmm/internal/domain/mods"
	"github.com/voidmm/voidmm/internal/log"
	"github.com/voidmm/voidmm/internal/metrics"
	"github.com/voidmm/voidmm/internal/pubsub"
)

// ErrStopped is returned by QueueDownload after Stop.
var ErrStopped = errors.New("download service stopped")

// Service is the download orchestrator.
type Service struct {
	cfg     Config
	client  *http.Client
	sink    EventSink
	metrics *metrics.Downloads
	tracer  trace.Tracer
	dirFn   func() (string, error)

	queue chan *queuedDownload

	// baseCtx parents every item context so Stop can cancel the transfer in flight.
	baseCtx    context.Context
	cancelAll  context.CancelFunc
	done       chan struct{}
	workerDone chan struct{}

	// mu is held for reading by enqueuers and for writing by Stop, so no item
	// can slip into the queue after the final drain.
	mu        sync.RWMutex
	stopped   bool
	startOnce sync.Once
	stopOnce  sync.Once
	started   atomic.Bool
}

// QueueOption configures a single QueueDownload call.
type QueueOption func(*queuedDownload)

// WithModID tags the download with the mod it belongs to. Events carry it.
func WithModID(id string) QueueOption {
	return func(q *queuedDownload) {
		if id != "" {
			q.modID = id
		}
	}
}

// NewService creates a stopped service. Call Start to run the worker.
func NewService(cfg Config, opts ...Option) *Service {
	cfg = cfg.withDefaults()
	baseCtx, cancel := context.WithCancel(context.Background())

	s := &Service{
		cfg:        cfg,
		client:     defaultHTTPClient(cfg.HeaderTimeout),
		tracer:     noopTracer,
		dirFn:      defaultDirResolver(cfg),
		queue:      make(chan *queuedDownload, cfg.QueueCapacity),
		baseCtx:    baseCtx,
		cancelAll:  cancel,
		done:       make(chan struct{}),
		workerDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the worker goroutine. Later calls do nothing.
func (s *Service) Start() {
	s.startOnce.Do(func() {
		s.started.Store(true)
		go s.run()
		log.Info(log.CatDownload, "Download worker started", "capacity", s.cfg.QueueCapacity)
	})
}

// Stop refuses new work, cancels the transfer in flight, reports every
// pending item as Cancelled and waits for the worker to exit.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.cancelAll()

		if s.started.Load() {
			<-s.workerDone
		}

		s.mu.Lock()
		s.stopped = true
		drained := s.drain()
		s.mu.Unlock()

		log.Info(log.CatDownload, "Download worker stopped", "drained", drained)
	})
}

// QueueDownload accepts url for download and returns its handle. It blocks
// while the queue is full. The only errors are ctx ending first and
// ErrStopped; transfer failures are reported through the handle.
func (s *Service) QueueDownload(ctx context.Context, url string, opts ...QueueOption) (*Handle, error) {
	id := uuid.NewString()
	itemCtx, cancel := context.WithCancel(s.baseCtx)
	item := &queuedDownload{
		id:       id,
		modID:    id,
		url:      url,
		queuedAt: time.Now(),
		link:     trace.LinkFromContext(ctx),
		watch:    pubsub.NewWatch(mods.InProgress(0)),
		ctx:      itemCtx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(item)
	}
	h := newHandle(item)

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.stopped {
		cancel()
		return nil, ErrStopped
	}

	select {
	case <-s.done:
		cancel()
		return nil, ErrStopped
	default:
	}

	select {
	case s.queue <- item:
		s.metrics.Queued()
		log.Debug(log.CatDownload, "Download queued", "id", id, "mod_id", item.modID, "url", url)
		return h, nil
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	case <-s.done:
		cancel()
		return nil, ErrStopped
	}
}

// Pending returns the number of accepted items the worker has not started.
func (s *Service) Pending() int {
	return len(s.queue)
}

// Capacity returns the queue capacity.
func (s *Service) Capacity() int {
	return cap(s.queue)
}

func (s *Service) drain() int {
	n := 0
	for {
		select {
		case item := <-s.queue:
			item.finish(mods.Cancelled())
			s.metrics.Drained()
			n++
		default:
			return n
		}
	}
}
