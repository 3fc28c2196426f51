package download

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/voidmm/voidmm/internal/metrics"
	"github.com/voidmm/voidmm/internal/paths"
)

const (
	DefaultQueueCapacity = 100
	DefaultUserAgent     = "voidmm/dev (+https://github.com/voidmm/voidmm)"
	DefaultHeaderTimeout = 30 * time.Second

	// FallbackFilename is used when the response URL has no usable last path segment.
	FallbackFilename = "unknown.zip"

	chunkSize = 32 * 1024
)

// Config holds the orchestrator settings. Zero fields take defaults.
type Config struct {
	// Dir overrides the download directory.
	Dir string `mapstructure:"dir"`

	QueueCapacity int           `mapstructure:"queue_capacity"`
	UserAgent     string        `mapstructure:"user_agent"`
	HeaderTimeout time.Duration `mapstructure:"header_timeout"`
}

// DefaultConfig returns the defaults with Dir left empty.
func DefaultConfig() Config {
	return Config{
		QueueCapacity: DefaultQueueCapacity,
		UserAgent:     DefaultUserAgent,
		HeaderTimeout: DefaultHeaderTimeout,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.QueueCapacity <= 0 {
		c.QueueCapacity = d.QueueCapacity
	}
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.HeaderTimeout <= 0 {
		c.HeaderTimeout = d.HeaderTimeout
	}
	return c
}

// Option configures a Service.
type Option func(*Service)

// WithHTTPClient replaces the HTTP client. The client must not set an
// overall Timeout; long downloads are bounded only by cancellation.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.client = c
		}
	}
}

// WithEventSink receives download_started, download_progress and
// download_completed events.
func WithEventSink(sink EventSink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

// WithMetrics records queue and transfer metrics.
func WithMetrics(m *metrics.Downloads) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer records a span per processed download.
func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithDirResolver overrides how the download directory is found. It is
// consulted once per download, so a failing resolver fails only that item.
func WithDirResolver(fn func() (string, error)) Option {
	return func(s *Service) {
		if fn != nil {
			s.dirFn = fn
		}
	}
}

func defaultHTTPClient(headerTimeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = headerTimeout
	return &http.Client{Transport: transport}
}

func defaultDirResolver(cfg Config) func() (string, error) {
	return func() (string, error) {
		return paths.ResolveDir(cfg.Dir, paths.DownloadsDir)
	}
}

var noopTracer = noop.NewTracerProvider().Tracer("download")
