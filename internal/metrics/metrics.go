// Package metrics defines the Prometheus collectors for the download
// orchestrator.
//
// Collectors are registered against a caller-supplied registerer so tests and
// multiple services in one process do not collide on the default registry.
// The CLI registers them, with the Go and process collectors, on its own
// prometheus.NewRegistry and serves that registry with promhttp when
// --metrics-addr is set on a command that downloads:
//
//	GET http://<metrics-addr>/metrics
//
// All methods are safe to call on a nil *Downloads.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "voidmm"

// Outcome label values for finished downloads.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Downloads groups the download orchestrator collectors.
//
// QueuedTotal counts accepted QueueDownload calls. FinishedTotal is labelled
// by outcome. QueueDepth is the number of accepted items the worker has not
// started yet. Duration covers the worker's time on one item, from dequeue to
// terminal result.
type Downloads struct {
	QueuedTotal   prometheus.Counter
	FinishedTotal *prometheus.CounterVec
	BytesTotal    prometheus.Counter
	QueueDepth    prometheus.Gauge
	InFlight      prometheus.Gauge
	Duration      prometheus.Histogram
}

// NewDownloads creates and registers the collectors on reg. A nil reg creates
// unregistered collectors.
func NewDownloads(reg prometheus.Registerer) *Downloads {
	f := promauto.With(reg)
	return &Downloads{
		QueuedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_queued_total",
			Help:      "Total number of downloads accepted into the queue.",
		}),
		FinishedTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloads_finished_total",
			Help:      "Total number of downloads that reached a terminal state, by outcome.",
		}, []string{"outcome"}),
		BytesTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_bytes_total",
			Help:      "Total number of bytes written to disk by the download worker.",
		}),
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "download_queue_depth",
			Help:      "Number of queued downloads not yet picked up by the worker.",
		}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "downloads_in_flight",
			Help:      "Number of downloads currently being transferred (0 or 1).",
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_duration_seconds",
			Help:      "Time the worker spent on a single download.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}),
	}
}

// Queued records an accepted item.
func (d *Downloads) Queued() {
	if d == nil {
		return
	}
	d.QueuedTotal.Inc()
	d.QueueDepth.Inc()
}

// Started records the worker dequeuing an item.
func (d *Downloads) Started() {
	if d == nil {
		return
	}
	d.QueueDepth.Dec()
	d.InFlight.Inc()
}

// Bytes adds n transferred bytes.
func (d *Downloads) Bytes(n int) {
	if d == nil || n <= 0 {
		return
	}
	d.BytesTotal.Add(float64(n))
}

// Finished records a terminal outcome for an item that was Started.
func (d *Downloads) Finished(outcome string, elapsed time.Duration) {
	if d == nil {
		return
	}
	d.InFlight.Dec()
	d.FinishedTotal.WithLabelValues(outcome).Inc()
	d.Duration.Observe(elapsed.Seconds())
}

// Drained records a queued item cancelled without ever being started.
func (d *Downloads) Drained() {
	if d == nil {
		return
	}
	d.QueueDepth.Dec()
	d.FinishedTotal.WithLabelValues(OutcomeCancelled).Inc()
}
