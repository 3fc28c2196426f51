package download

import "github.com/voidmm/voidmm/internal/pubsub"

// Event names emitted by the worker.
const (
	EventStarted   = "download_started"
	EventProgress  = "download_progress"
	EventCompleted = "download_completed"
)

// EventSink receives worker events. Emit must not block for long; it runs on
// the worker goroutine.
type EventSink interface {
	Emit(name string, payload any)
}

// StartedPayload accompanies EventStarted.
type StartedPayload struct {
	ID       string `json:"id"`
	ModID    string `json:"mod_id"`
	Filename string `json:"filename"`
}

// ProgressPayload accompanies EventProgress.
type ProgressPayload struct {
	ID      string `json:"id"`
	ModID   string `json:"mod_id"`
	Percent uint8  `json:"percent"`
}

// CompletedPayload accompanies EventCompleted.
type CompletedPayload struct {
	ID    string `json:"id"`
	ModID string `json:"mod_id"`
	Path  string `json:"path"`
}

// BrokerSink fans events out through a pubsub broker. The event name becomes
// the pubsub event type. Slow subscribers lose events; the worker never waits.
type BrokerSink struct {
	pub pubsub.Publisher[any]
}

// NewBrokerSink publishes to pub.
func NewBrokerSink(pub pubsub.Publisher[any]) *BrokerSink {
	return &BrokerSink{pub: pub}
}

func (s *BrokerSink) Emit(name string, payload any) {
	s.pub.Publish(pubsub.EventType(name), payload)
}

func (s *Service) emit(name string, payload any) {
	if s.sink == nil {
		return
	}
	s.sink.Emit(name, payload)
}
