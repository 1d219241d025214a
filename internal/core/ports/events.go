package ports

import "time"

// Event names emitted by the engines.
const (
	EventModelRegistered     = "model.registered"
	EventInferenceCompleted  = "inference.completed"
	EventEvaluationCompleted = "evaluation.completed"
	EventEvaluationFailed    = "evaluation.failed"
	EventBenchmarkCompleted  = "benchmark.completed"
)

// Event is a named observability record. Payload keys are event-specific.
type Event struct {
	Name      string
	Timestamp time.Time
	Payload   map[string]any
}

// EventSink receives engine events. Emit must never block the caller for
// long and must tolerate having no subscribers; absence of a sink is
// represented by a nil-safe no-op implementation, not by nil checks at
// every call site.
type EventSink interface {
	Emit(e Event)
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Emit(Event) {}
