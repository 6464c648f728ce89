package app

// Event names pushed to the client outside the request/response
// cycle.
const (
	EventParseProgress = "parse_progress"
	EventSearchBatch   = "search_batch"
	EventSearchDone    = "search_done"
)

// EventSink receives asynchronous notifications destined for the
// client. Implementations must be safe for concurrent use.
type EventSink interface {
	Emit(event string, payload any)
}

// SinkFunc adapts a function to the EventSink interface.
type SinkFunc func(event string, payload any)

func (f SinkFunc) Emit(event string, payload any) { f(event, payload) }

// NullSink discards events.
type NullSink struct{}

func (NullSink) Emit(string, any) {}
