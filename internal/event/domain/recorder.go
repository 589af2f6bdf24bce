package domain

// Recorder is the event-buffer capability aggregates compose. A handler
// mutates the aggregate, the aggregate records events, and the handler
// drains them with PullEvents exactly once after persistence succeeds.
//
// The buffer belongs to one use-case invocation: a single goroutine
// owns the aggregate between Record and PullEvents, so no locking is
// needed and the type stays copyable for by-value domain structs.
type Recorder struct {
	events []Event
}

// Record appends an event to the buffer in occurrence order.
func (r *Recorder) Record(event Event) {
	r.events = append(r.events, event)
}

// PullEvents drains the buffer: it returns the recorded events and
// clears them in one step, so publishing twice is structurally
// impossible. A repeated call returns nil.
func (r *Recorder) PullEvents() []Event {
	events := r.events
	r.events = nil
	return events
}
