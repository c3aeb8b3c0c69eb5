package extensions

import (
	"sync"
	"sync/atomic"
)

// Clock stamps recorded events.
type Clock interface {
	Next() int64
}

type counter struct {
	seq atomic.Int64
}

func (c *counter) Next() int64 {
	return c.seq.Add(1)
}

// Event is one recorded occurrence.
type Event struct {
	Seq  int64  `json:"seq"`
	Name string `json:"event"`
}

// Recorder collects events from extensions in the order they happen.
type Recorder struct {
	mu     sync.Mutex
	clock  Clock
	events []Event
}

// NewRecorder creates a recorder. A nil clock numbers events from 1.
func NewRecorder(clock Clock) *Recorder {
	if clock == nil {
		clock = &counter{}
	}
	return &Recorder{clock: clock}
}

// Record appends an event.
func (r *Recorder) Record(name string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Seq: r.clock.Next(), Name: name})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Names returns the recorded event names in order.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Name
	}
	return out
}

// Reset drops all events. The clock keeps counting.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
