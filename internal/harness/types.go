package harness

import (
	"github.com/roach88/pgext/internal/hookchain"
)

// TraceEvent is one event recorded by an extension during the run.
type TraceEvent struct {
	Seq   int64  `json:"seq"`
	Event string `json:"event"`
}

// QueryResult is the outcome of one query step.
type QueryResult struct {
	Step      int      `json:"step"`
	SQL       string   `json:"sql"`
	QueryID   string   `json:"query_id,omitempty"`
	Command   string   `json:"command,omitempty"`
	Processed uint64   `json:"processed"`
	Columns   []string `json:"columns,omitempty"`
	Rows      [][]any  `json:"rows,omitempty"`
	Error     string   `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step expectation and assertion held.
	Pass bool `json:"pass"`

	// Loaded lists the extensions the host loaded, in order.
	Loaded []string `json:"loaded"`

	// Fatal holds the code of a fatal registration error raised while
	// loading, if any.
	Fatal string `json:"fatal,omitempty"`

	Trace   []TraceEvent            `json:"trace"`
	Queries []QueryResult           `json:"queries"`
	Owners  []hookchain.OwnerStatus `json:"owners"`
	Chains  []hookchain.ChainEntry  `json:"chains"`

	// Errors contains validation error messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Loaded:  []string{},
		Trace:   []TraceEvent{},
		Queries: []QueryResult{},
		Owners:  []hookchain.OwnerStatus{},
		Chains:  []hookchain.ChainEntry{},
		Errors:  []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// EventNames returns the trace as a list of event names.
func (r *Result) EventNames() []string {
	names := make([]string, len(r.Trace))
	for i, e := range r.Trace {
		names[i] = e.Event
	}
	return names
}

// query returns the result of the 1-based step, if that step ran a query.
func (r *Result) query(step int) (QueryResult, bool) {
	for _, q := range r.Queries {
		if q.Step == step {
			return q, true
		}
	}
	return QueryResult{}, false
}
