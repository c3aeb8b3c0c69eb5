package extensions

import (
	"fmt"

	"github.com/roach88/pgext/internal/hookchain"
	"github.com/roach88/pgext/internal/host"
)

// RowLimitOptions configures rowlimit.
type RowLimitOptions struct {
	// Limit is the number of rows let through per query.
	Limit int `mapstructure:"limit"`
}

// RowLimit is an output rewriter that drops every row after the first
// Limit. The executor keeps running; the rows just never arrive.
type RowLimit struct {
	name  string
	limit int
	rec   *Recorder
}

type rowLimitInstance struct {
	seen    int
	dropped int
}

// NewRowLimit creates a row limiting extension.
func NewRowLimit(name string, opts RowLimitOptions, rec *Recorder) (*RowLimit, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("rowlimit %s: limit must not be negative, got %d", name, opts.Limit)
	}
	return &RowLimit{name: name, limit: opts.Limit, rec: rec}, nil
}

func (l *RowLimit) Name() string { return l.name }

func (l *RowLimit) Init(h *host.Host) {
	api, ok := hookchain.For(h).Current()
	if !ok {
		logger := h.Logger()
		logger.Warn().Str("extension", l.name).Msg("rowlimit needs the hook-chain manager; not installed")
		return
	}
	api.RegisterOutputRewriter(hookchain.Rewriter{
		Filter: func(qd *host.QueryDesc) bool {
			return qd.Operation == host.CmdSelect
		},
		Startup: func(host.CmdType, host.TupleDesc) any {
			return &rowLimitInstance{}
		},
		Receive: l.receive,
		Shutdown: func(instance any) {
			inst := instance.(*rowLimitInstance)
			l.rec.Record(fmt.Sprintf("rewrite:%s:dropped=%d", l.name, inst.dropped))
		},
	})
}

func (l *RowLimit) receive(instance any, slot *host.Slot, next hookchain.Continuation) bool {
	inst := instance.(*rowLimitInstance)
	inst.seen++
	if inst.seen > l.limit {
		inst.dropped++
		return true
	}
	return next()
}
