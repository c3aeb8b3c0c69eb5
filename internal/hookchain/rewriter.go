package hookchain

import "github.com/roach88/pgext/internal/host"

// DestOutputRewriter tags the decorator the manager installs around a
// query's destination.
const DestOutputRewriter host.DestKind = 2333

// RewriterOwner owns the manager's own Wrapped entry on executor_run.
const RewriterOwner = "pgext"

// Continuation forwards the current slot to the next rewriter, or to the
// query's original destination after the last one.
type Continuation func() bool

// Rewriter transforms the rows of a query on their way to its destination.
// Only Receive is required.
type Rewriter struct {
	// Filter selects the queries the rewriter applies to. Nil means all.
	Filter func(qd *host.QueryDesc) bool

	// Startup returns the per-query instance passed to the other callbacks.
	Startup func(op host.CmdType, desc host.TupleDesc) any

	Shutdown func(instance any)
	Destroy  func(instance any)

	// Receive may modify slot in place. Calling next forwards the row;
	// returning without calling it drops the row. The return value tells
	// the executor whether to keep going.
	Receive func(instance any, slot *host.Slot, next Continuation) bool
}

type rewriterEntry struct {
	owner    string
	rewriter Rewriter
	enabled  bool
}

// RewriterStatus is one row of the rewriter listing.
type RewriterStatus struct {
	Order   int    `json:"order"`
	Owner   string `json:"owner"`
	Enabled bool   `json:"enabled"`
}

// Rewriters lists registered output rewriters in registration order.
func (m *Manager) Rewriters() []RewriterStatus {
	out := make([]RewriterStatus, len(m.rewriters))
	for i, r := range m.rewriters {
		out[i] = RewriterStatus{Order: i, Owner: r.owner, Enabled: r.enabled}
	}
	return out
}

func (m *Manager) registerRewriter(owner string, r Rewriter) {
	if r.Receive == nil {
		fatalf(ErrCodeInvalidRewriter, PointExecutorRun.String(), owner, "output rewriter has no Receive")
	}

	if !m.rewriterRegistered {
		if !m.status.add(RewriterOwner, true) {
			fatalf(ErrCodeDoubleRegistration, PointExecutorRun.String(), RewriterOwner, "owner name is reserved")
		}
		m.executorRun.register(RewriterOwner, m.beforeExecutorRun, m.afterExecutorRun)
		m.rewriterRegistered = true

		if m.initializing == "" && m.host.Hooks.ExecutorRun == nil {
			m.host.Hooks.ExecutorRun = executorRunEntry
		}
	}

	m.rewriters = append(m.rewriters, &rewriterEntry{
		owner:    owner,
		rewriter: r,
		enabled:  m.status.enabled(owner),
	})
	m.logger.Info().Str("owner", owner).Int("order", len(m.rewriters)-1).Msg("output rewriter registered")
}

// beforeExecutorRun wraps qd.Dest when at least one rewriter applies.
func (m *Manager) beforeExecutorRun(qd *host.QueryDesc, _ host.ScanDirection, _ uint64, _ bool) {
	var selected []Rewriter
	for _, r := range m.rewriters {
		if !r.enabled {
			continue
		}
		if r.rewriter.Filter != nil && !r.rewriter.Filter(qd) {
			continue
		}
		selected = append(selected, r.rewriter)
	}
	if len(selected) == 0 {
		return
	}
	m.logger.Debug().Str("query_id", qd.ID).Int("rewriters", len(selected)).Msg("output rewriters selected")
	qd.Dest = &outputDest{rewriters: selected, original: qd.Dest}
}

// afterExecutorRun puts the original destination back and releases the
// decorator. Destinations it did not install are left alone.
func (m *Manager) afterExecutorRun(qd *host.QueryDesc, _ host.ScanDirection, _ uint64, _ bool) {
	if qd.Dest == nil || qd.Dest.Kind() != DestOutputRewriter {
		return
	}
	d, ok := qd.Dest.(*outputDest)
	if !ok {
		return
	}
	qd.Dest = d.original
	d.release()
}

// outputDest composes rewriters around the original destination.
type outputDest struct {
	rewriters []Rewriter
	instances []any
	original  host.DestReceiver
	started   bool
	destroyed bool
}

func (d *outputDest) Kind() host.DestKind { return DestOutputRewriter }

func (d *outputDest) Startup(op host.CmdType, desc host.TupleDesc) {
	d.original.Startup(op, desc)
	d.instances = make([]any, len(d.rewriters))
	for i, r := range d.rewriters {
		if r.Startup != nil {
			d.instances[i] = r.Startup(op, desc)
		}
	}
	d.started = true
}

func (d *outputDest) Receive(slot *host.Slot) bool {
	return d.receiveAt(0, slot)
}

func (d *outputDest) receiveAt(depth int, slot *host.Slot) bool {
	if depth >= len(d.rewriters) {
		return d.original.Receive(slot)
	}
	return d.rewriters[depth].Receive(d.instance(depth), slot, func() bool {
		return d.receiveAt(depth+1, slot)
	})
}

func (d *outputDest) instance(i int) any {
	if i < len(d.instances) {
		return d.instances[i]
	}
	return nil
}

func (d *outputDest) Shutdown() {
	for i, r := range d.rewriters {
		if r.Shutdown != nil {
			r.Shutdown(d.instance(i))
		}
	}
	d.original.Shutdown()
}

func (d *outputDest) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyRewriters()
	d.original.Destroy()
}

// release frees the rewriter instances. The original destination belongs
// to whoever created it and is not destroyed here.
func (d *outputDest) release() {
	if !d.destroyed {
		d.destroyRewriters()
	}
	d.instances = nil
}

func (d *outputDest) destroyRewriters() {
	d.destroyed = true
	if !d.started {
		return
	}
	for i, r := range d.rewriters {
		if r.Destroy != nil {
			r.Destroy(d.instance(i))
		}
	}
}
