package hookchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pgext/internal/host"
	"github.com/roach88/pgext/internal/testutil"
)

func newTestHost(t *testing.T) *host.Host {
	t.Helper()
	return testutil.NewHost(t,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL)",
		"INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob'), (3, 'carol')",
	)
}

// calls records hook invocations in order.
type calls struct {
	events []string
}

func (c *calls) add(event string) { c.events = append(c.events, event) }

func (c *calls) reset() { c.events = nil }

// chainingExt claims the given points and always calls its previous hook.
type chainingExt struct {
	name   string
	points []Point
	calls  *calls

	prevPlanner host.PlannerHook
	prevStart   host.ExecutorStartHook
	prevRun     host.ExecutorRunHook
	prevFinish  host.ExecutorFinishHook
	prevEnd     host.ExecutorEndHook
}

func (e *chainingExt) Name() string { return e.name }

func (e *chainingExt) Init(h *host.Host) {
	for _, p := range e.points {
		switch p {
		case PointPlanner:
			e.prevPlanner = h.Hooks.Planner
			h.Hooks.Planner = func(parse *host.Query, qs string, co int, params host.ParamList) *host.PlannedStmt {
				e.calls.add("planner:" + e.name)
				return e.prevPlanner(parse, qs, co, params)
			}
		case PointExecutorStart:
			e.prevStart = h.Hooks.ExecutorStart
			h.Hooks.ExecutorStart = func(qd *host.QueryDesc, eflags int) {
				e.calls.add("executor_start:" + e.name)
				e.prevStart(qd, eflags)
			}
		case PointExecutorRun:
			e.prevRun = h.Hooks.ExecutorRun
			h.Hooks.ExecutorRun = func(qd *host.QueryDesc, dir host.ScanDirection, count uint64, once bool) {
				e.calls.add("executor_run:" + e.name)
				e.prevRun(qd, dir, count, once)
			}
		case PointExecutorFinish:
			e.prevFinish = h.Hooks.ExecutorFinish
			h.Hooks.ExecutorFinish = func(qd *host.QueryDesc) {
				e.calls.add("executor_finish:" + e.name)
				e.prevFinish(qd)
			}
		case PointExecutorEnd:
			e.prevEnd = h.Hooks.ExecutorEnd
			h.Hooks.ExecutorEnd = func(qd *host.QueryDesc) {
				e.calls.add("executor_end:" + e.name)
				e.prevEnd(qd)
			}
		}
	}
}

// idleExt never touches a slot.
type idleExt struct{ name string }

func (e idleExt) Name() string { return e.name }

func (idleExt) Init(*host.Host) {}

// rewriterExt registers one output rewriter.
type rewriterExt struct {
	name     string
	rewriter Rewriter
}

func (e *rewriterExt) Name() string { return e.name }

func (e *rewriterExt) Init(h *host.Host) {
	api, ok := For(h).Current()
	if !ok {
		panic("rewriterExt loaded outside the manager")
	}
	api.RegisterOutputRewriter(e.rewriter)
}

// registerWrapped adds a Wrapped entry the way the rewriter registration
// does: owner first, then the entry.
func registerWrapped[F any](m *Manager, c *chain[F], owner string, before, after F) {
	m.status.add(owner, true)
	c.register(owner, before, after)
}

func load(t *testing.T, h *host.Host, exts ...host.Extension) {
	t.Helper()
	for _, ext := range exts {
		require.NoError(t, h.Load(context.Background(), Wrap(ext)))
	}
}

func query(t *testing.T, h *host.Host, sql string) *host.Collector {
	t.Helper()
	c := host.NewCollector()
	_, err := h.Exec(context.Background(), sql, c)
	require.NoError(t, err)
	return c
}

func owners(entries []ChainEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Owner)
	}
	return out
}

func recoverFatal(t *testing.T, fn func()) (fe *FatalError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a fatal error")
		var ok bool
		fe, ok = r.(*FatalError)
		require.True(t, ok, "panic value %T is not *FatalError", r)
	}()
	fn()
	return nil
}
