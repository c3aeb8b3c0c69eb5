package extensions

import (
	"fmt"
	"slices"

	"github.com/roach88/pgext/internal/host"
)

// TraceHooksOptions selects the points tracehooks installs on.
type TraceHooksOptions struct {
	// Points lists point names (planner, executor_start, executor_run,
	// executor_finish, executor_end). Empty means all of them.
	Points []string `mapstructure:"points"`
}

var tracePoints = []string{"planner", "executor_start", "executor_run", "executor_finish", "executor_end"}

// TraceHooks records "<point>:<name>" every time one of its hooks runs and
// then calls the hook it replaced.
type TraceHooks struct {
	name   string
	points []string
	rec    *Recorder

	prevPlanner host.PlannerHook
	prevStart   host.ExecutorStartHook
	prevRun     host.ExecutorRunHook
	prevFinish  host.ExecutorFinishHook
	prevEnd     host.ExecutorEndHook
}

// NewTraceHooks creates a tracing extension.
func NewTraceHooks(name string, opts TraceHooksOptions, rec *Recorder) (*TraceHooks, error) {
	points := opts.Points
	if len(points) == 0 {
		points = tracePoints
	}
	for _, p := range points {
		if !slices.Contains(tracePoints, p) {
			return nil, fmt.Errorf("tracehooks %s: unknown point %q", name, p)
		}
	}
	return &TraceHooks{name: name, points: points, rec: rec}, nil
}

func (t *TraceHooks) Name() string { return t.name }

func (t *TraceHooks) Version() string { return "1.0" }

func (t *TraceHooks) Init(h *host.Host) {
	for _, p := range t.points {
		switch p {
		case "planner":
			t.prevPlanner = h.Hooks.Planner
			h.Hooks.Planner = t.planner
		case "executor_start":
			t.prevStart = h.Hooks.ExecutorStart
			h.Hooks.ExecutorStart = t.executorStart
		case "executor_run":
			t.prevRun = h.Hooks.ExecutorRun
			h.Hooks.ExecutorRun = t.executorRun
		case "executor_finish":
			t.prevFinish = h.Hooks.ExecutorFinish
			h.Hooks.ExecutorFinish = t.executorFinish
		case "executor_end":
			t.prevEnd = h.Hooks.ExecutorEnd
			h.Hooks.ExecutorEnd = t.executorEnd
		}
	}
}

func (t *TraceHooks) planner(parse *host.Query, queryString string, cursorOptions int, params host.ParamList) *host.PlannedStmt {
	t.rec.Record("planner:" + t.name)
	if t.prevPlanner != nil {
		return t.prevPlanner(parse, queryString, cursorOptions, params)
	}
	return parse.Host.StandardPlanner(parse, queryString, cursorOptions, params)
}

func (t *TraceHooks) executorStart(qd *host.QueryDesc, eflags int) {
	t.rec.Record("executor_start:" + t.name)
	if t.prevStart != nil {
		t.prevStart(qd, eflags)
		return
	}
	qd.Host.StandardExecutorStart(qd, eflags)
}

func (t *TraceHooks) executorRun(qd *host.QueryDesc, direction host.ScanDirection, count uint64, executeOnce bool) {
	t.rec.Record("executor_run:" + t.name)
	if t.prevRun != nil {
		t.prevRun(qd, direction, count, executeOnce)
		return
	}
	qd.Host.StandardExecutorRun(qd, direction, count, executeOnce)
}

func (t *TraceHooks) executorFinish(qd *host.QueryDesc) {
	t.rec.Record("executor_finish:" + t.name)
	if t.prevFinish != nil {
		t.prevFinish(qd)
		return
	}
	qd.Host.StandardExecutorFinish(qd)
}

func (t *TraceHooks) executorEnd(qd *host.QueryDesc) {
	t.rec.Record("executor_end:" + t.name)
	if t.prevEnd != nil {
		t.prevEnd(qd)
		return
	}
	qd.Host.StandardExecutorEnd(qd)
}
