package extensions

import (
	"github.com/roach88/pgext/internal/host"
)

// PlannerStats counts planned statements per command type and tags every
// plan it sees.
type PlannerStats struct {
	name  string
	rec   *Recorder
	prev  host.PlannerHook
	stats map[host.CmdType]int
}

// NewPlannerStats creates a planner statistics extension.
func NewPlannerStats(name string, rec *Recorder) *PlannerStats {
	return &PlannerStats{name: name, rec: rec, stats: make(map[host.CmdType]int)}
}

func (p *PlannerStats) Name() string { return p.name }

func (p *PlannerStats) Init(h *host.Host) {
	p.prev = h.Hooks.Planner
	h.Hooks.Planner = p.planner
}

func (p *PlannerStats) planner(parse *host.Query, queryString string, cursorOptions int, params host.ParamList) *host.PlannedStmt {
	p.rec.Record("planner:" + p.name)

	var stmt *host.PlannedStmt
	if p.prev != nil {
		stmt = p.prev(parse, queryString, cursorOptions, params)
	} else {
		stmt = parse.Host.StandardPlanner(parse, queryString, cursorOptions, params)
	}
	if stmt != nil {
		p.stats[stmt.Command]++
		stmt.Annotations = append(stmt.Annotations, "planned_by:"+p.name)
	}
	return stmt
}

// Count returns how many statements of cmd were planned.
func (p *PlannerStats) Count(cmd host.CmdType) int {
	return p.stats[cmd]
}

// Total returns the number of planned statements.
func (p *PlannerStats) Total() int {
	n := 0
	for _, c := range p.stats {
		n += c
	}
	return n
}
