package hookchain

import "github.com/roach88/pgext/internal/host"

func (m *Manager) runPlanner(pos int, parse *host.Query, queryString string, cursorOptions int, params host.ParamList) *host.PlannedStmt {
	return walk(m.planner, m.status, pos,
		func(fn host.PlannerHook) *host.PlannedStmt {
			return fn(parse, queryString, cursorOptions, params)
		},
		func() *host.PlannedStmt {
			return m.host.StandardPlanner(parse, queryString, cursorOptions, params)
		})
}

func (m *Manager) runExecutorStart(pos int, qd *host.QueryDesc, eflags int) {
	walk(m.executorStart, m.status, pos,
		func(fn host.ExecutorStartHook) struct{} {
			fn(qd, eflags)
			return struct{}{}
		},
		func() struct{} {
			m.host.StandardExecutorStart(qd, eflags)
			return struct{}{}
		})
}

func (m *Manager) runExecutorRun(pos int, qd *host.QueryDesc, direction host.ScanDirection, count uint64, executeOnce bool) {
	walk(m.executorRun, m.status, pos,
		func(fn host.ExecutorRunHook) struct{} {
			fn(qd, direction, count, executeOnce)
			return struct{}{}
		},
		func() struct{} {
			m.host.StandardExecutorRun(qd, direction, count, executeOnce)
			return struct{}{}
		})
}

func (m *Manager) runExecutorFinish(pos int, qd *host.QueryDesc) {
	walk(m.executorFinish, m.status, pos,
		func(fn host.ExecutorFinishHook) struct{} {
			fn(qd)
			return struct{}{}
		},
		func() struct{} {
			m.host.StandardExecutorFinish(qd)
			return struct{}{}
		})
}

func (m *Manager) runExecutorEnd(pos int, qd *host.QueryDesc) {
	walk(m.executorEnd, m.status, pos,
		func(fn host.ExecutorEndHook) struct{} {
			fn(qd)
			return struct{}{}
		},
		func() struct{} {
			m.host.StandardExecutorEnd(qd)
			return struct{}{}
		})
}
