package host

import (
	"fmt"
	"reflect"
)

// PlannerHook replaces or wraps the standard planner.
type PlannerHook func(parse *Query, queryString string, cursorOptions int, params ParamList) *PlannedStmt

// ExecutorStartHook runs before any rows are produced.
type ExecutorStartHook func(qd *QueryDesc, eflags int)

// ExecutorRunHook produces rows into qd.Dest. A count of zero means all rows.
type ExecutorRunHook func(qd *QueryDesc, direction ScanDirection, count uint64, executeOnce bool)

// ExecutorFinishHook runs after the last row.
type ExecutorFinishHook func(qd *QueryDesc)

// ExecutorEndHook releases executor state.
type ExecutorEndHook func(qd *QueryDesc)

// Hooks are the host's global interception slots. A nil slot means the
// standard implementation runs. Extensions overwrite slots during Init.
type Hooks struct {
	Planner        PlannerHook
	ExecutorStart  ExecutorStartHook
	ExecutorRun    ExecutorRunHook
	ExecutorFinish ExecutorFinishHook
	ExecutorEnd    ExecutorEndHook
}

// SlotInfo describes what one hook slot currently holds.
type SlotInfo struct {
	Name      string  `json:"name"`
	Installed bool    `json:"installed"`
	Addr      uintptr `json:"addr"`
}

// String renders the slot the way the show-hooks listing prints it.
func (s SlotInfo) String() string {
	if !s.Installed {
		return fmt.Sprintf("%s: <standard>", s.Name)
	}
	return fmt.Sprintf("%s: %#x", s.Name, s.Addr)
}

// Slot names as reported by ShowHooks.
const (
	SlotPlanner        = "planner_hook"
	SlotExecutorStart  = "ExecutorStart_hook"
	SlotExecutorRun    = "ExecutorRun_hook"
	SlotExecutorFinish = "ExecutorFinish_hook"
	SlotExecutorEnd    = "ExecutorEnd_hook"
)

// ShowHooks lists every slot with the code address of the installed
// function, in pipeline order.
func (h *Host) ShowHooks() []SlotInfo {
	slots := []struct {
		name string
		fn   any
	}{
		{SlotPlanner, h.Hooks.Planner},
		{SlotExecutorStart, h.Hooks.ExecutorStart},
		{SlotExecutorRun, h.Hooks.ExecutorRun},
		{SlotExecutorFinish, h.Hooks.ExecutorFinish},
		{SlotExecutorEnd, h.Hooks.ExecutorEnd},
	}
	out := make([]SlotInfo, 0, len(slots))
	for _, s := range slots {
		addr := FuncAddr(s.fn)
		out = append(out, SlotInfo{Name: s.name, Installed: addr != 0, Addr: addr})
	}
	return out
}

// FuncAddr returns the code address of a function value, or 0 for nil.
//
// Distinct top-level functions have distinct addresses. All closures built
// from the same function literal share one address, as do method values of
// the same method, so FuncAddr is only an identity for top-level functions.
func FuncAddr(fn any) uintptr {
	if fn == nil {
		return 0
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return 0
	}
	return v.Pointer()
}
