package host

import (
	"context"
	"strings"
)

// CmdType is the kind of statement being executed.
type CmdType int

const (
	CmdUnknown CmdType = iota
	CmdSelect
	CmdInsert
	CmdUpdate
	CmdDelete
	CmdUtility
)

// String returns the statement keyword for the command.
func (c CmdType) String() string {
	switch c {
	case CmdSelect:
		return "SELECT"
	case CmdInsert:
		return "INSERT"
	case CmdUpdate:
		return "UPDATE"
	case CmdDelete:
		return "DELETE"
	case CmdUtility:
		return "UTILITY"
	default:
		return "UNKNOWN"
	}
}

// ScanDirection tells ExecutorRun which way to fetch.
type ScanDirection int

const (
	BackwardScan   ScanDirection = -1
	NoMovementScan ScanDirection = 0
	ForwardScan    ScanDirection = 1
)

// ParamList holds positional query parameters.
type ParamList []any

// Query is the parsed form of a statement handed to the planner.
type Query struct {
	Host      *Host
	Command   CmdType
	SQL       string
	Returning bool
}

// PlannedStmt is the planner's output.
type PlannedStmt struct {
	Command       CmdType
	SQL           string
	CursorOptions int
	Returning     bool

	// Annotations lets planner hooks attach notes to a plan.
	Annotations []string
}

// Column describes one attribute of a result row.
type Column struct {
	Name string
	// Type is the declared column type reported by storage, empty for
	// expressions.
	Type string
}

// TupleDesc describes the shape of the rows a query emits.
type TupleDesc struct {
	Columns []Column
}

// NumAtts returns the number of attributes.
func (d TupleDesc) NumAtts() int { return len(d.Columns) }

// Slot is one result row on its way to a destination. Receivers may modify
// Values in place.
type Slot struct {
	Desc   TupleDesc
	Values []any
}

// Clone returns a copy of the slot that does not share Values.
func (s *Slot) Clone() *Slot {
	values := make([]any, len(s.Values))
	copy(values, s.Values)
	return &Slot{Desc: s.Desc, Values: values}
}

// EState is the executor's per-query state.
type EState struct {
	Started   bool
	Finished  bool
	Ended     bool
	Processed uint64
}

// QueryDesc carries everything the executor stages need for one query.
type QueryDesc struct {
	ID          string
	Host        *Host
	Ctx         context.Context
	SourceText  string
	Operation   CmdType
	PlannedStmt *PlannedStmt
	Params      ParamList
	Dest        DestReceiver
	EState      *EState
}

// SendsTuples reports whether running the query produces rows for Dest.
func (qd *QueryDesc) SendsTuples() bool {
	if qd.PlannedStmt == nil {
		return qd.Operation == CmdSelect
	}
	return qd.Operation == CmdSelect || qd.PlannedStmt.Returning
}

// classify derives the command type from the leading keyword.
func classify(sql string) (CmdType, bool) {
	fields := strings.Fields(strings.ToUpper(sql))
	if len(fields) == 0 {
		return CmdUnknown, false
	}
	returning := false
	for _, f := range fields[1:] {
		if f == "RETURNING" {
			returning = true
			break
		}
	}
	switch fields[0] {
	case "SELECT", "WITH", "VALUES":
		return CmdSelect, false
	case "INSERT", "REPLACE":
		return CmdInsert, returning
	case "UPDATE":
		return CmdUpdate, returning
	case "DELETE":
		return CmdDelete, returning
	default:
		return CmdUtility, false
	}
}
