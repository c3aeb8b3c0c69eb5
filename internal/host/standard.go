package host

import (
	"database/sql"
	"fmt"
)

// StandardPlanner is the planner the host uses when the slot is empty.
func (h *Host) StandardPlanner(parse *Query, queryString string, cursorOptions int, _ ParamList) *PlannedStmt {
	return &PlannedStmt{
		Command:       parse.Command,
		SQL:           queryString,
		CursorOptions: cursorOptions,
		Returning:     parse.Returning,
	}
}

// StandardExecutorStart prepares executor state.
func (h *Host) StandardExecutorStart(qd *QueryDesc, _ int) {
	qd.EState = &EState{Started: true}
}

// StandardExecutorRun executes the planned statement and streams its rows
// into qd.Dest. count limits the number of rows fetched when non-zero.
func (h *Host) StandardExecutorRun(qd *QueryDesc, direction ScanDirection, count uint64, _ bool) {
	if qd.EState == nil {
		qd.EState = &EState{Started: true}
	}
	ctx := qd.Ctx
	stmt := qd.PlannedStmt

	if !qd.SendsTuples() {
		r, err := h.storage.Exec(ctx, stmt.SQL, qd.Params...)
		if err != nil {
			Raise(ErrCodeQueryFailed, "executor run", qd, err)
		}
		n, _ := r.RowsAffected()
		qd.EState.Processed += uint64(n)
		return
	}

	rows, err := h.storage.Query(ctx, stmt.SQL, qd.Params...)
	if err != nil {
		Raise(ErrCodeQueryFailed, "executor run", qd, err)
	}
	defer rows.Close()

	desc, err := describe(rows)
	if err != nil {
		Raise(ErrCodeQueryFailed, "executor run", qd, err)
	}

	dest := qd.Dest
	dest.Startup(qd.Operation, desc)

	if direction != NoMovementScan {
		for rows.Next() {
			if err := ctx.Err(); err != nil {
				Raise(ErrCodeCanceled, "executor run", qd, err)
			}
			values, err := scanRow(rows, len(desc.Columns))
			if err != nil {
				Raise(ErrCodeQueryFailed, "executor run", qd, err)
			}
			qd.EState.Processed++
			if !dest.Receive(&Slot{Desc: desc, Values: values}) {
				break
			}
			if count > 0 && qd.EState.Processed >= count {
				break
			}
		}
		if err := rows.Err(); err != nil {
			Raise(ErrCodeQueryFailed, "executor run", qd, err)
		}
	}

	dest.Shutdown()
}

// StandardExecutorFinish marks the run complete.
func (h *Host) StandardExecutorFinish(qd *QueryDesc) {
	if qd.EState != nil {
		qd.EState.Finished = true
	}
}

// StandardExecutorEnd releases executor state.
func (h *Host) StandardExecutorEnd(qd *QueryDesc) {
	if qd.EState != nil {
		qd.EState.Ended = true
	}
}

func describe(rows *sql.Rows) (TupleDesc, error) {
	types, err := rows.ColumnTypes()
	if err != nil {
		return TupleDesc{}, fmt.Errorf("column types: %w", err)
	}
	cols := make([]Column, len(types))
	for i, t := range types {
		cols[i] = Column{Name: t.Name(), Type: t.DatabaseTypeName()}
	}
	return TupleDesc{Columns: cols}, nil
}

func scanRow(rows *sql.Rows, n int) ([]any, error) {
	values := make([]any, n)
	ptrs := make([]any, n)
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	for i, v := range values {
		if b, ok := v.([]byte); ok {
			values[i] = string(b)
		}
	}
	return values, nil
}
