package host

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHost(t *testing.T) *Host {
	t.Helper()
	h, err := OpenMemory(WithIDGenerator(NewSequenceGenerator("q")))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	_, err = h.Exec(context.Background(), `
		CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL);
		INSERT INTO users (id, name) VALUES (1, 'alice'), (2, 'bob'), (3, 'carol');
	`, nil)
	require.NoError(t, err)
	return h
}

type countingExt struct {
	name  string
	calls *[]string
	prev  PlannerHook
}

func (e *countingExt) Name() string { return e.name }

func (e *countingExt) Init(h *Host) {
	e.prev = h.Hooks.Planner
	h.Hooks.Planner = func(parse *Query, qs string, co int, params ParamList) *PlannedStmt {
		*e.calls = append(*e.calls, e.name)
		if e.prev != nil {
			return e.prev(parse, qs, co, params)
		}
		return parse.Host.StandardPlanner(parse, qs, co, params)
	}
}

func TestExec_SelectDeliversRows(t *testing.T) {
	h := newTestHost(t)
	c := NewCollector()

	res, err := h.Exec(context.Background(), "SELECT id, name FROM users ORDER BY id", c)
	require.NoError(t, err)

	assert.Equal(t, "q-1", res.QueryID)
	assert.Equal(t, CmdSelect, res.Command)
	assert.Equal(t, uint64(3), res.Processed)
	require.Len(t, c.Rows, 3)
	assert.Equal(t, []any{int64(1), "alice"}, c.Rows[0])
	assert.Equal(t, "name", c.Desc.Columns[1].Name)
	assert.Equal(t, 1, c.Started)
	assert.Equal(t, 1, c.Shutdowns)
	assert.Equal(t, 1, c.Destroyed)
}

func TestExec_UtilityBypassesHooks(t *testing.T) {
	h := newTestHost(t)
	var calls []string
	require.NoError(t, h.Load(context.Background(), &countingExt{name: "a", calls: &calls}))

	_, err := h.Exec(context.Background(), "CREATE TABLE t (x INTEGER)", nil)
	require.NoError(t, err)
	assert.Empty(t, calls)

	_, err = h.Exec(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, calls)
}

func TestExec_InsertCountsAffectedRows(t *testing.T) {
	h := newTestHost(t)
	c := NewCollector()

	res, err := h.Exec(context.Background(), "INSERT INTO users (id, name) VALUES (?, ?)", c, 4, "dave")
	require.NoError(t, err)
	assert.Equal(t, CmdInsert, res.Command)
	assert.Equal(t, uint64(1), res.Processed)
	assert.Zero(t, c.Started, "no tuples are sent for a plain INSERT")
	assert.Equal(t, 1, c.Destroyed)
}

func TestExec_ReturningSendsTuples(t *testing.T) {
	h := newTestHost(t)
	c := NewCollector()

	_, err := h.Exec(context.Background(), "DELETE FROM users WHERE id = 3 RETURNING name", c)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"carol"}}, c.Rows)
}

func TestExec_BadSQLReturnsExecError(t *testing.T) {
	h := newTestHost(t)
	c := NewCollector()

	_, err := h.Exec(context.Background(), "SELECT * FROM missing_table", c)
	require.Error(t, err)
	assert.True(t, IsExecError(err, ErrCodeQueryFailed))
	assert.Equal(t, 1, c.Destroyed)

	var ee *ExecError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, "q-1", ee.QueryID)
}

func TestExec_EmptyStatement(t *testing.T) {
	h := newTestHost(t)
	_, err := h.Exec(context.Background(), "   ", nil)
	assert.True(t, IsExecError(err, ErrCodeEmptyStatement))
}

func TestExec_CancelledContext(t *testing.T) {
	h := newTestHost(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Exec(ctx, "SELECT * FROM users", nil)
	require.Error(t, err)
	var ee *ExecError
	assert.True(t, errors.As(err, &ee))
}

func TestExec_OtherPanicsPropagate(t *testing.T) {
	h := newTestHost(t)
	h.Hooks.ExecutorStart = func(*QueryDesc, int) { panic("boom") }

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = h.Exec(context.Background(), "SELECT 1", nil)
	})
}

func TestExec_ReceiverStopsEarly(t *testing.T) {
	h := newTestHost(t)
	stop := &stopAfter{n: 1}

	res, err := h.Exec(context.Background(), "SELECT * FROM users", stop)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), res.Processed)
	assert.Equal(t, 1, stop.seen)
}

type stopAfter struct {
	Discard
	n, seen int
}

func (s *stopAfter) Receive(*Slot) bool {
	s.seen++
	return s.seen < s.n
}

func TestLoad_ChainsLastWriterFirst(t *testing.T) {
	h := newTestHost(t)
	var calls []string

	err := h.Load(context.Background(),
		&countingExt{name: "a", calls: &calls},
		&countingExt{name: "b", calls: &calls},
	)
	require.NoError(t, err)

	_, err = h.Exec(context.Background(), "SELECT 1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, calls)
	assert.Equal(t, []string{"a", "b"}, h.Loaded())
}

func TestLoad_RecordsCatalog(t *testing.T) {
	h := newTestHost(t)
	var calls []string
	require.NoError(t, h.Load(context.Background(), &countingExt{name: "a", calls: &calls}))

	c := NewCollector()
	_, err := h.Exec(context.Background(), "SELECT extname, load_order FROM pg_extension", c)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{"a", int64(1)}}, c.Rows)
}

func TestLoad_Duplicate(t *testing.T) {
	h := newTestHost(t)
	var calls []string
	require.NoError(t, h.Load(context.Background(), &countingExt{name: "a", calls: &calls}))

	err := h.Load(context.Background(), &countingExt{name: "a", calls: &calls})
	assert.ErrorIs(t, err, ErrAlreadyLoaded)
}

func TestShowHooks(t *testing.T) {
	h := newTestHost(t)
	slots := h.ShowHooks()
	require.Len(t, slots, 5)
	for _, s := range slots {
		assert.False(t, s.Installed, s.Name)
	}

	h.Hooks.ExecutorEnd = testEndHook
	slots = h.ShowHooks()
	assert.Equal(t, SlotExecutorEnd, slots[4].Name)
	assert.True(t, slots[4].Installed)
	assert.Equal(t, FuncAddr(ExecutorEndHook(testEndHook)), slots[4].Addr)
	assert.Equal(t, "planner_hook: <standard>", slots[0].String())
}

func testEndHook(*QueryDesc) {}

func testOtherHook(*QueryDesc) {}

func TestFuncAddr(t *testing.T) {
	assert.Zero(t, FuncAddr(nil))
	assert.Zero(t, FuncAddr(ExecutorEndHook(nil)))
	assert.Zero(t, FuncAddr(42))
	assert.NotEqual(t, FuncAddr(testEndHook), FuncAddr(testOtherHook))
	assert.Equal(t, FuncAddr(testEndHook), FuncAddr(ExecutorEndHook(testEndHook)))
}

func TestRendezvous_CreatesOnce(t *testing.T) {
	h := newTestHost(t)
	calls := 0
	create := func() any {
		calls++
		return &calls
	}

	v1 := h.Rendezvous("x").Get(create)
	v2 := h.Rendezvous("x").Get(create)
	assert.Same(t, v1, v2)
	assert.Equal(t, 1, calls)

	h.Rendezvous("y").Get(create)
	assert.Equal(t, 2, calls)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sql       string
		cmd       CmdType
		returning bool
	}{
		{"select 1", CmdSelect, false},
		{"WITH x AS (SELECT 1) SELECT * FROM x", CmdSelect, false},
		{"insert into t values (1)", CmdInsert, false},
		{"UPDATE t SET x = 1 RETURNING x", CmdUpdate, true},
		{"DELETE FROM t", CmdDelete, false},
		{"CREATE TABLE t (x INT)", CmdUtility, false},
		{"", CmdUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			cmd, returning := classify(tt.sql)
			assert.Equal(t, tt.cmd, cmd)
			assert.Equal(t, tt.returning, returning)
		})
	}
}
