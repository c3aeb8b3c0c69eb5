package extensions

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pgext/internal/hookchain"
	"github.com/roach88/pgext/internal/host"
	"github.com/roach88/pgext/internal/testutil"
)

func newTestHost(t *testing.T) *host.Host {
	t.Helper()
	return testutil.NewHost(t,
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT NOT NULL, email TEXT)",
		"INSERT INTO users VALUES (1, 'alice', 'a@x.io'), (2, 'bob', 'b@x.io'), (3, 'ёж', NULL)",
	)
}

func build(t *testing.T, kind, name string, options map[string]any, rec *Recorder) host.Extension {
	t.Helper()
	ext, err := New(kind, name, options, rec)
	require.NoError(t, err)
	return ext
}

func loadManaged(t *testing.T, h *host.Host, exts ...host.Extension) {
	t.Helper()
	for _, ext := range exts {
		require.NoError(t, h.Load(context.Background(), hookchain.Wrap(ext)))
	}
}

func rows(t *testing.T, h *host.Host, sql string) [][]any {
	t.Helper()
	c := host.NewCollector()
	_, err := h.Exec(context.Background(), sql, c)
	require.NoError(t, err)
	return c.Rows
}

func TestTraceHooks_ManagedRunsInLoadOrder(t *testing.T) {
	h := newTestHost(t)
	rec := NewRecorder(nil)
	loadManaged(t, h,
		build(t, "tracehooks", "a", nil, rec),
		build(t, "tracehooks", "b", map[string]any{"points": []string{"planner", "executor_end"}}, rec),
	)

	rows(t, h, "SELECT 1")
	assert.Equal(t, []string{
		"planner:a", "planner:b",
		"executor_start:a",
		"executor_run:a",
		"executor_finish:a",
		"executor_end:a", "executor_end:b",
	}, rec.Names())
}

func TestTraceHooks_UnmanagedLastWriterFirst(t *testing.T) {
	h := newTestHost(t)
	rec := NewRecorder(nil)
	opts := map[string]any{"points": []any{"planner"}}
	require.NoError(t, h.Load(context.Background(),
		build(t, "tracehooks", "a", opts, rec),
		build(t, "tracehooks", "b", opts, rec),
	))

	rows(t, h, "SELECT 1")
	assert.Equal(t, []string{"planner:b", "planner:a"}, rec.Names())
}

func TestTraceHooks_UnknownPoint(t *testing.T) {
	_, err := New("tracehooks", "a", map[string]any{"points": []string{"ProcessUtility"}}, nil)
	assert.ErrorContains(t, err, "unknown point")
}

func TestPlannerStats(t *testing.T) {
	h := newTestHost(t)
	rec := NewRecorder(nil)
	stats := NewPlannerStats("stats", rec)
	loadManaged(t, h, stats)

	var annotations []string
	h.Hooks.ExecutorEnd = func(qd *host.QueryDesc) {
		annotations = qd.PlannedStmt.Annotations
		h.StandardExecutorEnd(qd)
	}

	rows(t, h, "SELECT * FROM users")
	rows(t, h, "UPDATE users SET email = NULL WHERE id = 1")
	rows(t, h, "CREATE TABLE t (x INTEGER)")

	assert.Equal(t, 1, stats.Count(host.CmdSelect))
	assert.Equal(t, 1, stats.Count(host.CmdUpdate))
	assert.Equal(t, 2, stats.Total())
	assert.Equal(t, []string{"planned_by:stats"}, annotations)
}

func TestRowMask_MasksText(t *testing.T) {
	h := newTestHost(t)
	rec := NewRecorder(nil)
	loadManaged(t, h, build(t, "rowmask", "mask", map[string]any{"mask": "#"}, rec))

	got := rows(t, h, "SELECT id, name, email FROM users ORDER BY id")
	assert.Equal(t, [][]any{
		{int64(1), "#####", "######"},
		{int64(2), "###", "######"},
		{int64(3), "##", nil},
	}, got)
	assert.Equal(t, []string{"rewrite:mask:startup", "rewrite:mask:masked=3", "rewrite:mask:destroy"}, rec.Names())
}

func TestRowMask_ColumnsAndFilter(t *testing.T) {
	h := newTestHost(t)
	loadManaged(t, h, build(t, "rowmask", "mask", map[string]any{
		"columns": []string{"email"},
		"filter":  "from users",
	}, nil))

	assert.Equal(t, [][]any{{"alice", "******"}}, rows(t, h, "SELECT name, email FROM users WHERE id = 1"))
	assert.Equal(t, [][]any{{"plain"}}, rows(t, h, "SELECT 'plain' AS email"))
}

func TestRowMask_Unmanaged(t *testing.T) {
	h := newTestHost(t)
	require.NoError(t, h.Load(context.Background(), build(t, "rowmask", "mask", nil, nil)))

	assert.Equal(t, [][]any{{"alice"}}, rows(t, h, "SELECT name FROM users WHERE id = 1"))
	assert.Nil(t, h.Hooks.ExecutorRun)
}

func TestRowLimit_UnmanagedWarns(t *testing.T) {
	var logs bytes.Buffer
	h, err := host.OpenMemory(host.WithLogger(zerolog.New(&logs)))
	require.NoError(t, err)
	t.Cleanup(func() { h.Close() })

	require.NoError(t, h.Load(context.Background(), build(t, "rowlimit", "limit", map[string]any{"limit": 1}, nil)))

	assert.Nil(t, h.Hooks.ExecutorRun)
	assert.Len(t, rows(t, h, "SELECT 1 AS n UNION ALL SELECT 2"), 2)
	assert.Contains(t, logs.String(), `"extension":"limit"`)
	assert.Contains(t, logs.String(), "rowlimit needs the hook-chain manager; not installed")
}

func TestRowLimit(t *testing.T) {
	h := newTestHost(t)
	rec := NewRecorder(nil)
	loadManaged(t, h, build(t, "rowlimit", "limit", map[string]any{"limit": "2"}, rec))

	got := rows(t, h, "SELECT id FROM users ORDER BY id")
	assert.Equal(t, [][]any{{int64(1)}, {int64(2)}}, got)
	assert.Equal(t, []string{"rewrite:limit:dropped=1"}, rec.Names())

	// Only SELECT is limited.
	c := host.NewCollector()
	_, err := h.Exec(context.Background(), "DELETE FROM users RETURNING id", c)
	require.NoError(t, err)
	assert.Len(t, c.Rows, 3)
}

func TestRowLimit_Negative(t *testing.T) {
	_, err := New("rowlimit", "limit", map[string]any{"limit": -1}, nil)
	assert.Error(t, err)
}

func TestRowMaskThenRowLimit(t *testing.T) {
	h := newTestHost(t)
	loadManaged(t, h,
		build(t, "rowmask", "mask", nil, nil),
		build(t, "rowlimit", "limit", map[string]any{"limit": 1}, nil),
	)

	assert.Equal(t, [][]any{{"*****"}}, rows(t, h, "SELECT name FROM users ORDER BY id"))
}

func TestIdle(t *testing.T) {
	h := newTestHost(t)
	rec := NewRecorder(nil)
	loadManaged(t, h, build(t, "idle", "", nil, rec))

	assert.Equal(t, []string{"init:idle"}, rec.Names())
	assert.Empty(t, hookchain.For(h).Chains())
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New("pg_stat_statements", "x", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestNew_UnknownOption(t *testing.T) {
	_, err := New("rowmask", "x", map[string]any{"colour": "red"}, nil)
	assert.ErrorContains(t, err, "rowmask options")

	_, err = New("idle", "x", map[string]any{"anything": 1}, nil)
	assert.Error(t, err)
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{"idle", "plannerstats", "rowlimit", "rowmask", "tracehooks"}, Kinds())
	assert.True(t, Known("rowmask"))
	assert.False(t, Known("nope"))
}

type fixedClock struct{ n int64 }

func (c *fixedClock) Next() int64 {
	c.n += 10
	return c.n
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(&fixedClock{})
	rec.Record("a")
	rec.Record("b")

	assert.Equal(t, []Event{{Seq: 10, Name: "a"}, {Seq: 20, Name: "b"}}, rec.Events())

	rec.Reset()
	rec.Record("c")
	assert.Equal(t, []Event{{Seq: 30, Name: "c"}}, rec.Events())

	var nilRec *Recorder
	assert.NotPanics(t, func() { nilRec.Record("ignored") })
}
