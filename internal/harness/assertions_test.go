package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pgext/internal/hookchain"
)

func sampleResult() *Result {
	r := NewResult()
	r.Trace = []TraceEvent{
		{Seq: 1, Event: "planner:A"},
		{Seq: 2, Event: "planner:B"},
		{Seq: 3, Event: "executor_run:A"},
		{Seq: 4, Event: "planner:A"},
	}
	r.Chains = []hookchain.ChainEntry{
		{Point: hookchain.PointPlanner, Position: 0, Owner: "A", Enabled: true},
		{Point: hookchain.PointPlanner, Position: 1, Owner: "B", Enabled: true},
		{Point: hookchain.PointExecutorRun, Position: 0, Owner: "A", Enabled: true},
	}
	r.Queries = []QueryResult{
		{Step: 1, SQL: "SELECT n FROM t", Rows: [][]any{{int64(1)}, {int64(2)}}},
		{Step: 3, SQL: "SELECT s FROM t", Rows: [][]any{{"x"}, {nil}}},
	}
	return r
}

func evaluate(t *testing.T, r *Result, a Assertion) []string {
	t.Helper()
	snap, err := Snapshot("sample", r)
	require.NoError(t, err)
	return EvaluateAssertions(r, snap, []Assertion{a})
}

func TestAssertTraceContains(t *testing.T) {
	r := sampleResult()
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertTraceContains, Event: "planner:B"}))

	errs := evaluate(t, r, Assertion{Type: AssertTraceContains, Event: "planner:C"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Assertion failed: trace_contains")
	assert.Contains(t, errs[0], "[3] executor_run:A")
}

func TestAssertTraceOrder(t *testing.T) {
	r := sampleResult()
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertTraceOrder, Events: []string{"planner:A", "executor_run:A"}}))
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertTraceOrder, Events: []string{"planner:B", "executor_run:A"}}))

	errs := evaluate(t, r, Assertion{Type: AssertTraceOrder, Events: []string{"planner:B", "planner:A"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "planner:B (pos 2) should be before planner:A (pos 1)")

	errs = evaluate(t, r, Assertion{Type: AssertTraceOrder, Events: []string{"planner:A", "planner:Z"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "missing event: planner:Z")
}

func TestAssertTraceCount(t *testing.T) {
	r := sampleResult()
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertTraceCount, Event: "planner:A", Count: 2}))
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertTraceCount, Event: "planner:Z", Count: 0}))

	errs := evaluate(t, r, Assertion{Type: AssertTraceCount, Event: "planner:B", Count: 3})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "Actual: 1 occurrences")
}

func TestAssertChain(t *testing.T) {
	r := sampleResult()
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertChain, Point: "planner", Owners: []string{"A", "B"}}))
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertChain, Point: "executor_end"}))

	errs := evaluate(t, r, Assertion{Type: AssertChain, Point: "planner", Owners: []string{"B", "A"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "planner chain [A B]")
}

func TestAssertRows(t *testing.T) {
	r := sampleResult()
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertRows, Step: 1, Rows: [][]any{{1}, {2}}}))
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertRows, Step: 3, Rows: [][]any{{"x"}, {nil}}}))

	errs := evaluate(t, r, Assertion{Type: AssertRows, Step: 1, Rows: [][]any{{1}}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "step 1 rows [[1],[2]]")

	errs = evaluate(t, r, Assertion{Type: AssertRows, Step: 2, Rows: nil})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no query result for that step")
}

func TestAssertResultPath(t *testing.T) {
	r := sampleResult()
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertResultPath, Path: "chains.1.owner", Equals: "B"}))
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertResultPath, Path: "queries.0.rows", Equals: []any{[]any{1}, []any{2}}}))
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertResultPath, Path: "trace.#", Equals: 4}))
	assert.Empty(t, evaluate(t, r, Assertion{Type: AssertResultPath, Path: "scenario"}))

	errs := evaluate(t, r, Assertion{Type: AssertResultPath, Path: "chains.1.owner", Equals: "A"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `chains.1.owner = "B"`)

	errs = evaluate(t, r, Assertion{Type: AssertResultPath, Path: "fatal"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no value at path")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := evaluate(t, sampleResult(), Assertion{Type: "final_state"})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "final_state"`)
}
