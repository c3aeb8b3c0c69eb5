package harness

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/roach88/pgext/internal/canonical"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string   // Assertion type for categorization
	Expected string   // Human-readable expected outcome
	Actual   string   // Human-readable actual outcome
	Trace    []string // Event names for context, if relevant
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, event)
		}
	}
	return buf.String()
}

// assertTraceContains checks that the event was recorded at least once.
func assertTraceContains(trace []string, a Assertion) error {
	if slices.Contains(trace, a.Event) {
		return nil
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event %s", a.Event),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that each event's first occurrence comes after
// the previous one's. Events don't need to be consecutive.
func assertTraceOrder(trace []string, a Assertion) error {
	positions := make(map[string]int)
	for i, event := range trace {
		if _, seen := positions[event]; !seen {
			positions[event] = i + 1
		}
	}

	for _, event := range a.Events {
		if positions[event] == 0 {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("all events present: %v", a.Events),
				Actual:   fmt.Sprintf("missing event: %s", event),
				Trace:    trace,
			}
		}
	}

	for i := 1; i < len(a.Events); i++ {
		prev, curr := a.Events[i-1], a.Events[i]
		if positions[prev] >= positions[curr] {
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", a.Events),
				Actual: fmt.Sprintf("%s (pos %d) should be before %s (pos %d)",
					prev, positions[prev], curr, positions[curr]),
				Trace: trace,
			}
		}
	}
	return nil
}

// assertTraceCount checks the event appears exactly Count times.
func assertTraceCount(trace []string, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event == a.Event {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, a.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertChain checks the owners of a point's chain, in call order.
func assertChain(result *Result, a Assertion) error {
	var owners []string
	for _, e := range result.Chains {
		if e.Point.String() == a.Point {
			owners = append(owners, e.Owner)
		}
	}
	if slices.Equal(owners, a.Owners) {
		return nil
	}
	return &AssertionError{
		Type:     AssertChain,
		Expected: fmt.Sprintf("%s chain %v", a.Point, a.Owners),
		Actual:   fmt.Sprintf("%s chain %v", a.Point, owners),
	}
}

// assertRows compares a query step's rows. Values are compared through
// canonical JSON so YAML ints match SQLite int64s.
func assertRows(result *Result, a Assertion) error {
	q, ok := result.query(a.Step)
	if !ok {
		return &AssertionError{
			Type:     AssertRows,
			Expected: fmt.Sprintf("step %d to run a query", a.Step),
			Actual:   "no query result for that step",
		}
	}

	want, err := canonical.Marshal(normalizeRows(a.Rows))
	if err != nil {
		return fmt.Errorf("rows assertion: expected value: %w", err)
	}
	got, err := canonical.Marshal(normalizeRows(q.Rows))
	if err != nil {
		return fmt.Errorf("rows assertion: actual value: %w", err)
	}
	if bytes.Equal(want, got) {
		return nil
	}
	return &AssertionError{
		Type:     AssertRows,
		Expected: fmt.Sprintf("step %d rows %s", a.Step, want),
		Actual:   fmt.Sprintf("step %d rows %s", a.Step, got),
	}
}

func normalizeRows(rows [][]any) []any {
	out := make([]any, len(rows))
	for i, row := range rows {
		out[i] = append([]any{}, row...)
	}
	return out
}

// assertResultPath evaluates a gjson path against the canonical snapshot.
func assertResultPath(snapshot []byte, a Assertion) error {
	got := gjson.GetBytes(snapshot, a.Path)
	if !got.Exists() {
		return &AssertionError{
			Type:     AssertResultPath,
			Expected: fmt.Sprintf("path %s to exist", a.Path),
			Actual:   "no value at path",
		}
	}
	if a.Equals == nil {
		return nil
	}

	want, err := canonical.Marshal(a.Equals)
	if err != nil {
		return fmt.Errorf("result_path assertion: expected value: %w", err)
	}
	if string(want) == got.Raw {
		return nil
	}
	return &AssertionError{
		Type:     AssertResultPath,
		Expected: fmt.Sprintf("%s = %s", a.Path, want),
		Actual:   fmt.Sprintf("%s = %s", a.Path, got.Raw),
	}
}

// EvaluateAssertions evaluates all assertions against the result and its
// canonical snapshot. Returns a slice of error messages for failed
// assertions.
func EvaluateAssertions(result *Result, snapshot []byte, assertions []Assertion) []string {
	var errs []string
	trace := result.EventNames()

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(trace, a)
		case AssertTraceCount:
			err = assertTraceCount(trace, a)
		case AssertChain:
			err = assertChain(result, a)
		case AssertRows:
			err = assertRows(result, a)
		case AssertResultPath:
			err = assertResultPath(snapshot, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}
