// Package harness runs regression scenarios against a fresh host and
// hook-chain manager.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: abc_chain
//	description: "Three extensions share every hook point"
//	seed:
//	  - CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)
//	  - INSERT INTO users (name) VALUES ('alice'), ('bob')
//	extensions:
//	  - name: A
//	    kind: tracehooks
//	  - name: B
//	    kind: tracehooks
//	    options: { points: [planner] }
//	steps:
//	  - query: SELECT name FROM users ORDER BY id
//	    expect_rows: 2
//	  - disable: B
//	  - query: SELECT 1
//	assertions:
//	  - type: trace_order
//	    events: ["planner:A", "planner:B"]
//	  - type: chain
//	    point: planner
//	    owners: [A, B]
//
// Extensions are built from the bundled registry and loaded in order, each
// through hookchain.Wrap unless marked unmanaged. A scenario that expects
// loading to abort names the fatal code in expect_fatal.
//
// # Assertion Types
//
//   - trace_contains: an event appears in the trace
//   - trace_order: events appear in the given order (not necessarily adjacent)
//   - trace_count: an event appears exactly N times
//   - chain: the owners of a point's chain, in call order
//   - rows: the rows returned by a query step (1-based)
//   - result_path: a gjson path into the snapshot equals a value
//
// # Deterministic Testing
//
// Every run gets an in-memory SQLite database, sequential query ids
// ("q-1", "q-2", ...) and a testutil.DeterministicClock behind the event
// recorder, so the same scenario always produces a byte-identical
// snapshot. Snapshots are canonical JSON and are compared against golden
// files.
package harness
