// Package host models the database server that extensions hook into.
//
// The host owns one global function slot per interception point (planner,
// executor start/run/finish/end). Each slot is either empty, in which case the
// host calls its standard implementation, or holds whatever function the last
// extension to write it installed. Extensions that want to cooperate save the
// previous slot value during Init and call it from their own hook.
//
// ARCHITECTURE:
//
// Query pipeline:
// 1. Exec classifies the statement (SELECT/INSERT/UPDATE/DELETE/utility)
// 2. Utility statements run directly against storage and never reach a hook
// 3. Planner slot (or StandardPlanner) produces a PlannedStmt
// 4. A QueryDesc is built with a fresh query id and the caller's destination
// 5. ExecutorStart, ExecutorRun, ExecutorFinish, ExecutorEnd slots run in order
// 6. The caller's destination is destroyed exactly once
//
// Rows reach the destination from StandardExecutorRun through the
// DestReceiver lifecycle: Startup, Receive per row, Shutdown.
//
// Errors raised while a query runs (bad SQL, cancelled context) unwind the
// pipeline as a panic carrying *ExecError and are converted back into an
// error by Exec, so that hooks wrapping the run see the same early exit a
// server-side ERROR would cause. Any other panic is not recovered.
//
// Concurrency: a Host models a single backend process. Exec serialises
// queries with a mutex; Load must not run concurrently with Exec.
package host
