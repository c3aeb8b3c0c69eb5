package harness

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/roach88/pgext/internal/extensions"
	"github.com/roach88/pgext/internal/hookchain"
	"github.com/roach88/pgext/internal/host"
	"github.com/roach88/pgext/internal/logging"
	"github.com/roach88/pgext/internal/testutil"
)

// Option configures a run.
type Option func(*Harness)

// WithLogger sets the logger handed to the host. Runs are silent by default.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Harness) {
		h.logger = l
	}
}

// Harness is the scenario execution engine: one host, one manager, one
// recorder, all fresh per run.
type Harness struct {
	host    *host.Host
	manager *hookchain.Manager
	clock   *testutil.DeterministicClock
	rec     *extensions.Recorder
	logger  zerolog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database and a fresh manager.
// Execution flow:
//  1. Open the host and run seed statements
//  2. Build and load the extensions
//  3. Execute the steps
//  4. Capture trace, owners and chains, then evaluate assertions
//
// The returned error covers problems with the scenario itself (bad seed
// SQL, unbuildable extensions). Failed expectations are reported in
// Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	h := &Harness{
		clock:  testutil.NewDeterministicClock(),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.rec = extensions.NewRecorder(h.clock)

	hst, err := host.OpenMemory(
		host.WithIDGenerator(host.NewSequenceGenerator("q")),
		host.WithLogger(h.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory host: %w", err)
	}
	defer hst.Close()
	h.host = hst
	h.manager = hookchain.For(hst)

	ctx := context.Background()
	for i, stmt := range scenario.Seed {
		if _, err := hst.Storage().Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("seed[%d]: %w", i, err)
		}
	}

	exts, err := h.buildExtensions(scenario.Extensions)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	fatal, err := h.load(ctx, exts)
	if err != nil {
		return nil, err
	}
	switch {
	case fatal != nil:
		result.Fatal = string(fatal.Code)
		if string(fatal.Code) != scenario.ExpectFatal {
			result.AddError(fmt.Sprintf("loading aborted: %v", fatal))
		}
	case scenario.ExpectFatal != "":
		result.AddError(fmt.Sprintf("expected loading to abort with %s", scenario.ExpectFatal))
	}

	if fatal == nil {
		h.executeSteps(ctx, scenario.Steps, result)
	}

	result.Loaded = append(result.Loaded, hst.Loaded()...)
	for _, e := range h.rec.Events() {
		result.Trace = append(result.Trace, TraceEvent{Seq: e.Seq, Event: e.Name})
	}
	result.Owners = append(result.Owners, h.manager.Owners()...)
	result.Chains = append(result.Chains, h.manager.Chains()...)

	snapshot, err := Snapshot(scenario.Name, result)
	if err != nil {
		return nil, err
	}
	for _, msg := range EvaluateAssertions(result, snapshot, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func (h *Harness) buildExtensions(refs []ExtensionRef) ([]host.Extension, error) {
	exts := make([]host.Extension, 0, len(refs))
	for i, ref := range refs {
		ext, err := extensions.New(ref.Kind, ref.Name, ref.Options, h.rec)
		if err != nil {
			return nil, fmt.Errorf("extensions[%d]: %w", i, err)
		}
		if !ref.Unmanaged {
			ext = hookchain.Wrap(ext)
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// load loads the extensions, converting a fatal registration panic into a
// return value. Anything else keeps panicking.
func (h *Harness) load(ctx context.Context, exts []host.Extension) (fatal *hookchain.FatalError, err error) {
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*hookchain.FatalError)
			if !ok {
				panic(r)
			}
			fatal = fe
		}
	}()
	if err := h.host.Load(ctx, exts...); err != nil {
		return nil, fmt.Errorf("load extensions: %w", err)
	}
	return nil, nil
}

// executeSteps runs the steps in order. Step numbers are 1-based.
func (h *Harness) executeSteps(ctx context.Context, steps []Step, result *Result) {
	for i, step := range steps {
		n := i + 1
		switch step.action() {
		case "query":
			h.executeQuery(ctx, n, step, result)
		case "disable":
			if err := h.manager.Disable(step.Disable); err != nil {
				result.AddError(fmt.Sprintf("step %d: %v", n, err))
			}
		case "enable":
			if err := h.manager.Enable(step.Enable); err != nil {
				result.AddError(fmt.Sprintf("step %d: %v", n, err))
			}
		case "disable_all":
			h.manager.DisableAll()
		case "enable_all":
			h.manager.EnableAll()
		}
		h.logger.Debug().Int("step", n).Str("action", step.action()).Msg("step completed")
	}
}

func (h *Harness) executeQuery(ctx context.Context, n int, step Step, result *Result) {
	dest := host.NewCollector()
	qr := QueryResult{Step: n, SQL: step.Query}

	res, err := h.host.Exec(ctx, step.Query, dest)
	if res != nil {
		qr.QueryID = res.QueryID
		qr.Command = res.Command.String()
		qr.Processed = res.Processed
	}
	for _, col := range dest.Desc.Columns {
		qr.Columns = append(qr.Columns, col.Name)
	}
	qr.Rows = dest.Rows

	if err != nil {
		qr.Error = err.Error()
		var execErr *host.ExecError
		if errors.As(err, &execErr) {
			qr.Error = string(execErr.Code)
			if execErr.Err != nil {
				qr.Error += ": " + execErr.Err.Error()
			}
		}
	}
	result.Queries = append(result.Queries, qr)

	switch {
	case err != nil && step.ExpectError == "":
		result.AddError(fmt.Sprintf("step %d: query failed: %v", n, err))
	case err == nil && step.ExpectError != "":
		result.AddError(fmt.Sprintf("step %d: expected error containing %q, query succeeded", n, step.ExpectError))
	case err != nil && !strings.Contains(err.Error(), step.ExpectError):
		result.AddError(fmt.Sprintf("step %d: expected error containing %q, got %v", n, step.ExpectError, err))
	}

	if step.ExpectRows != nil && len(dest.Rows) != *step.ExpectRows {
		result.AddError(fmt.Sprintf("step %d: expected %d rows, got %d", n, *step.ExpectRows, len(dest.Rows)))
	}
}
