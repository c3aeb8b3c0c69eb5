package host

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Extension is a loadable module. Init runs once at load time and is where
// an extension installs its hooks.
type Extension interface {
	Name() string
	Init(h *Host)
}

// Versioned is implemented by extensions that report a version for the
// pg_extension catalog.
type Versioned interface {
	Version() string
}

// Result summarises one executed statement.
type Result struct {
	QueryID   string  `json:"query_id,omitempty"`
	Command   CmdType `json:"command"`
	Processed uint64  `json:"processed"`
}

// Host is one database server process: hook slots, storage and the query
// pipeline.
type Host struct {
	// Hooks are the interception slots. Written by extensions during Init.
	Hooks Hooks

	storage *Storage
	ids     IDGenerator
	logger  zerolog.Logger

	mu     sync.Mutex
	loaded []string

	rvMu       sync.Mutex
	rendezvous map[string]*Rendezvous
}

// Option configures a Host.
type Option func(*Host)

// WithIDGenerator sets the generator for query ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(h *Host) {
		h.ids = g
	}
}

// WithLogger sets the host logger.
func WithLogger(l zerolog.Logger) Option {
	return func(h *Host) {
		h.logger = l
	}
}

// New creates a host over storage. The host takes ownership of storage and
// closes it in Close.
func New(storage *Storage, opts ...Option) *Host {
	h := &Host{
		storage:    storage,
		ids:        UUIDv7Generator{},
		logger:     log.Logger.With().Str("component", "host").Logger(),
		rendezvous: make(map[string]*Rendezvous),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// OpenMemory creates a host over a fresh in-memory database.
func OpenMemory(opts ...Option) (*Host, error) {
	storage, err := Open(MemoryPath)
	if err != nil {
		return nil, err
	}
	return New(storage, opts...), nil
}

// Close releases the host's storage.
func (h *Host) Close() error {
	return h.storage.Close()
}

// Storage returns the database queries run against.
func (h *Host) Storage() *Storage {
	return h.storage
}

// Logger returns the host logger.
func (h *Host) Logger() zerolog.Logger {
	return h.logger
}

// Load initialises extensions in order, the way shared_preload_libraries
// does at server start. A panic raised by an extension's Init is not
// recovered: loading aborts.
func (h *Host) Load(ctx context.Context, exts ...Extension) error {
	for _, ext := range exts {
		name := ext.Name()
		if slices.Contains(h.loaded, name) {
			return fmt.Errorf("%w: %s", ErrAlreadyLoaded, name)
		}

		ext.Init(h)
		h.loaded = append(h.loaded, name)

		version := ""
		if v, ok := ext.(Versioned); ok {
			version = v.Version()
		}
		if err := h.storage.recordExtension(ctx, name, version, len(h.loaded)); err != nil {
			return err
		}
		h.logger.Info().Str("extension", name).Int("order", len(h.loaded)).Msg("extension loaded")
	}
	return nil
}

// Loaded returns the names of loaded extensions in load order.
func (h *Host) Loaded() []string {
	return slices.Clone(h.loaded)
}

// Rendezvous is a named, create-once value shared between extensions of
// one host.
type Rendezvous struct {
	once  sync.Once
	value any
}

// Get returns the value, calling create on first use.
func (r *Rendezvous) Get(create func() any) any {
	r.once.Do(func() {
		r.value = create()
	})
	return r.value
}

// Rendezvous finds or creates the rendezvous variable called name.
func (h *Host) Rendezvous(name string) *Rendezvous {
	h.rvMu.Lock()
	defer h.rvMu.Unlock()
	r, ok := h.rendezvous[name]
	if !ok {
		r = &Rendezvous{}
		h.rendezvous[name] = r
	}
	return r
}

// Exec runs one statement through the hook pipeline and delivers its rows
// to dest (Discard when nil). dest is destroyed exactly once before Exec
// returns.
func (h *Host) Exec(ctx context.Context, sql string, dest DestReceiver, params ...any) (res *Result, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if dest == nil {
		dest = Discard{}
	}
	defer dest.Destroy()

	cmd, returning := classify(sql)
	if cmd == CmdUnknown {
		return nil, &ExecError{Code: ErrCodeEmptyStatement, Stage: "parse", SQL: sql}
	}

	if cmd == CmdUtility {
		r, err := h.storage.Exec(ctx, sql, params...)
		if err != nil {
			return nil, &ExecError{Code: ErrCodeQueryFailed, Stage: "utility", SQL: sql, Err: err}
		}
		n, _ := r.RowsAffected()
		return &Result{Command: CmdUtility, Processed: uint64(n)}, nil
	}

	defer func() {
		if r := recover(); r != nil {
			ee, ok := r.(*ExecError)
			if !ok {
				panic(r)
			}
			h.logger.Debug().Err(ee).Msg("query aborted")
			res, err = nil, ee
		}
	}()

	query := &Query{Host: h, Command: cmd, SQL: sql, Returning: returning}
	stmt := h.plan(query, sql, 0, params)
	if stmt == nil {
		Raise(ErrCodeNoPlan, "planner", nil, fmt.Errorf("planner returned no plan for %q", sql))
	}

	qd := &QueryDesc{
		ID:          h.ids.Generate(),
		Host:        h,
		Ctx:         ctx,
		SourceText:  sql,
		Operation:   stmt.Command,
		PlannedStmt: stmt,
		Params:      params,
		Dest:        dest,
	}
	h.logger.Debug().Str("query_id", qd.ID).Stringer("command", qd.Operation).Msg("executing")

	h.executorStart(qd, 0)
	h.executorRun(qd, ForwardScan, 0, true)
	h.executorFinish(qd)
	h.executorEnd(qd)

	res = &Result{QueryID: qd.ID, Command: qd.Operation}
	if qd.EState != nil {
		res.Processed = qd.EState.Processed
	}
	return res, nil
}

func (h *Host) plan(parse *Query, queryString string, cursorOptions int, params ParamList) *PlannedStmt {
	if h.Hooks.Planner != nil {
		return h.Hooks.Planner(parse, queryString, cursorOptions, params)
	}
	return h.StandardPlanner(parse, queryString, cursorOptions, params)
}

func (h *Host) executorStart(qd *QueryDesc, eflags int) {
	if h.Hooks.ExecutorStart != nil {
		h.Hooks.ExecutorStart(qd, eflags)
		return
	}
	h.StandardExecutorStart(qd, eflags)
}

func (h *Host) executorRun(qd *QueryDesc, direction ScanDirection, count uint64, executeOnce bool) {
	if h.Hooks.ExecutorRun != nil {
		h.Hooks.ExecutorRun(qd, direction, count, executeOnce)
		return
	}
	h.StandardExecutorRun(qd, direction, count, executeOnce)
}

func (h *Host) executorFinish(qd *QueryDesc) {
	if h.Hooks.ExecutorFinish != nil {
		h.Hooks.ExecutorFinish(qd)
		return
	}
	h.StandardExecutorFinish(qd)
}

func (h *Host) executorEnd(qd *QueryDesc) {
	if h.Hooks.ExecutorEnd != nil {
		h.Hooks.ExecutorEnd(qd)
		return
	}
	h.StandardExecutorEnd(qd)
}
