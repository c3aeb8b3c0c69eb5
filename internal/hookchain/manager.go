package hookchain

import (
	"github.com/rs/zerolog"

	"github.com/roach88/pgext/internal/host"
)

// rendezvousName is the host rendezvous variable holding the manager.
const rendezvousName = "pgext.hookchain.manager"

// ChainEntry is one row of the chain listing.
type ChainEntry struct {
	Point    Point  `json:"point"`
	Position int    `json:"position"`
	Owner    string `json:"owner"`
	Kind     Kind   `json:"kind"`
	Enabled  bool   `json:"enabled"`
}

// Manager multiplexes the host's hook slots between extensions.
//
// Manager is not safe for concurrent use. Registration happens while the
// host loads extensions and dispatch while it runs a query; the host never
// does both at once.
type Manager struct {
	host   *host.Host
	logger zerolog.Logger
	status *statusTable

	planner        *chain[host.PlannerHook]
	executorStart  *chain[host.ExecutorStartHook]
	executorRun    *chain[host.ExecutorRunHook]
	executorFinish *chain[host.ExecutorFinishHook]
	executorEnd    *chain[host.ExecutorEndHook]

	rewriters          []*rewriterEntry
	rewriterRegistered bool

	// initializing is the owner between BeforeInit and AfterInit.
	initializing string
}

// For returns the manager of h, creating it on first use.
func For(h *host.Host) *Manager {
	return h.Rendezvous(rendezvousName).Get(func() any {
		return newManager(h)
	}).(*Manager)
}

func newManager(h *host.Host) *Manager {
	logger := h.Logger().With().Str("component", "hookchain").Logger()
	return &Manager{
		host:           h,
		logger:         logger,
		status:         newStatusTable(),
		planner:        newChain[host.PlannerHook](PointPlanner, plannerPool(), plannerEntry, logger),
		executorStart:  newChain[host.ExecutorStartHook](PointExecutorStart, executorStartPool(), executorStartEntry, logger),
		executorRun:    newChain[host.ExecutorRunHook](PointExecutorRun, executorRunPool(), executorRunEntry, logger),
		executorFinish: newChain[host.ExecutorFinishHook](PointExecutorFinish, executorFinishPool(), executorFinishEntry, logger),
		executorEnd:    newChain[host.ExecutorEndHook](PointExecutorEnd, executorEndPool(), executorEndEntry, logger),
	}
}

// BeforeInit starts owner's initialisation: every host slot is handed a
// fresh trampoline, which the extension will see as its previous hook.
func (m *Manager) BeforeInit(owner string) *API {
	if m.initializing != "" {
		fatalf(ErrCodeInitInProgress, "", owner, "%q has not finished initialising", m.initializing)
	}
	if !m.status.add(owner, false) {
		fatalf(ErrCodeDoubleRegistration, "", owner, "owner already initialised")
	}
	m.initializing = owner

	hooks := &m.host.Hooks
	hooks.Planner = m.planner.beforeRegister(owner, hooks.Planner)
	hooks.ExecutorStart = m.executorStart.beforeRegister(owner, hooks.ExecutorStart)
	hooks.ExecutorRun = m.executorRun.beforeRegister(owner, hooks.ExecutorRun)
	hooks.ExecutorFinish = m.executorFinish.beforeRegister(owner, hooks.ExecutorFinish)
	hooks.ExecutorEnd = m.executorEnd.beforeRegister(owner, hooks.ExecutorEnd)

	return &API{owner: owner, m: m}
}

// AfterInit finishes the current owner's initialisation. Every point whose
// slot the extension overwrote gets a Compatible entry and the slot is
// pointed at the manager; every other point is left as it was.
func (m *Manager) AfterInit() {
	owner := m.initializing
	if owner == "" {
		fatalf(ErrCodeNotInitializing, "", "", "AfterInit without BeforeInit")
	}

	hooks := &m.host.Hooks
	hooks.Planner = m.planner.afterRegister(hooks.Planner)
	hooks.ExecutorStart = m.executorStart.afterRegister(hooks.ExecutorStart)
	hooks.ExecutorRun = m.executorRun.afterRegister(hooks.ExecutorRun)
	hooks.ExecutorFinish = m.executorFinish.afterRegister(hooks.ExecutorFinish)
	hooks.ExecutorEnd = m.executorEnd.afterRegister(hooks.ExecutorEnd)
	m.initializing = ""

	var claimed []string
	for _, c := range m.Chains() {
		if c.Owner == owner {
			claimed = append(claimed, c.Point.String())
		}
	}
	m.logger.Info().Str("owner", owner).Strs("points", claimed).Msg("extension registered")
}

// Current returns the API of the owner being initialised, if any.
func (m *Manager) Current() (*API, bool) {
	if m.initializing == "" {
		return nil, false
	}
	return &API{owner: m.initializing, m: m}, true
}

// Enable turns owner's entries back on. Enabling an owner that has output
// rewriters also enables the internal rewriter owner, which DisableAll may
// have turned off; its rewriters would not run otherwise.
func (m *Manager) Enable(owner string) error {
	if err := m.setEnabled(owner, true); err != nil {
		return err
	}
	if owner == RewriterOwner {
		return nil
	}
	for _, r := range m.rewriters {
		if r.owner == owner {
			return m.status.set(RewriterOwner, true)
		}
	}
	return nil
}

// Disable makes dispatch skip owner's entries and rewriters.
func (m *Manager) Disable(owner string) error {
	return m.setEnabled(owner, false)
}

// EnableAll enables every owner.
func (m *Manager) EnableAll() {
	m.status.setAll(true)
	for _, r := range m.rewriters {
		r.enabled = true
	}
	m.logger.Info().Msg("all owners enabled")
}

// DisableAll disables every owner, leaving the host's standard behaviour.
func (m *Manager) DisableAll() {
	m.status.setAll(false)
	for _, r := range m.rewriters {
		r.enabled = false
	}
	m.logger.Info().Msg("all owners disabled")
}

func (m *Manager) setEnabled(owner string, enabled bool) error {
	if err := m.status.set(owner, enabled); err != nil {
		return err
	}
	for _, r := range m.rewriters {
		if r.owner == owner {
			r.enabled = enabled
		}
	}
	m.logger.Info().Str("owner", owner).Bool("enabled", enabled).Msg("owner toggled")
	return nil
}

// Owners lists every owner in load order.
func (m *Manager) Owners() []OwnerStatus {
	return m.status.list()
}

// Chains lists the entries of every point, points in pipeline order.
func (m *Manager) Chains() []ChainEntry {
	var out []ChainEntry
	out = append(out, m.planner.describe(m.status)...)
	out = append(out, m.executorStart.describe(m.status)...)
	out = append(out, m.executorRun.describe(m.status)...)
	out = append(out, m.executorFinish.describe(m.status)...)
	out = append(out, m.executorEnd.describe(m.status)...)
	return out
}

// Chain lists the entries of one point.
func (m *Manager) Chain(p Point) []ChainEntry {
	var out []ChainEntry
	for _, e := range m.Chains() {
		if e.Point == p {
			out = append(out, e)
		}
	}
	return out
}
