package hookchain

import (
	"github.com/rs/zerolog"

	"github.com/roach88/pgext/internal/host"
)

// Kind says how an entry takes part in dispatch.
type Kind int

const (
	// Compatible entries are an extension's ordinary hook. Calling one ends
	// the manager's walk; the extension continues the chain itself by
	// calling the trampoline it saved as its previous hook.
	Compatible Kind = iota

	// Wrapped entries run before, then the rest of the chain, then after.
	Wrapped
)

// String returns the kind name.
func (k Kind) String() string {
	if k == Wrapped {
		return "wrapped"
	}
	return "compatible"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type entry[F any] struct {
	owner  string
	kind   Kind
	fn     F
	before F
	after  F
}

type reservation[F any] struct {
	id       int
	owner    string
	previous F
	entries  int // len(entries) when the reservation was made
}

// chain is the ordered registry for one point.
//
// links[i] is the position trampoline i resumes dispatch at: the position
// just after the entry of the owner that was handed trampoline i. Wrapped
// entries never take a trampoline, so positions and trampoline ids differ
// as soon as one is registered.
type chain[F any] struct {
	point   Point
	pool    [PoolSize]F
	entry   F
	entries []entry[F]
	links   [PoolSize]int
	nextID  int
	pending *reservation[F]
	logger  zerolog.Logger
}

func newChain[F any](point Point, pool [PoolSize]F, entry F, logger zerolog.Logger) *chain[F] {
	return &chain[F]{
		point:  point,
		pool:   pool,
		entry:  entry,
		logger: logger.With().Stringer("point", point).Logger(),
	}
}

// identityAt returns trampoline i.
func (c *chain[F]) identityAt(i int, owner string) F {
	if i < 0 || i >= PoolSize {
		fatalf(ErrCodeCapacityExhausted, c.point.String(), owner,
			"all %d trampolines are in use", PoolSize)
	}
	return c.pool[i]
}

// resume returns the dispatch position for trampoline id.
func (c *chain[F]) resume(id int) int {
	return c.links[id]
}

// beforeRegister reserves the next trampoline for owner and returns it for
// the host slot. current is what the slot held.
func (c *chain[F]) beforeRegister(owner string, current F) F {
	if c.pending != nil {
		fatalf(ErrCodeInitInProgress, c.point.String(), owner,
			"reservation for %q still pending", c.pending.owner)
	}
	id := c.nextID
	fn := c.identityAt(id, owner)
	c.nextID++
	c.links[id] = len(c.entries) + 1
	c.pending = &reservation[F]{id: id, owner: owner, previous: current, entries: len(c.entries)}

	if addr := host.FuncAddr(current); addr != 0 && addr != host.FuncAddr(c.entry) {
		c.logger.Warn().Str("owner", owner).Msgf("slot holds an unmanaged hook at %#x; it is displaced once %s claims the slot", addr, owner)
	}
	return fn
}

// afterRegister settles the pending reservation given what the slot holds
// now, and returns the value the slot must hold afterwards.
func (c *chain[F]) afterRegister(now F) F {
	r := c.pending
	if r == nil {
		fatalf(ErrCodeNotInitializing, c.point.String(), "", "no pending reservation")
	}
	c.pending = nil

	handed := host.FuncAddr(c.pool[r.id])
	addr := host.FuncAddr(now)
	if addr == handed || addr == 0 {
		c.nextID--
		c.logger.Debug().Str("owner", r.owner).Int("trampoline", r.id).Msg("unclaimed, rolled back")
		// A Wrapped entry registered during this init still needs the
		// manager in the slot, even if an unmanaged hook held it before.
		if len(c.entries) > r.entries || (host.FuncAddr(r.previous) == 0 && len(c.entries) > 0) {
			return c.entry
		}
		return r.previous
	}

	c.checkUnregistered(r.owner)
	c.entries = append(c.entries, entry[F]{owner: r.owner, kind: Compatible, fn: now})
	c.links[r.id] = len(c.entries)
	c.logger.Debug().Str("owner", r.owner).Int("trampoline", r.id).Int("position", len(c.entries)-1).Msg("claimed")
	return c.entry
}

// register appends a Wrapped entry for owner.
func (c *chain[F]) register(owner string, before, after F) {
	c.checkUnregistered(owner)
	c.entries = append(c.entries, entry[F]{owner: owner, kind: Wrapped, before: before, after: after})
	if c.pending != nil {
		c.links[c.pending.id] = len(c.entries) + 1
	}
	c.logger.Debug().Str("owner", owner).Int("position", len(c.entries)-1).Msg("wrapped entry registered")
}

func (c *chain[F]) checkUnregistered(owner string) {
	for _, e := range c.entries {
		if e.owner == owner {
			fatalf(ErrCodeDoubleRegistration, c.point.String(), owner, "owner already has an entry")
		}
	}
}

// walk dispatches from pos: the first enabled entry handles the call, and
// running off the end calls the host's standard implementation.
func walk[F, R any](c *chain[F], status *statusTable, pos int, call func(F) R, standard func() R) R {
	for ; pos < len(c.entries); pos++ {
		e := &c.entries[pos]
		if !status.enabled(e.owner) {
			continue
		}
		c.logger.Debug().Str("owner", e.owner).Stringer("kind", e.kind).Int("position", pos).Msg("dispatch")
		if e.kind == Compatible {
			return call(e.fn)
		}
		return runWrapped(c, status, pos, e, call, standard)
	}
	return standard()
}

// runWrapped calls before, the rest of the chain, then after. after also
// runs when the inner walk panics; the panic then keeps unwinding.
func runWrapped[F, R any](c *chain[F], status *statusTable, pos int, e *entry[F], call func(F) R, standard func() R) R {
	before, after := e.before, e.after
	call(before)

	done := false
	defer func() {
		if !done {
			call(after)
		}
	}()
	walk(c, status, pos+1, call, standard)
	done = true

	return call(after)
}

// describe lists the entries for Chains.
func (c *chain[F]) describe(status *statusTable) []ChainEntry {
	out := make([]ChainEntry, 0, len(c.entries))
	for i, e := range c.entries {
		out = append(out, ChainEntry{
			Point:    c.point,
			Position: i,
			Owner:    e.owner,
			Kind:     e.kind,
			Enabled:  status.enabled(e.owner),
		})
	}
	return out
}
