package hookchain

// API is the handle an extension uses to talk to the manager during its
// initialisation.
type API struct {
	owner string
	m     *Manager
}

// Owner returns the owner the handle was issued to.
func (a *API) Owner() string {
	return a.owner
}

// RegisterOutputRewriter adds r to the rewriter chain of every query from
// now on. The first registration installs the manager's own Wrapped entry
// on executor_run under RewriterOwner.
func (a *API) RegisterOutputRewriter(r Rewriter) {
	a.m.registerRewriter(a.owner, r)
}
