package hookchain

import "fmt"

// OwnerStatus is one row of the owner listing.
type OwnerStatus struct {
	Order    int    `json:"order"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
	Internal bool   `json:"internal,omitempty"`
}

type statusTable struct {
	owners []*OwnerStatus
	index  map[string]*OwnerStatus
}

func newStatusTable() *statusTable {
	return &statusTable{index: make(map[string]*OwnerStatus)}
}

// add registers owner as enabled. It reports false if owner exists.
func (t *statusTable) add(owner string, internal bool) bool {
	if _, ok := t.index[owner]; ok {
		return false
	}
	s := &OwnerStatus{Order: len(t.owners), Name: owner, Enabled: true, Internal: internal}
	t.owners = append(t.owners, s)
	t.index[owner] = s
	return true
}

func (t *statusTable) enabled(owner string) bool {
	s, ok := t.index[owner]
	return ok && s.Enabled
}

func (t *statusTable) set(owner string, enabled bool) error {
	s, ok := t.index[owner]
	if !ok {
		return fmt.Errorf("%w: %s", ErrOwnerNotFound, owner)
	}
	s.Enabled = enabled
	return nil
}

func (t *statusTable) setAll(enabled bool) {
	for _, s := range t.owners {
		s.Enabled = enabled
	}
}

func (t *statusTable) list() []OwnerStatus {
	out := make([]OwnerStatus, len(t.owners))
	for i, s := range t.owners {
		out[i] = *s
	}
	return out
}
