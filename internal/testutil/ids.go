package testutil

// FixedQueryID hands out the same query id every time.
//
// Useful when a test compares whole QueryDesc values or logs and does not
// care how many queries ran. For per-query ids use
// host.NewSequenceGenerator.
type FixedQueryID struct {
	id string
}

// NewFixedQueryID creates a generator that always returns id. An empty id
// becomes "test-query".
func NewFixedQueryID(id string) *FixedQueryID {
	if id == "" {
		id = "test-query"
	}
	return &FixedQueryID{id: id}
}

// Generate returns the fixed id.
func (g *FixedQueryID) Generate() string {
	return g.id
}
