package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pgext/internal/host"
)

func TestFixedQueryID(t *testing.T) {
	g := NewFixedQueryID("q-fixed")
	assert.Equal(t, "q-fixed", g.Generate())
	assert.Equal(t, "q-fixed", g.Generate())
}

func TestFixedQueryID_Default(t *testing.T) {
	assert.Equal(t, "test-query", NewFixedQueryID("").Generate())
}

func TestFixedQueryID_IsIDGenerator(t *testing.T) {
	var _ host.IDGenerator = NewFixedQueryID("x")
}

func TestNewHost_Seeds(t *testing.T) {
	h := NewHost(t,
		"CREATE TABLE t (n INTEGER)",
		"INSERT INTO t VALUES (1), (2)",
	)

	dest := host.NewCollector()
	res, err := h.Exec(context.Background(), "SELECT n FROM t ORDER BY n", dest)
	require.NoError(t, err)
	assert.Equal(t, "q-1", res.QueryID)
	assert.Len(t, dest.Rows, 2)
}
