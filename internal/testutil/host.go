package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pgext/internal/host"
	"github.com/roach88/pgext/internal/logging"
)

// NewHost opens an in-memory host with sequential query ids and a silent
// logger, runs seed statements, and closes the host when the test ends.
func NewHost(t testing.TB, seed ...string) *host.Host {
	t.Helper()
	h, err := host.OpenMemory(
		host.WithIDGenerator(host.NewSequenceGenerator("q")),
		host.WithLogger(logging.Discard()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	for _, stmt := range seed {
		_, err := h.Storage().Exec(context.Background(), stmt)
		require.NoError(t, err, "seed: %s", stmt)
	}
	return h
}
