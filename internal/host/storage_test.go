package host

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pragma(t *testing.T, s *Storage, name string) string {
	t.Helper()
	var value string
	require.NoError(t, s.DB().QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value))
	return value
}

func TestOpen_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, "wal", pragma(t, s, "journal_mode"))
	assert.Equal(t, "1", pragma(t, s, "foreign_keys"))
	assert.Equal(t, "5000", pragma(t, s, "busy_timeout"))
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host.db")
	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		assert.Equal(t, "1", pragma(t, s, "user_version"))
		require.NoError(t, s.Close())
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM pg_extension").Scan(&count))
	assert.Zero(t, count)
}

func TestClose_NilDB(t *testing.T) {
	s := &Storage{}
	assert.NoError(t, s.Close())
}
