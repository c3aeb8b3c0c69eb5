package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/roach88/pgext/internal/hookchain"
)

func strs(results []gjson.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.String()
	}
	return out
}

func TestRun_JSON(t *testing.T) {
	out, err := executeCmd(t, "run", "--ext", "pg_trace", "--catalog", testCatalog, "SELECT 1 AS one", "--format", "json")
	require.NoError(t, err)

	assert.Equal(t, []string{"pg_stats", "pg_trace"}, strs(gjson.Get(out, "data.loaded").Array()))
	assert.Equal(t, "[[1]]", gjson.Get(out, "data.queries.0.rows").Raw)
	assert.Equal(t, `["one"]`, gjson.Get(out, "data.queries.0.columns").Raw)
	assert.Equal(t, "SELECT", gjson.Get(out, "data.queries.0.command").String())
	assert.NotEmpty(t, gjson.Get(out, "data.queries.0.query_id").String())

	assert.Equal(t,
		[]string{"planner:pg_stats", "planner:pg_trace", "executor_run:pg_trace"},
		strs(gjson.Get(out, "data.trace.#.event").Array()))
	assert.Equal(t, []string{"pg_stats", "pg_trace"}, strs(gjson.Get(out, "data.owners.#.name").Array()))
}

func TestRun_SeedAndRewriters(t *testing.T) {
	out, err := executeCmd(t, "run", "--ext", "pg_limit", "--catalog", testCatalog,
		"--seed", "testdata/seed.sql", "SELECT id, name FROM users ORDER BY id", "--format", "json")
	require.NoError(t, err)

	assert.Equal(t, `[[1,"#####"]]`, gjson.Get(out, "data.queries.0.rows").Raw)
	assert.Equal(t, []string{"pg_mask", "pgext", "pg_limit"}, strs(gjson.Get(out, "data.owners.#.name").Array()))
}

func TestRun_Text(t *testing.T) {
	out, err := executeCmd(t, "run", "--ext", "pg_mask", "--catalog", testCatalog,
		"--seed", "testdata/seed.sql", "SELECT name FROM users WHERE id = 2", "-v")
	require.NoError(t, err)

	assert.Contains(t, out, "=> SELECT name FROM users WHERE id = 2")
	assert.Contains(t, out, "###\n")
	assert.NotContains(t, out, "bob")
	assert.Contains(t, out, "(SELECT 1)")
	assert.Contains(t, out, "rewrite:pg_mask:masked=1")
	assert.Regexp(t, `1\s+pgext\s+enabled \(internal\)`, out)
	assert.Contains(t, out, "Chains:")
}

func TestRun_Disable(t *testing.T) {
	out, err := executeCmd(t, "run", "--ext", "pg_trace", "--catalog", testCatalog,
		"--disable", "pg_trace", "SELECT 1", "--format", "json")
	require.NoError(t, err)

	assert.Equal(t, []string{"planner:pg_stats"}, strs(gjson.Get(out, "data.trace.#.event").Array()))
	assert.False(t, gjson.Get(out, "data.owners.1.enabled").Bool())
}

func TestRun_DisableUnknownOwner(t *testing.T) {
	_, err := executeCmd(t, "run", "--ext", "pg_trace", "--catalog", testCatalog, "--disable", "nobody", "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.ErrorIs(t, err, hookchain.ErrOwnerNotFound)
}

func TestRun_NoExtensions(t *testing.T) {
	out, err := executeCmd(t, "run", "SELECT 2 AS two")
	require.NoError(t, err)

	assert.Contains(t, out, "two")
	assert.Contains(t, out, "(SELECT 1)")
	assert.Contains(t, out, "Owners:\n  (none)")
}

func TestRun_QueryError(t *testing.T) {
	out, err := executeCmd(t, "run", "SELECT * FROM missing_table", "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "ERROR: ")
	assert.Contains(t, out, "=> SELECT 1")
}

func TestRun_UnknownExtension(t *testing.T) {
	_, err := executeCmd(t, "run", "--ext", "pg_nope", "--catalog", testCatalog, "SELECT 1")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRun_FatalRegistration(t *testing.T) {
	var b strings.Builder
	for i := range 9 {
		fmt.Fprintf(&b, "plugin: t%d: {kind: \"tracehooks\", options: points: [\"planner\"]}\n", i)
	}
	path := filepath.Join(t.TempDir(), "plugindb.cue")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))

	names := make([]string, 9)
	for i := range names {
		names[i] = fmt.Sprintf("t%d", i)
	}

	out, err := executeCmd(t, "run", "--ext", strings.Join(names, ","), "--catalog", path, "SELECT 1", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, ErrCodeRegistration, gjson.Get(out, "error.code").String())
	assert.Contains(t, gjson.Get(out, "error.message").String(), string(hookchain.ErrCodeCapacityExhausted))
}

func TestRun_RequiresStatement(t *testing.T) {
	_, err := executeCmd(t, "run", "--ext", "pg_trace")
	require.Error(t, err)
}
