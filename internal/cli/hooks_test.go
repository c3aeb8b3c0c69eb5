package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestHooks_Text(t *testing.T) {
	out, err := executeCmd(t, "hooks", "--ext", "pg_trace", "--catalog", testCatalog)
	require.NoError(t, err)

	assert.Contains(t, out, "Owners:")
	assert.Regexp(t, `0\s+pg_stats\s+enabled`, out)
	assert.Regexp(t, `planner\s+1\s+pg_trace`, out)
	assert.Regexp(t, `planner_hook: 0x[0-9a-f]+`, out)
	assert.Contains(t, out, "ExecutorStart_hook: <standard>")
}

func TestHooks_JSON(t *testing.T) {
	out, err := executeCmd(t, "hooks", "--ext", "pg_trace,pg_limit", "--catalog", testCatalog, "--format", "json")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"pg_stats", "pg_trace", "pg_mask", "pgext", "pg_limit"},
		strs(gjson.Get(out, "data.owners.#.name").Array()))
	assert.True(t, gjson.Get(out, `data.owners.#(name=="pgext").internal`).Bool())

	planner := gjson.Get(out, `data.chains.#(point=="planner")#.owner`)
	assert.Equal(t, []string{"pg_stats", "pg_trace"}, strs(planner.Array()))

	assert.Equal(t, "planner_hook", gjson.Get(out, "data.slots.0.name").String())
	assert.True(t, gjson.Get(out, "data.slots.0.installed").Bool())
	assert.False(t, gjson.Get(out, "data.slots.1.installed").Bool())
}

func TestHooks_NoExtensions(t *testing.T) {
	out, err := executeCmd(t, "hooks")
	require.NoError(t, err)
	assert.Contains(t, out, "Chains:\n  (none)")
	assert.Contains(t, out, "planner_hook: <standard>")
}
