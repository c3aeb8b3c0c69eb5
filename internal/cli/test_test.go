package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

// copyScenarios copies the scenario fixtures into a temp dir so golden
// files can be written.
func copyScenarios(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join("testdata", "scenarios", name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func TestTest_UpdateThenCompare(t *testing.T) {
	dir := copyScenarios(t, "trace.yaml")

	out, err := executeCmd(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ trace (golden updated)")

	golden := filepath.Join(dir, "golden", "trace.golden")
	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Equal(t, "trace", gjson.GetBytes(data, "scenario").String())
	assert.Equal(t, `["planner:S","planner:T"]`, gjson.GetBytes(data, "trace.#.event").Raw)

	out, err = executeCmd(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ trace")
	assert.Contains(t, out, "1 passed, 0 failed, 1 total")
}

func TestTest_GoldenMismatch(t *testing.T) {
	dir := copyScenarios(t, "trace.yaml")
	_, err := executeCmd(t, "test", dir, "--update")
	require.NoError(t, err)

	golden := filepath.Join(dir, "golden", "trace.golden")
	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario":"trace"}`), 0o644))

	out, err := executeCmd(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Equal(t, "error", gjson.Get(out, "status").String())
	assert.Equal(t, "E_TEST_FAILED", gjson.Get(out, "error.code").String())
	assert.Contains(t, gjson.Get(out, "data.scenarios.0.errors.0").String(), "golden file mismatch")
}

func TestTest_AssertionFailure(t *testing.T) {
	dir := copyScenarios(t, "trace.yaml", "broken.yml")

	out, err := executeCmd(t, "test", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	assert.Equal(t, int64(2), gjson.Get(out, "data.total").Int())
	assert.Equal(t, int64(1), gjson.Get(out, "data.passed").Int())
	broken := gjson.Get(out, `data.scenarios.#(name=="broken")`)
	assert.False(t, broken.Get("pass").Bool())
	assert.Equal(t, "missing", broken.Get("golden").String())
	assert.NotEmpty(t, broken.Get("errors").Array())
}

func TestTest_Filter(t *testing.T) {
	dir := copyScenarios(t, "trace.yaml", "broken.yml")

	out, err := executeCmd(t, "test", dir, "--filter", "tr*", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, int64(1), gjson.Get(out, "data.total").Int())
	assert.Equal(t, "trace", gjson.Get(out, "data.scenarios.0.name").String())
}

func TestTest_BadFilter(t *testing.T) {
	_, err := executeCmd(t, "test", copyScenarios(t, "trace.yaml"), "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_NoScenarios(t *testing.T) {
	out, err := executeCmd(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTest_MissingDir(t *testing.T) {
	_, err := executeCmd(t, "test", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTest_LoadError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nbogus: 1\n"), 0o644))

	out, err := executeCmd(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ bad.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestFindScenarioFiles_SkipsGolden(t *testing.T) {
	dir := copyScenarios(t, "trace.yaml")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "x.yaml"), []byte("name: x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore"), 0o644))

	files, err := findScenarioFiles(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "trace.yaml")}, files)
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("scenarios", "golden", "abc.golden"), goldenFilePath(filepath.Join("scenarios", "abc.yaml")))
}
