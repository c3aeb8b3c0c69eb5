package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"abc_chain", "rewriters"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata/scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_ExcludesVerdict(t *testing.T) {
	r := NewResult()
	r.AddError("boom")

	data, err := Snapshot("x", r)
	require.NoError(t, err)
	assert.Equal(t, `{"chains":[],"loaded":[],"owners":[],"queries":[],"scenario":"x","trace":[]}`, string(data))
}

func TestCheckGolden(t *testing.T) {
	path := filepath.Join(t.TempDir(), "golden", "x.golden")

	require.ErrorContains(t, CheckGolden(path, []byte("{}"), false), "read golden file")
	require.NoError(t, CheckGolden(path, []byte("{}"), true))
	require.NoError(t, CheckGolden(path, []byte("{}"), false))

	err := CheckGolden(path, []byte(`{"a":1}`), false)
	assert.ErrorIs(t, err, ErrGoldenMismatch)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
