package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/pgext/internal/canonical"
	"github.com/roach88/pgext/internal/hookchain"
)

// GoldenDir is where scenario snapshots live, relative to the test package.
const GoldenDir = "testdata/golden"

// ErrGoldenMismatch is returned by CheckGolden when a snapshot differs.
var ErrGoldenMismatch = errors.New("snapshot differs from golden file")

// snapshot is the observable part of a run: everything except the
// verdict.
type snapshot struct {
	Scenario string                  `json:"scenario"`
	Loaded   []string                `json:"loaded"`
	Fatal    string                  `json:"fatal,omitempty"`
	Owners   []hookchain.OwnerStatus `json:"owners"`
	Chains   []hookchain.ChainEntry  `json:"chains"`
	Trace    []TraceEvent            `json:"trace"`
	Queries  []QueryResult           `json:"queries"`
}

// Snapshot renders a result as canonical JSON.
func Snapshot(name string, result *Result) ([]byte, error) {
	data, err := canonical.Marshal(snapshot{
		Scenario: name,
		Loaded:   result.Loaded,
		Fatal:    result.Fatal,
		Owners:   result.Owners,
		Chains:   result.Chains,
		Trace:    result.Trace,
		Queries:  result.Queries,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", name, err)
	}
	return data, nil
}

// RunWithGolden executes a scenario, fails t on any scenario error and
// compares the snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares the given result's snapshot against a golden file.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}

// CheckGolden compares data with the golden file at path outside of go
// test. With update the file is (re)written instead.
func CheckGolden(path string, data []byte, update bool) error {
	if update {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create golden directory: %w", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write golden file: %w", err)
		}
		return nil
	}

	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(bytes.TrimSpace(want), bytes.TrimSpace(data)) {
		return fmt.Errorf("%w: %s", ErrGoldenMismatch, path)
	}
	return nil
}
