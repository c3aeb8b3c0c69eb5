package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pgext/internal/extensions"
	"github.com/roach88/pgext/internal/hookchain"
)

// Scenario defines a regression scenario: a set of extensions loaded into a
// fresh host, a sequence of steps, and assertions on what happened.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Seed statements run against storage before any extension loads.
	Seed []string `yaml:"seed,omitempty"`

	// Extensions are loaded in order, like shared_preload_libraries.
	Extensions []ExtensionRef `yaml:"extensions"`

	// ExpectFatal names the fatal registration code loading must abort
	// with. Steps are skipped when loading aborts.
	ExpectFatal string `yaml:"expect_fatal,omitempty"`

	Steps      []Step      `yaml:"steps"`
	Assertions []Assertion `yaml:"assertions"`
}

// ExtensionRef names a bundled extension to load.
type ExtensionRef struct {
	// Name is the owner name. Defaults to Kind.
	Name string `yaml:"name"`

	// Kind selects the constructor from the extension registry.
	Kind string `yaml:"kind"`

	// Options are passed to the constructor.
	Options map[string]any `yaml:"options,omitempty"`

	// Unmanaged loads the extension without BeforeInit/AfterInit, the way
	// a library unaware of the manager would be loaded.
	Unmanaged bool `yaml:"unmanaged,omitempty"`
}

// Step is one action against the running host. Exactly one of the action
// fields is set.
type Step struct {
	Query      string `yaml:"query,omitempty"`
	Disable    string `yaml:"disable,omitempty"`
	Enable     string `yaml:"enable,omitempty"`
	DisableAll bool   `yaml:"disable_all,omitempty"`
	EnableAll  bool   `yaml:"enable_all,omitempty"`

	// ExpectRows checks the number of rows a query delivered.
	ExpectRows *int `yaml:"expect_rows,omitempty"`

	// ExpectError is a substring the query's error must contain. Without
	// it a failing query fails the scenario.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// action returns the name of the step's action, or "" if none or more than
// one is set.
func (s Step) action() string {
	var actions []string
	if s.Query != "" {
		actions = append(actions, "query")
	}
	if s.Disable != "" {
		actions = append(actions, "disable")
	}
	if s.Enable != "" {
		actions = append(actions, "enable")
	}
	if s.DisableAll {
		actions = append(actions, "disable_all")
	}
	if s.EnableAll {
		actions = append(actions, "enable_all")
	}
	if len(actions) != 1 {
		return ""
	}
	return actions[0]
}

// Assertion validates the trace, chains or query output.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Event is used by trace_contains and trace_count.
	Event string `yaml:"event,omitempty"`

	// Events is the expected order for trace_order.
	Events []string `yaml:"events,omitempty"`

	// Count is the expected number of occurrences for trace_count.
	Count int `yaml:"count,omitempty"`

	// Point and Owners describe the expected chain.
	Point  string   `yaml:"point,omitempty"`
	Owners []string `yaml:"owners,omitempty"`

	// Step and Rows describe the expected output of a query step.
	Step int     `yaml:"step,omitempty"`
	Rows [][]any `yaml:"rows,omitempty"`

	// Path and Equals are used by result_path. A nil Equals only checks
	// that the path exists.
	Path   string `yaml:"path,omitempty"`
	Equals any    `yaml:"equals,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertChain         = "chain"
	AssertRows          = "rows"
	AssertResultPath    = "result_path"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 && s.ExpectFatal == "" {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, ext := range s.Extensions {
		if ext.Kind == "" {
			return fmt.Errorf("extensions[%d]: kind is required", i)
		}
		if !extensions.Known(ext.Kind) {
			return fmt.Errorf("extensions[%d]: unknown kind %q (known: %v)", i, ext.Kind, extensions.Kinds())
		}
	}

	for i, step := range s.Steps {
		action := step.action()
		if action == "" {
			return fmt.Errorf("steps[%d]: exactly one of query, disable, enable, disable_all, enable_all is required", i)
		}
		if action != "query" && (step.ExpectRows != nil || step.ExpectError != "") {
			return fmt.Errorf("steps[%d]: expect_rows and expect_error only apply to queries", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion, len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertChain:
		if _, err := hookchain.ParsePoint(a.Point); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	case AssertRows:
		if a.Step < 1 || a.Step > steps {
			return fmt.Errorf("assertions[%d]: step must be between 1 and %d for rows", index, steps)
		}
	case AssertResultPath:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for result_path", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
