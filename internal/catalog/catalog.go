// Package catalog loads the extension catalog (plugindb.cue).
//
// The catalog names every extension the tooling knows about, which bundled
// kind implements it, how it is installed into a session and what it
// depends on:
//
//	plugin: pg_trace: {
//		kind:             "tracehooks"
//		install_strategy: "preload"
//		dependencies: ["pg_stats"]
//	}
//
// Files are compiled with the CUE Go API and unified with an embedded
// #Plugin schema, so unknown fields and bad strategies are rejected with
// file positions.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/pgext/internal/extensions"
	"github.com/roach88/pgext/internal/host"
)

// DefaultFile is the catalog file name looked up in the working directory.
const DefaultFile = "plugindb.cue"

//go:embed schema.cue
var schemaSource string

// InstallStrategy says how an extension enters a session.
type InstallStrategy string

const (
	StrategyPreload        InstallStrategy = "preload"
	StrategyInstall        InstallStrategy = "install"
	StrategyLoad           InstallStrategy = "load"
	StrategyPreloadInstall InstallStrategy = "preload_install"
	StrategyLoadInstall    InstallStrategy = "load_install"
)

// Preloads reports whether the library belongs in shared_preload_libraries.
func (s InstallStrategy) Preloads() bool {
	return s == StrategyPreload || s == StrategyPreloadInstall
}

// SessionLoads reports whether the library is loaded with LOAD in the session.
func (s InstallStrategy) SessionLoads() bool {
	return s == StrategyLoad || s == StrategyLoadInstall
}

// Installs reports whether the extension needs CREATE EXTENSION.
func (s InstallStrategy) Installs() bool {
	return s == StrategyInstall || s == StrategyPreloadInstall || s == StrategyLoadInstall
}

// Plugin is one catalog entry.
type Plugin struct {
	Name            string          `json:"name"`
	Kind            string          `json:"kind"`
	Version         string          `json:"version"`
	Description     string          `json:"description,omitempty"`
	InstallStrategy InstallStrategy `json:"install_strategy"`
	Dependencies    []string        `json:"dependencies"`
	Options         map[string]any  `json:"options,omitempty"`
	Pos             token.Pos       `json:"-"`
}

// Catalog is a loaded plugindb, in declaration order.
type Catalog struct {
	Plugins []Plugin
	index   map[string]int
}

// CompileError is a catalog validation failure.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load reads and compiles the catalog at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data, path)
}

// Parse compiles catalog source. filename is used for error positions.
func Parse(data []byte, filename string) (*Catalog, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}

	src := ctx.CompileBytes(data, cue.Filename(filename))
	if err := src.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	value := schema.Unify(src)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	cat := &Catalog{index: make(map[string]int)}
	plugins := value.LookupPath(cue.ParsePath("plugin"))
	if !plugins.Exists() {
		return cat, nil
	}

	iter, err := plugins.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		p, err := compilePlugin(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		cat.index[p.Name] = len(cat.Plugins)
		cat.Plugins = append(cat.Plugins, p)
	}

	if err := cat.check(); err != nil {
		return nil, err
	}
	return cat, nil
}

func compilePlugin(name string, v cue.Value) (Plugin, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return Plugin{}, formatCUEError(err)
	}

	// Numbers in options decode as float64; the extension registry
	// converts them with weak typing.
	p := Plugin{Name: name, Pos: v.Pos()}
	if err := json.Unmarshal(raw, &p); err != nil {
		return Plugin{}, &CompileError{
			Field:   "plugin." + name,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	p.Name = name
	if p.Dependencies == nil {
		p.Dependencies = []string{}
	}

	if !extensions.Known(p.Kind) {
		return Plugin{}, &CompileError{
			Field:   "plugin." + name + ".kind",
			Message: fmt.Sprintf("unknown extension kind %q (known: %v)", p.Kind, extensions.Kinds()),
			Pos:     v.LookupPath(cue.ParsePath("kind")).Pos(),
		}
	}
	return p, nil
}

// check validates cross-entry references.
func (c *Catalog) check() error {
	for _, p := range c.Plugins {
		for _, dep := range p.Dependencies {
			if dep == p.Name {
				return &CompileError{
					Field:   "plugin." + p.Name + ".dependencies",
					Message: "plugin depends on itself",
					Pos:     p.Pos,
				}
			}
			if _, ok := c.index[dep]; !ok {
				return &CompileError{
					Field:   "plugin." + p.Name + ".dependencies",
					Message: fmt.Sprintf("unknown dependency %q", dep),
					Pos:     p.Pos,
				}
			}
		}
	}
	if cycles := findCycles(c.Plugins); len(cycles) > 0 {
		first := cycles[0]
		return &CompileError{
			Field:   "plugin." + first.Path[0] + ".dependencies",
			Message: first.Message,
			Pos:     c.Plugins[c.index[first.Path[0]]].Pos,
		}
	}
	return nil
}

// Lookup returns the plugin called name.
func (c *Catalog) Lookup(name string) (Plugin, bool) {
	i, ok := c.index[name]
	if !ok {
		return Plugin{}, false
	}
	return c.Plugins[i], true
}

// Names returns plugin names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.Plugins))
	for i, p := range c.Plugins {
		names[i] = p.Name
	}
	return names
}

// Build constructs the host extensions for plugins, in the given order.
func Build(plugins []Plugin, rec *extensions.Recorder) ([]host.Extension, error) {
	exts := make([]host.Extension, 0, len(plugins))
	for _, p := range plugins {
		ext, err := extensions.New(p.Kind, p.Name, p.Options, rec)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", p.Name, err)
		}
		exts = append(exts, ext)
	}
	return exts, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return &CompileError{Field: "cue", Message: first.Error()}
}
