package extensions

import (
	"errors"
	"fmt"
	"sort"

	"github.com/roach88/pgext/internal/host"
)

// ErrUnknownKind is returned for an extension kind with no constructor.
var ErrUnknownKind = errors.New("unknown extension kind")

// Factory builds an extension called name from free-form options.
type Factory func(name string, options map[string]any, rec *Recorder) (host.Extension, error)

var registry = map[string]Factory{
	"tracehooks": func(name string, options map[string]any, rec *Recorder) (host.Extension, error) {
		var opts TraceHooksOptions
		if err := decodeOptions("tracehooks", options, &opts); err != nil {
			return nil, err
		}
		ext, err := NewTraceHooks(name, opts, rec)
		if err != nil {
			return nil, err
		}
		return ext, nil
	},
	"plannerstats": func(name string, options map[string]any, rec *Recorder) (host.Extension, error) {
		if err := decodeOptions("plannerstats", options, &struct{}{}); err != nil {
			return nil, err
		}
		return NewPlannerStats(name, rec), nil
	},
	"rowmask": func(name string, options map[string]any, rec *Recorder) (host.Extension, error) {
		var opts RowMaskOptions
		if err := decodeOptions("rowmask", options, &opts); err != nil {
			return nil, err
		}
		return NewRowMask(name, opts, rec), nil
	},
	"rowlimit": func(name string, options map[string]any, rec *Recorder) (host.Extension, error) {
		opts := RowLimitOptions{Limit: 1}
		if err := decodeOptions("rowlimit", options, &opts); err != nil {
			return nil, err
		}
		ext, err := NewRowLimit(name, opts, rec)
		if err != nil {
			return nil, err
		}
		return ext, nil
	},
	"idle": func(name string, options map[string]any, rec *Recorder) (host.Extension, error) {
		if err := decodeOptions("idle", options, &struct{}{}); err != nil {
			return nil, err
		}
		return NewIdle(name, rec), nil
	},
}

// New builds an extension of the given kind.
func New(kind, name string, options map[string]any, rec *Recorder) (host.Extension, error) {
	f, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	if name == "" {
		name = kind
	}
	return f(name, options, rec)
}

// Kinds returns the registered kinds, sorted.
func Kinds() []string {
	kinds := make([]string, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Known reports whether kind has a constructor.
func Known(kind string) bool {
	_, ok := registry[kind]
	return ok
}
