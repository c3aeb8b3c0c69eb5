package hookchain

import "github.com/roach88/pgext/internal/host"

type managed struct {
	ext host.Extension
}

// Wrap returns an extension whose Init runs ext's Init between BeforeInit
// and AfterInit, so that ext is loaded into the manager's chains without
// knowing about them.
func Wrap(ext host.Extension) host.Extension {
	return &managed{ext: ext}
}

func (w *managed) Name() string {
	return w.ext.Name()
}

func (w *managed) Init(h *host.Host) {
	m := For(h)
	m.BeforeInit(w.ext.Name())
	w.ext.Init(h)
	m.AfterInit()
}

// Version forwards the wrapped extension's version, if it has one.
func (w *managed) Version() string {
	if v, ok := w.ext.(host.Versioned); ok {
		return v.Version()
	}
	return ""
}

// Unwrap returns the wrapped extension.
func (w *managed) Unwrap() host.Extension {
	return w.ext
}
