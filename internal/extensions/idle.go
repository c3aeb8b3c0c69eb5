package extensions

import "github.com/roach88/pgext/internal/host"

// Idle loads but installs nothing.
type Idle struct {
	name string
	rec  *Recorder
}

// NewIdle creates an idle extension.
func NewIdle(name string, rec *Recorder) *Idle {
	return &Idle{name: name, rec: rec}
}

func (i *Idle) Name() string { return i.name }

func (i *Idle) Init(*host.Host) {
	i.rec.Record("init:" + i.name)
}
