package extensions

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/roach88/pgext/internal/hookchain"
	"github.com/roach88/pgext/internal/host"
)

// RowMaskOptions configures rowmask.
type RowMaskOptions struct {
	// Mask replaces every rune of a masked value. Defaults to "*".
	Mask string `mapstructure:"mask"`

	// Filter restricts masking to queries whose text contains it, ignoring
	// case. Empty means every query.
	Filter string `mapstructure:"filter"`

	// Columns restricts masking to the named columns. Empty means every
	// text column.
	Columns []string `mapstructure:"columns"`
}

// RowMask is an output rewriter that masks text values.
type RowMask struct {
	name string
	opts RowMaskOptions
	rec  *Recorder
}

type rowMaskInstance struct {
	masked []bool
	rows   int
}

// NewRowMask creates a masking extension.
func NewRowMask(name string, opts RowMaskOptions, rec *Recorder) *RowMask {
	if opts.Mask == "" {
		opts.Mask = "*"
	}
	return &RowMask{name: name, opts: opts, rec: rec}
}

func (m *RowMask) Name() string { return m.name }

func (m *RowMask) Init(h *host.Host) {
	api, ok := hookchain.For(h).Current()
	if !ok {
		logger := h.Logger()
		logger.Warn().Str("extension", m.name).Msg("rowmask needs the hook-chain manager; not installed")
		return
	}

	r := hookchain.Rewriter{
		Startup:  m.startup,
		Receive:  m.receive,
		Shutdown: m.shutdown,
		Destroy:  m.destroy,
	}
	if m.opts.Filter != "" {
		filter := strings.ToLower(m.opts.Filter)
		r.Filter = func(qd *host.QueryDesc) bool {
			return strings.Contains(strings.ToLower(qd.SourceText), filter)
		}
	}
	api.RegisterOutputRewriter(r)
}

func (m *RowMask) startup(_ host.CmdType, desc host.TupleDesc) any {
	m.rec.Record("rewrite:" + m.name + ":startup")
	inst := &rowMaskInstance{masked: make([]bool, desc.NumAtts())}
	for i, col := range desc.Columns {
		inst.masked[i] = len(m.opts.Columns) == 0 || slices.Contains(m.opts.Columns, col.Name)
	}
	return inst
}

func (m *RowMask) receive(instance any, slot *host.Slot, next hookchain.Continuation) bool {
	inst := instance.(*rowMaskInstance)
	inst.rows++
	for i, v := range slot.Values {
		s, ok := v.(string)
		if !ok || i >= len(inst.masked) || !inst.masked[i] {
			continue
		}
		slot.Values[i] = strings.Repeat(m.opts.Mask, utf8.RuneCountInString(s))
	}
	return next()
}

func (m *RowMask) shutdown(instance any) {
	inst := instance.(*rowMaskInstance)
	m.rec.Record(fmt.Sprintf("rewrite:%s:masked=%d", m.name, inst.rows))
}

func (m *RowMask) destroy(any) {
	m.rec.Record("rewrite:" + m.name + ":destroy")
}
