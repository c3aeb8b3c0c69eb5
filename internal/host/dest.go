package host

// DestKind tags a DestReceiver implementation so code holding only the
// interface can recognise its own receivers.
type DestKind int

const (
	DestNone DestKind = iota
	DestCollector
	DestDiscard
)

// DestReceiver consumes the rows of one query.
//
// Startup is called once before the first row, Receive once per row,
// Shutdown after the last row and Destroy when the receiver is released.
// Receive returns false to stop the executor early.
type DestReceiver interface {
	Kind() DestKind
	Startup(op CmdType, desc TupleDesc)
	Receive(slot *Slot) bool
	Shutdown()
	Destroy()
}

// Collector keeps every row it receives.
type Collector struct {
	Desc      TupleDesc
	Rows      [][]any
	Started   int
	Shutdowns int
	Destroyed int
}

// NewCollector returns an empty collecting receiver.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Kind() DestKind { return DestCollector }

func (c *Collector) Startup(_ CmdType, desc TupleDesc) {
	c.Started++
	c.Desc = desc
}

func (c *Collector) Receive(slot *Slot) bool {
	row := make([]any, len(slot.Values))
	copy(row, slot.Values)
	c.Rows = append(c.Rows, row)
	return true
}

func (c *Collector) Shutdown() { c.Shutdowns++ }

func (c *Collector) Destroy() { c.Destroyed++ }

// Discard drops all rows.
type Discard struct{}

func (Discard) Kind() DestKind { return DestDiscard }

func (Discard) Startup(CmdType, TupleDesc) {}

func (Discard) Receive(*Slot) bool { return true }

func (Discard) Shutdown() {}

func (Discard) Destroy() {}
