// Package chain defines the events, sources and persistence interfaces shared between Cardano ingestion components.
package chain

// Event is one item of the ordered chain event stream: a BlockArrival or a RollBack.
type Event interface {
	event()
}

// BlockArrival carries a raw block as produced by the chain source.
type BlockArrival struct {
	// CBORHex is the hex encoded `[era_tag, block]` envelope.
	CBORHex     string
	EraHint     uint64
	Epoch       *uint64
	EpochSlot   *uint64
	BlockNumber uint64
	BlockHash   string
	BlockSlot   uint64
}

// RollBack asks to discard every block after the named point.
type RollBack struct {
	BlockSlot uint64
	BlockHash string
}

func (BlockArrival) event() {}
func (RollBack) event()     {}
