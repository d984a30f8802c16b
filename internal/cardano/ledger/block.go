// Package ledger decodes raw Cardano blocks of every era into typed, era-tagged values.
package ledger

import (
	"sort"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

// Block is a decoded block. The concrete type is one of the per-era variants below.
type Block interface {
	// EraTag returns the tag of the block envelope (0 and 1 are Byron).
	EraTag() uint64
	Era() model.Era
	Header() Header
	TransactionBodies() []TransactionBody
	WitnessSetCount() int
	// AuxiliaryData returns per-transaction auxiliary data ordered by transaction index.
	AuxiliaryData() []AuxiliaryData
	AuxiliaryDataFor(txIndex int) (AuxiliaryData, bool)
	InvalidTransactions() []uint16
	IsEmpty() bool
	// Payload returns the envelope bytes the block was decoded from.
	Payload() []byte

	sealed()
}

// Header holds the header fields the ingester needs.
type Header struct {
	Number   uint64
	Slot     uint64
	PrevHash []byte
	Hash     []byte
	// Epoch is only known from Byron headers.
	Epoch *uint64
	Raw   []byte
}

// TxInput references an output of a previous transaction.
type TxInput struct {
	TxID  []byte
	Index uint64
}

// TxOutput is an address and its lovelace amount.
type TxOutput struct {
	Address []byte
	Coin    uint64
}

// TransactionBody is a transaction body with its hash and raw encoding.
type TransactionBody struct {
	Index   int
	Hash    []byte
	Raw     []byte
	Inputs  []TxInput
	Outputs []TxOutput
}

// AuxiliaryData is the metadata attached to one transaction.
type AuxiliaryData struct {
	TxIndex  uint16
	Metadata Metadata
	Raw      []byte
}

type body struct {
	tag     uint64
	era     model.Era
	header  Header
	txs     []TransactionBody
	witness int
	aux     []AuxiliaryData
	invalid []uint16
	payload []byte
}

func (b *body) EraTag() uint64 { return b.tag }
func (b *body) Era() model.Era { return b.era }
func (b *body) Header() Header { return b.header }
func (b *body) TransactionBodies() []TransactionBody { return b.txs }
func (b *body) WitnessSetCount() int { return b.witness }
func (b *body) AuxiliaryData() []AuxiliaryData { return b.aux }
func (b *body) InvalidTransactions() []uint16 { return b.invalid }
func (b *body) IsEmpty() bool { return len(b.txs) == 0 }
func (b *body) Payload() []byte { return b.payload }
func (b *body) sealed() {}

func (b *body) AuxiliaryDataFor(txIndex int) (AuxiliaryData, bool) {
	i := sort.Search(len(b.aux), func(i int) bool { return int(b.aux[i].TxIndex) >= txIndex })
	if i < len(b.aux) && int(b.aux[i].TxIndex) == txIndex {
		return b.aux[i], true
	}
	return AuxiliaryData{}, false
}

type (
	ByronBoundaryBlock struct{ body }
	ByronBlock         struct{ body }
	ShelleyBlock       struct{ body }
	AllegraBlock       struct{ body }
	MaryBlock          struct{ body }
	AlonzoBlock        struct{ body }
	BabbageBlock       struct{ body }
	ConwayBlock        struct{ body }
)

// wrap picks the era variant for an envelope tag.
func wrap(b body) Block {
	switch b.tag {
	case 0:
		return &ByronBoundaryBlock{b}
	case 1:
		return &ByronBlock{b}
	case 2:
		return &ShelleyBlock{b}
	case 3:
		return &AllegraBlock{b}
	case 4:
		return &MaryBlock{b}
	case 5:
		return &AlonzoBlock{b}
	case 6:
		return &BabbageBlock{b}
	default:
		return &ConwayBlock{b}
	}
}

// InvalidSet returns the invalid transaction indices as a set.
func InvalidSet(b Block) map[int]struct{} {
	set := make(map[int]struct{}, len(b.InvalidTransactions()))
	for _, idx := range b.InvalidTransactions() {
		set[int(idx)] = struct{}{}
	}
	return set
}
