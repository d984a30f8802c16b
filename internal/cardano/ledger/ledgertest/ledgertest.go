// Package ledgertest builds CBOR block payloads for tests.
package ledgertest

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var encMode = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor encode mode: %v", err))
	}
	return em
}()

// Marshal encodes v deterministically and panics on failure.
func Marshal(v any) cbor.RawMessage {
	b, err := encMode.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal %T: %v", v, err))
	}
	return b
}

// Map encodes key/value pairs as a definite map, keeping their order. Duplicate keys
// are written as given.
func Map(pairs ...any) cbor.RawMessage {
	if len(pairs)%2 != 0 {
		panic("ledgertest.Map needs key/value pairs")
	}
	var buf bytes.Buffer
	n := len(pairs) / 2
	switch {
	case n < 24:
		buf.WriteByte(0xa0 | byte(n))
	case n < 256:
		buf.Write([]byte{0xb8, byte(n)})
	default:
		buf.Write([]byte{0xb9, byte(n >> 8), byte(n)})
	}
	for _, p := range pairs {
		buf.Write(Marshal(p))
	}
	return buf.Bytes()
}

// AlonzoAux wraps metadata in the tagged auxiliary data encoding.
func AlonzoAux(metadata cbor.RawMessage) cbor.RawMessage {
	return Marshal(cbor.Tag{Number: 259, Content: Map(uint64(0), metadata)})
}

// ShelleyMAAux wraps metadata in the array auxiliary data encoding.
func ShelleyMAAux(metadata cbor.RawMessage) cbor.RawMessage {
	return Marshal([]any{metadata, []any{}})
}

// Input is a transaction input.
type Input struct {
	TxID  []byte
	Index uint64
}

// Output is a transaction output. Map selects the post-Alonzo map encoding.
type Output struct {
	Address []byte
	Coin    uint64
	Map     bool
}

// Tx is a transaction body.
type Tx struct {
	Inputs  []Input
	Outputs []Output
	Fee     uint64
}

// Encode encodes the transaction body.
func (tx Tx) Encode() cbor.RawMessage {
	inputs := make([]any, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		inputs = append(inputs, []any{in.TxID, in.Index})
	}
	outputs := make([]any, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		if out.Map {
			outputs = append(outputs, Map(uint64(0), out.Address, uint64(1), out.Coin))
		} else {
			outputs = append(outputs, []any{out.Address, out.Coin})
		}
	}
	return Map(
		uint64(0), cbor.Tag{Number: 258, Content: inputs},
		uint64(1), outputs,
		uint64(2), tx.Fee,
	)
}

// Block describes a post-Byron block.
type Block struct {
	EraTag   uint64
	Number   uint64
	Slot     uint64
	PrevHash []byte
	Txs      []Tx
	// Aux holds encoded auxiliary data per transaction index, in ascending index order.
	Aux     []AuxEntry
	Invalid []uint16
}

// AuxEntry is the auxiliary data of one transaction.
type AuxEntry struct {
	TxIndex uint64
	Data    cbor.RawMessage
}

// Header encodes the block header.
func (b Block) Header() cbor.RawMessage {
	var prev any
	if b.PrevHash != nil {
		prev = b.PrevHash
	}
	return Marshal([]any{
		[]any{b.Number, b.Slot, prev, bytes.Repeat([]byte{0x01}, 32), bytes.Repeat([]byte{0x02}, 32)},
		bytes.Repeat([]byte{0x03}, 64),
	})
}

// Encode encodes the `[era_tag, block]` envelope.
func (b Block) Encode() []byte {
	bodies := make([]any, 0, len(b.Txs))
	witnesses := make([]any, 0, len(b.Txs))
	for _, tx := range b.Txs {
		bodies = append(bodies, tx.Encode())
		witnesses = append(witnesses, Map())
	}
	aux := make([]any, 0, 2*len(b.Aux))
	for _, a := range b.Aux {
		aux = append(aux, a.TxIndex, a.Data)
	}

	items := []any{b.Header(), bodies, witnesses, Map(aux...)}
	if b.EraTag >= 5 {
		invalid := b.Invalid
		if invalid == nil {
			invalid = []uint16{}
		}
		items = append(items, invalid)
	}
	return Marshal([]any{b.EraTag, items})
}

// EncodeHex encodes the envelope as hex.
func (b Block) EncodeHex() string {
	return hex.EncodeToString(b.Encode())
}

// ByronBoundaryHeader encodes the header of an epoch boundary block.
func ByronBoundaryHeader(epoch, number uint64, prev []byte) cbor.RawMessage {
	return Marshal([]any{
		uint64(764824073),
		prev,
		bytes.Repeat([]byte{0x04}, 32),
		[]any{epoch, []any{number}},
		[]any{map[uint64]any{}},
	})
}

// ByronBoundary encodes an epoch boundary block envelope.
func ByronBoundary(epoch, number uint64, prev []byte) []byte {
	return Marshal([]any{
		uint64(0),
		[]any{ByronBoundaryHeader(epoch, number, prev), []any{}, []any{map[uint64]any{}}},
	})
}

// ByronMainHeader encodes the header of a Byron main block.
func ByronMainHeader(epoch, slot, number uint64, prev []byte) cbor.RawMessage {
	return Marshal([]any{
		uint64(764824073),
		prev,
		bytes.Repeat([]byte{0x04}, 32),
		[]any{
			[]any{epoch, slot},
			bytes.Repeat([]byte{0x05}, 64),
			[]any{number},
			[]any{uint64(0), bytes.Repeat([]byte{0x06}, 64)},
		},
		[]any{[]any{uint64(0), uint64(2)}, map[uint64]any{}},
	})
}

// ByronTx encodes a Byron transaction. Output addresses must already be CBOR.
func ByronTx(tx Tx) cbor.RawMessage {
	inputs := make([]any, 0, len(tx.Inputs))
	for _, in := range tx.Inputs {
		ref := Marshal([]any{in.TxID, in.Index})
		inputs = append(inputs, []any{uint64(0), cbor.Tag{Number: 24, Content: []byte(ref)}})
	}
	outputs := make([]any, 0, len(tx.Outputs))
	for _, out := range tx.Outputs {
		outputs = append(outputs, []any{cbor.RawMessage(out.Address), out.Coin})
	}
	return Marshal([]any{inputs, outputs, map[uint64]any{}})
}

// ByronMain encodes a Byron main block envelope.
func ByronMain(epoch, slot, number uint64, prev []byte, txs []Tx) []byte {
	payload := make([]any, 0, len(txs))
	for _, tx := range txs {
		payload = append(payload, []any{ByronTx(tx), []any{}})
	}
	body := []any{payload, []any{uint64(0), map[uint64]any{}}, []any{}, []any{[]any{}, []any{}}}
	return Marshal([]any{
		uint64(1),
		[]any{ByronMainHeader(epoch, slot, number, prev), body, []any{map[uint64]any{}}},
	})
}

// ByronAddress returns a CBOR encoded Byron style address.
func ByronAddress(seed byte) []byte {
	root := bytes.Repeat([]byte{seed}, 28)
	inner := Marshal([]any{root, map[uint64]any{}, uint64(0)})
	return Marshal([]any{cbor.Tag{Number: 24, Content: []byte(inner)}, uint64(1234567)})
}
