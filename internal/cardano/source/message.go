// Package source holds the wire format shared by the chain event sources.
package source

import (
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

// Message types.
const (
	TypeIntersect         = "intersect"
	TypeIntersectFound    = "intersect_found"
	TypeIntersectNotFound = "intersect_not_found"
	TypeBlock             = "block"
	TypeRollback          = "rollback"
)

// ErrUnknownMessage is returned for messages that carry no chain event.
var ErrUnknownMessage = errors.New("unknown message type")

// WirePoint is a chain point as sent over the wire.
type WirePoint struct {
	Slot uint64 `json:"slot"`
	Hash string `json:"hash"`
}

// Message is one JSON frame exchanged with a relay or stored in a replay file.
type Message struct {
	Type string `json:"type"`

	Points []WirePoint `json:"points,omitempty"`
	Point  *WirePoint  `json:"point,omitempty"`

	CBORHex     string  `json:"cbor_hex,omitempty"`
	Era         uint64  `json:"era,omitempty"`
	Epoch       *uint64 `json:"epoch,omitempty"`
	EpochSlot   *uint64 `json:"epoch_slot,omitempty"`
	BlockNumber uint64  `json:"block_number,omitempty"`
	BlockHash   string  `json:"block_hash,omitempty"`
	BlockSlot   uint64  `json:"block_slot,omitempty"`
}

// IntersectRequest builds the handshake frame asking to resume after the first known point.
func IntersectRequest(points []model.Point) Message {
	wire := make([]WirePoint, 0, len(points))
	for _, p := range points {
		wire = append(wire, WirePoint{Slot: p.Slot, Hash: p.Hash})
	}
	return Message{Type: TypeIntersect, Points: wire}
}

// Event converts a block or rollback frame to a chain event.
func (m Message) Event() (chain.Event, error) {
	switch m.Type {
	case TypeBlock:
		if m.CBORHex == "" {
			return nil, fmt.Errorf("block %s: empty payload", m.BlockHash)
		}
		return chain.BlockArrival{
			CBORHex:     m.CBORHex,
			EraHint:     m.Era,
			Epoch:       m.Epoch,
			EpochSlot:   m.EpochSlot,
			BlockNumber: m.BlockNumber,
			BlockHash:   m.BlockHash,
			BlockSlot:   m.BlockSlot,
		}, nil
	case TypeRollback:
		return chain.RollBack{BlockSlot: m.BlockSlot, BlockHash: m.BlockHash}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, m.Type)
	}
}

// FromEvent converts a chain event to its wire frame.
func FromEvent(ev chain.Event) (Message, error) {
	switch e := ev.(type) {
	case chain.BlockArrival:
		return Message{
			Type:        TypeBlock,
			CBORHex:     e.CBORHex,
			Era:         e.EraHint,
			Epoch:       e.Epoch,
			EpochSlot:   e.EpochSlot,
			BlockNumber: e.BlockNumber,
			BlockHash:   e.BlockHash,
			BlockSlot:   e.BlockSlot,
		}, nil
	case chain.RollBack:
		return Message{Type: TypeRollback, BlockSlot: e.BlockSlot, BlockHash: e.BlockHash}, nil
	default:
		return Message{}, fmt.Errorf("unsupported event %T", ev)
	}
}

// Matches reports whether the frame is a block sitting at one of points.
func (m Message) Matches(points []model.Point) bool {
	if m.Type != TypeBlock {
		return false
	}
	for _, p := range points {
		if p.Hash == m.BlockHash {
			return true
		}
	}
	return false
}
