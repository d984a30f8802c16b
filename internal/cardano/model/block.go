package model

import (
	"encoding/hex"
	"time"
)

// Point is a chain position identified by slot and block hash.
type Point struct {
	Slot uint64
	Hash string
}

// Block is a block row persisted in Postgres. ID grows with arrival order.
type Block struct {
	ID        int64
	Hash      []byte
	Height    uint64
	Epoch     *uint64
	Slot      uint64
	Era       Era
	Payload   []byte
	CreatedAt time.Time
}

// Point returns the chain position of the block.
func (b Block) Point() Point {
	return Point{Slot: b.Slot, Hash: hex.EncodeToString(b.Hash)}
}

// BlockGlobalInfo is derived once per block and handed read-only to every task.
type BlockGlobalInfo struct {
	Era       Era
	Epoch     *uint64
	EpochSlot *uint64
}
