package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/pkg/safe"
)

// InsertBlock stores the block row and returns its id.
func (t *Tx) InsertBlock(ctx context.Context, block model.Block) (int64, error) {
	start := time.Now()
	var err error
	defer func() {
		t.observe("insert_block", err, start)
	}()

	height, err := safe.Int64(block.Height)
	if err != nil {
		return 0, fmt.Errorf("block height: %w", err)
	}
	slot, err := safe.Int64(block.Slot)
	if err != nil {
		return 0, fmt.Errorf("block slot: %w", err)
	}
	epoch, err := safe.Int64Ptr(block.Epoch)
	if err != nil {
		return 0, fmt.Errorf("block epoch: %w", err)
	}

	const query = `
INSERT INTO block (
	hash,
	height,
	epoch,
	slot,
	era,
	payload
) VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

	var id int64
	if err = t.tx.QueryRowContext(ctx, query,
		block.Hash,
		height,
		epoch,
		slot,
		int16(block.Era),
		block.Payload,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert block %x: %w", block.Hash, err)
	}
	return id, nil
}
