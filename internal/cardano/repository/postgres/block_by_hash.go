package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/pkg/safe"
)

const blockByHashQuery = `
SELECT id, hash, height, epoch, slot, era, payload, created_at
FROM block
WHERE hash = $1`

// BlockByHash finds a block outside any transaction. A missing block yields chain.ErrNotFound.
func (r *Repository) BlockByHash(ctx context.Context, hash []byte) (*model.Block, error) {
	start := time.Now()
	var err error
	defer func() {
		r.observe("block_by_hash", ignoreNotFound(err), start)
	}()

	b, err := blockByHash(ctx, r.db, hash)
	return b, err
}

// BlockByHash finds a block inside the transaction.
func (t *Tx) BlockByHash(ctx context.Context, hash []byte) (*model.Block, error) {
	start := time.Now()
	var err error
	defer func() {
		t.observe("block_by_hash", ignoreNotFound(err), start)
	}()

	b, err := blockByHash(ctx, t.tx, hash)
	return b, err
}

func blockByHash(ctx context.Context, q querier, hash []byte) (*model.Block, error) {
	var (
		b      model.Block
		height int64
		epoch  sql.NullInt64
		slot   int64
		era    int16
	)
	err := q.QueryRowContext(ctx, blockByHashQuery, hash).
		Scan(&b.ID, &b.Hash, &height, &epoch, &slot, &era, &b.Payload, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("block %x: %w", hash, chain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query block %x: %w", hash, err)
	}

	if b.Height, err = safe.Uint64(height); err != nil {
		return nil, fmt.Errorf("block height: %w", err)
	}
	if b.Slot, err = safe.Uint64(slot); err != nil {
		return nil, fmt.Errorf("block slot: %w", err)
	}
	if epoch.Valid {
		e, err := safe.Uint64(epoch.Int64)
		if err != nil {
			return nil, fmt.Errorf("block epoch: %w", err)
		}
		b.Epoch = &e
	}
	b.Era = model.Era(era)
	return &b, nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, chain.ErrNotFound) {
		return nil
	}
	return err
}
