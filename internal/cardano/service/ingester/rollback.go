package ingester

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/perf"
	"go.uber.org/zap"
)

// rollback deletes every block stored after the rollback target. A missing target is
// tolerated only while the store holds at most the genesis block.
func (s *CardanoSink) rollback(ctx context.Context, ev chain.RollBack) (err error) {
	s.flushFetch()
	if ev.BlockSlot == 0 {
		s.logger.Info("rolling back to genesis", zap.String("hash", ev.BlockHash))
	} else {
		s.logger.Info("rolling back to block",
			zap.String("hash", ev.BlockHash),
			zap.Uint64("slot", ev.BlockSlot-1),
		)
	}

	started := s.now()
	var deleted int64
	defer func() {
		s.stages.Record(perf.StageRollback, s.since(started))
		if s.metrics != nil {
			s.metrics.ObserveRollback(err, deleted, started)
		}
	}()

	hash, err := hex.DecodeString(ev.BlockHash)
	if err != nil {
		return fmt.Errorf("decode rollback hash %q: %w", ev.BlockHash, err)
	}

	target, err := s.repo.BlockByHash(ctx, hash)
	switch {
	case errors.Is(err, chain.ErrNotFound):
		count, countErr := s.repo.CountBlocks(ctx)
		if countErr != nil {
			return fmt.Errorf("count blocks: %w", countErr)
		}
		if count > 1 {
			return fmt.Errorf("%w: %s", ErrRollbackTargetNotFound, ev.BlockHash)
		}
		return nil
	case err != nil:
		return fmt.Errorf("find rollback target: %w", err)
	}

	deleted, err = s.repo.DeleteBlocksAfter(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("delete blocks after %d: %w", target.ID, err)
	}
	s.logger.Debug("rolled back", zap.Int64("target_id", target.ID), zap.Int64("deleted", deleted))
	return nil
}
