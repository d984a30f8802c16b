package ingester

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"go.uber.org/zap"
)

// StartFrom resolves where the source should resume, newest point first. An empty from
// resumes after the latest stored block; otherwise streaming restarts at the block with
// hash from. An empty store is bootstrapped with the genesis block first.
func (s *CardanoSink) StartFrom(ctx context.Context, from string) ([]model.Point, error) {
	if sinkState(s.state.Load()) == stateStopped {
		return nil, ErrSinkStopped
	}

	var (
		points []model.Point
		err    error
	)
	if from == "" {
		points, err = s.repo.LatestPoints(ctx, s.intersectPoints)
	} else {
		points, err = s.pointBefore(ctx, from)
	}
	if err != nil {
		return nil, err
	}

	if len(points) == 0 {
		if err := s.bootstrap(ctx); err != nil {
			return nil, err
		}
		if points, err = s.repo.LatestPoints(ctx, 1); err != nil {
			return nil, err
		}
	}

	s.state.CompareAndSwap(int32(stateResolving), int32(stateStreaming))
	s.logger.Info("resolved start point", zap.String("from", from), zap.Any("points", points))
	return points, nil
}

// pointBefore returns the point preceding the block with the given hash, since a source
// continues after the point it is handed. The result is empty for the genesis block.
func (s *CardanoSink) pointBefore(ctx context.Context, from string) ([]model.Point, error) {
	hash, err := hex.DecodeString(from)
	if err != nil {
		return nil, fmt.Errorf("decode resume hash %q: %w", from, err)
	}
	block, err := s.repo.BlockByHash(ctx, hash)
	if errors.Is(err, chain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrResumeBlockNotFound, from)
	}
	if err != nil {
		return nil, fmt.Errorf("find resume block: %w", err)
	}
	points, err := s.repo.PointBefore(ctx, block.ID)
	if err != nil {
		return nil, fmt.Errorf("find point before %s: %w", from, err)
	}
	return points, nil
}

func (s *CardanoSink) bootstrap(ctx context.Context) (err error) {
	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin genesis transaction: %w", err)
	}
	defer func() {
		if err != nil {
			s.rollbackTx(tx)
		}
	}()

	if err = s.genesis.Bootstrap(ctx, tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit genesis: %w", err)
	}
	return nil
}

func (s *CardanoSink) rollbackTx(tx chain.Tx) {
	if err := tx.Rollback(); err != nil {
		s.logger.Error("rollback transaction failed", zap.Error(err))
	}
}
