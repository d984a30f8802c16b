package ingester

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/perf"
	"go.uber.org/zap"
)

func (s *CardanoSink) processBlock(ctx context.Context, ev chain.BlockArrival) (err error) {
	started := s.now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveBlock(err, started)
		}
	}()

	s.checkEpoch(ctx, ev)
	s.flushFetch()

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin block transaction: %w", err)
	}
	defer func() {
		if err != nil {
			s.rollbackTx(tx)
		}
	}()

	parseStarted := s.now()
	payload, err := ledger.DecodeHex(ev.CBORHex)
	if err != nil {
		s.logger.Error("failed to decode hex payload", zap.String("hash", ev.BlockHash), zap.Error(err))
		return err
	}
	block, err := s.decoder.Decode(payload, ledger.Hints{Epoch: ev.Epoch, EpochSlot: ev.EpochSlot})
	if err != nil {
		return fmt.Errorf("decode block %s: %w", ev.BlockHash, err)
	}
	s.stages.Record(perf.StageBlockParse, s.since(parseStarted))

	info := model.BlockGlobalInfo{
		Era:       block.Era(),
		Epoch:     ev.Epoch,
		EpochSlot: ev.EpochSlot,
	}

	processStarted := s.now()
	tasksBefore := s.tasks.Sum()
	if _, err = s.executor.Execute(ctx, tx, block, info); err != nil {
		return fmt.Errorf("process block %s: %w", ev.BlockHash, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit block %s: %w", ev.BlockHash, err)
	}
	// Task time is tracked separately, only the remainder counts as processing.
	processing := s.since(processStarted) - (s.tasks.Sum() - tasksBefore)
	if processing > 0 {
		s.stages.Record(perf.StageBlockProcess, processing)
	}
	return nil
}
