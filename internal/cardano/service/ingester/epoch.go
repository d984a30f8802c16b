package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/perf"
	"go.uber.org/zap"
)

// checkEpoch closes the running epoch when ev opens a later one. The first epoch seen
// after startup only starts tracking; nothing recorded so far is dropped.
func (s *CardanoSink) checkEpoch(ctx context.Context, ev chain.BlockArrival) {
	if ev.Epoch == nil || int64(*ev.Epoch) <= s.lastEpoch {
		return
	}

	if s.lastEpoch >= 0 {
		elapsed := s.since(s.epochStart)
		overhead := elapsed - s.stages.Sum(perf.StageOverhead) - s.tasks.Sum()
		if overhead < 0 {
			overhead = 0
		}
		s.stages.Set(perf.StageOverhead, overhead)
		s.summarize(ctx, uint64(s.lastEpoch), elapsed)

		s.epochStart = s.now()
		s.stages.Reset()
		s.tasks.Reset()
	}

	s.logger.Info("starting epoch",
		zap.Uint64("epoch", *ev.Epoch),
		zap.Uint64("block_number", ev.BlockNumber),
		zap.String("block_hash", ev.BlockHash),
	)
	s.lastEpoch = int64(*ev.Epoch)
	if s.metrics != nil {
		s.metrics.ObserveEpoch(*ev.Epoch)
	}
}

func (s *CardanoSink) summarize(ctx context.Context, epoch uint64, elapsed time.Duration) {
	fetch := s.stages.Total()[perf.StageBlockFetch]
	working := elapsed - fetch
	if working < 0 {
		working = 0
	}
	s.logger.Info("finished processing epoch",
		zap.Uint64("epoch", epoch),
		zap.Duration("duration", working),
		zap.Duration("block_fetch", fetch),
	)

	stages, tasks := s.stages.Sorted(), s.tasks.Sorted()
	if ce := s.logger.Check(zap.DebugLevel, "epoch time spent"); ce != nil {
		ce.Write(zap.Any("stages", stages), zap.Any("tasks", tasks))
	}

	if s.reports == nil {
		return
	}
	finished := s.now()
	rows := make([]model.EpochReportRow, 0, len(stages)+len(tasks))
	rows = appendRows(rows, s.network, epoch, model.ReportStage, stages, finished)
	rows = appendRows(rows, s.network, epoch, model.ReportTask, tasks, finished)
	if err := s.reports.WriteEpochReport(ctx, rows); err != nil {
		s.logger.Warn("failed to write epoch report", zap.Uint64("epoch", epoch), zap.Error(err))
	}
}

func appendRows(rows []model.EpochReportRow, network model.Network, epoch uint64, kind model.ReportKind, entries []perf.Entry, finished time.Time) []model.EpochReportRow {
	for _, e := range entries {
		rows = append(rows, model.EpochReportRow{
			Network:    network,
			Epoch:      epoch,
			Kind:       kind,
			Name:       e.Name,
			Duration:   e.Duration,
			FinishedAt: finished,
		})
	}
	return rows
}
