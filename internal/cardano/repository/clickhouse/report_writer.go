package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/pkg/batcher"
	"go.uber.org/zap"
)

// ReportInserter persists report rows.
type ReportInserter interface {
	InsertEpochReports(ctx context.Context, rows []model.EpochReportRow) error
}

// ReportWriter queues epoch reports and writes them in the background so that a slow
// ClickHouse never holds up block ingestion.
type ReportWriter struct {
	batcher *batcher.Batcher[model.EpochReportRow]
}

// NewReportWriter builds a ReportWriter flushing through inserter.
func NewReportWriter(inserter ReportInserter, logger *zap.Logger, cfg batcher.Config) *ReportWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	return &ReportWriter{
		batcher: batcher.New(logger.Named("report_writer"), inserter.InsertEpochReports, cfg),
	}
}

// Start starts the background writer.
func (w *ReportWriter) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

// Stop flushes queued rows and stops the writer.
func (w *ReportWriter) Stop() {
	w.batcher.Stop()
}

// WriteEpochReport queues the rows of one epoch.
func (w *ReportWriter) WriteEpochReport(ctx context.Context, rows []model.EpochReportRow) error {
	return w.batcher.Add(ctx, rows...)
}
