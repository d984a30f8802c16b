package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

const insertEpochReportsQuery = `
INSERT INTO cardano_epoch_perf_reports (
	network,
	epoch,
	kind,
	name,
	duration_ms,
	finished_at
) VALUES`

// InsertEpochReports stores the stage and task totals of finished epochs.
func (r *Repository) InsertEpochReports(ctx context.Context, rows []model.EpochReportRow) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_epoch_reports", firstNetwork(rows), err, start)
	}()

	if len(rows) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertEpochReportsQuery)
	if err != nil {
		return fmt.Errorf("prepare epoch reports batch: %w", err)
	}

	for _, row := range rows {
		if err = batch.Append(
			string(row.Network),
			row.Epoch,
			string(row.Kind),
			row.Name,
			uint64(row.Duration.Milliseconds()),
			row.FinishedAt,
		); err != nil {
			return fmt.Errorf("append epoch report: %w", err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert epoch reports: %w", err)
	}
	return nil
}

func firstNetwork(rows []model.EpochReportRow) model.Network {
	if len(rows) == 0 {
		return ""
	}
	return rows[0].Network
}
