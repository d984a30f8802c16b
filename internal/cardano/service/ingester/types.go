package ingester

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/taskgraph"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Decoder interface {
		Decode(payload []byte, hints ledger.Hints) (ledger.Block, error)
	}
	Executor interface {
		Execute(ctx context.Context, tx chain.Tx, block ledger.Block, info model.BlockGlobalInfo) (taskgraph.Outputs, error)
	}
	Bootstrapper interface {
		Bootstrap(ctx context.Context, tx chain.Tx) error
	}
	// ReportWriter receives the timing rows of every finished epoch.
	ReportWriter interface {
		WriteEpochReport(ctx context.Context, rows []model.EpochReportRow) error
	}
	SinkMetrics interface {
		ObserveBlock(err error, started time.Time)
		ObserveRollback(err error, deleted int64, started time.Time)
		ObserveEpoch(epoch uint64)
	}
	Sink interface {
		StartFrom(ctx context.Context, from string) ([]model.Point, error)
		Process(ctx context.Context, ev chain.Event) error
		RecordFetch(d time.Duration)
		Stop(ctx context.Context) error
	}
)
