package clickhouse

import (
	"context"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=clickhouse

type (
	Metrics interface {
		Observe(operation string, network model.Network, err error, started time.Time)
	}

	// Batch is the part of a ClickHouse batch the repository appends rows through.
	Batch interface {
		Append(v ...any) error
		Send() error
	}

	// Conn prepares batches.
	Conn interface {
		PrepareBatch(ctx context.Context, query string) (Batch, error)
	}
)
