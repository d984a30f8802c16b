package chain

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

//go:generate mockgen -source=$GOFILE -destination=chainmock/source.go -package=chainmock

// Source delivers the chain event stream.
type Source interface {
	// Start begins streaming after the first of points the source knows. An empty list starts at origin.
	Start(ctx context.Context, points []model.Point) error
	// Next blocks until the next event is available.
	Next(ctx context.Context) (Event, error)
	Close() error
}
