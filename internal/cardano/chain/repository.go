package chain

import (
	"context"
	"errors"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

//go:generate mockgen -source=$GOFILE -destination=chainmock/repository.go -package=chainmock

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// Repository describes the persistence operations the sink needs outside of block transactions.
type Repository interface {
	Begin(ctx context.Context) (Tx, error)
	// LatestPoints returns up to count points, newest first.
	LatestPoints(ctx context.Context, count int) ([]model.Point, error)
	BlockByHash(ctx context.Context, hash []byte) (*model.Block, error)
	// PointBefore returns the point of the block with the greatest id below id, or an empty slice.
	PointBefore(ctx context.Context, id int64) ([]model.Point, error)
	CountBlocks(ctx context.Context) (int64, error)
	// DeleteBlocksAfter deletes blocks with an id greater than id and reports how many were removed.
	DeleteBlocksAfter(ctx context.Context, id int64) (int64, error)
}

// Tx is the transaction handle a block is processed in. It is not safe for concurrent use.
type Tx interface {
	Commit() error
	Rollback() error

	InsertBlock(ctx context.Context, block model.Block) (int64, error)
	BlockByHash(ctx context.Context, hash []byte) (*model.Block, error)
	// InsertCatalystTransactions inserts the rows and returns them with their ids set.
	InsertCatalystTransactions(ctx context.Context, txs []model.CatalystTransaction) ([]model.CatalystTransaction, error)
	CatalystTransactionsByHashes(ctx context.Context, hashes []string) ([]model.CatalystTransaction, error)
	InsertCatalystRegistrations(ctx context.Context, regs []model.CatalystRegistration) error
}
