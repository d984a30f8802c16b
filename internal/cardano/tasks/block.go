// Package tasks holds the extraction tasks that can be placed in an execution plan.
package tasks

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/taskgraph"
)

// Output slots.
const (
	SlotBlock                 = "block"
	SlotCatalystTxs           = "catalyst_txs"
	SlotCatalystRegistrations = "catalyst_registrations"
)

// Task names as used in plan files.
const (
	BlockTaskName                = "block"
	CatalystTransactionTaskName  = "catalyst_txn"
	CatalystRegistrationTaskName = "catalyst_registration"
)

// BlockTask persists the block row every other task hangs its records on.
func BlockTask(cfg taskgraph.TaskConfig) taskgraph.Definition {
	return taskgraph.Definition{
		Name:    BlockTaskName,
		Writes:  SlotBlock,
		Execute: executeBlock,
		Config:  cfg,
	}
}

func executeBlock(ctx context.Context, in taskgraph.Input) (any, error) {
	h := in.Block.Header()
	if in.Config.Readonly {
		b, err := in.Tx.BlockByHash(ctx, h.Hash)
		if err != nil {
			return nil, fmt.Errorf("find block %x: %w", h.Hash, err)
		}
		return *b, nil
	}

	epoch := in.Info.Epoch
	if epoch == nil {
		epoch = h.Epoch
	}
	row := model.Block{
		Hash:   h.Hash,
		Height: h.Number,
		Epoch:  epoch,
		Slot:   h.Slot,
		Era:    in.Block.Era(),
	}
	if in.Config.IncludePayload {
		row.Payload = in.Block.Payload()
	}
	id, err := in.Tx.InsertBlock(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("insert block: %w", err)
	}
	row.ID = id
	return row, nil
}
