package tasks

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/taskgraph"
	"go.uber.org/zap"
)

var catalystLabels = func() map[uint64]struct{} {
	set := make(map[uint64]struct{})
	for _, l := range model.CatalystLabels() {
		set[l] = struct{}{}
	}
	return set
}()

// CatalystTransactionTask stores transactions whose metadata carries a Catalyst label.
func CatalystTransactionTask(cfg taskgraph.TaskConfig, logger *zap.Logger) taskgraph.Definition {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := catalystTask{logger: logger.Named(CatalystTransactionTaskName)}
	return taskgraph.Definition{
		Name:      CatalystTransactionTaskName,
		Eras:      model.MultiEras(),
		Reads:     []string{SlotBlock},
		Writes:    SlotCatalystTxs,
		ShouldRun: hasAuxiliaryData,
		Execute:   t.execute,
		Config:    cfg,
	}
}

type catalystTask struct {
	logger *zap.Logger
}

func hasAuxiliaryData(block ledger.Block, _ taskgraph.TaskConfig) bool {
	return !block.IsEmpty() && len(block.AuxiliaryData()) > 0
}

type inputJSON struct {
	TransactionID string `json:"transaction_id"`
	Index         uint64 `json:"index"`
}

type outputJSON struct {
	Address string `json:"address"`
	Amount  uint64 `json:"amount"`
}

// catalystIndices returns the indices of transactions with Catalyst metadata, ascending.
// Auxiliary data without a matching transaction body is skipped.
func (t catalystTask) catalystIndices(block ledger.Block) []int {
	txCount := len(block.TransactionBodies())
	var indices []int
	for _, aux := range block.AuxiliaryData() {
		if !aux.Metadata.HasAny(catalystLabels) {
			continue
		}
		if int(aux.TxIndex) >= txCount {
			t.logger.Warn("skipping auxiliary data without a transaction",
				zap.Uint16("tx_index", aux.TxIndex),
				zap.Int("transactions", txCount),
				zap.Uint64("slot", block.Header().Slot),
			)
			continue
		}
		indices = append(indices, int(aux.TxIndex))
	}
	return indices
}

func (t catalystTask) execute(ctx context.Context, in taskgraph.Input) (any, error) {
	blockRow, err := taskgraph.Get[model.Block](in, SlotBlock)
	if err != nil {
		return nil, err
	}
	indices := t.catalystIndices(in.Block)
	if len(indices) == 0 {
		return []model.CatalystTransaction{}, nil
	}

	bodies := in.Block.TransactionBodies()
	if in.Config.Readonly {
		hashes := make([]string, 0, len(indices))
		for _, idx := range indices {
			hashes = append(hashes, hex.EncodeToString(bodies[idx].Hash))
		}
		txs, err := in.Tx.CatalystTransactionsByHashes(ctx, hashes)
		if err != nil {
			return nil, fmt.Errorf("find catalyst transactions: %w", err)
		}
		return txs, nil
	}

	invalid := ledger.InvalidSet(in.Block)
	rows := make([]model.CatalystTransaction, 0, len(indices))
	for _, idx := range indices {
		aux, _ := in.Block.AuxiliaryDataFor(idx)
		row, err := catalystRow(blockRow.ID, bodies[idx], aux, in.Config.IncludePayload)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", idx, err)
		}
		_, bad := invalid[idx]
		row.IsValid = !bad
		rows = append(rows, row)
	}

	inserted, err := in.Tx.InsertCatalystTransactions(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("insert catalyst transactions: %w", err)
	}
	return inserted, nil
}

func catalystRow(blockID int64, body ledger.TransactionBody, aux ledger.AuxiliaryData, includePayload bool) (model.CatalystTransaction, error) {
	metadata, err := json.Marshal(aux.Metadata)
	if err != nil {
		return model.CatalystTransaction{}, fmt.Errorf("encode metadata: %w", err)
	}
	labels, err := json.Marshal(aux.Metadata.Labels(catalystLabels))
	if err != nil {
		return model.CatalystTransaction{}, fmt.Errorf("encode labels: %w", err)
	}

	inputs := make([]inputJSON, 0, len(body.Inputs))
	for _, i := range body.Inputs {
		inputs = append(inputs, inputJSON{TransactionID: hex.EncodeToString(i.TxID), Index: i.Index})
	}
	outputs := make([]outputJSON, 0, len(body.Outputs))
	for _, o := range body.Outputs {
		outputs = append(outputs, outputJSON{Address: ledger.SafeAddressString(o.Address), Amount: o.Coin})
	}
	inputsJSON, err := json.Marshal(inputs)
	if err != nil {
		return model.CatalystTransaction{}, fmt.Errorf("encode inputs: %w", err)
	}
	outputsJSON, err := json.Marshal(outputs)
	if err != nil {
		return model.CatalystTransaction{}, fmt.Errorf("encode outputs: %w", err)
	}

	row := model.CatalystTransaction{
		Hash:           hex.EncodeToString(body.Hash),
		BlockID:        blockID,
		TxIndex:        int32(body.Index),
		Metadata:       metadata,
		MetadataLabels: labels,
		Inputs:         inputsJSON,
		Outputs:        outputsJSON,
	}
	if includePayload {
		row.Payload = body.Raw
	}
	return row, nil
}
