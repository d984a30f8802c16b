package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
)

// InsertCatalystTransactions stores the rows and returns them with their ids set.
func (t *Tx) InsertCatalystTransactions(ctx context.Context, txs []model.CatalystTransaction) (_ []model.CatalystTransaction, err error) {
	start := time.Now()
	defer func() {
		t.observe("insert_catalyst_transactions", err, start)
	}()

	if len(txs) == 0 {
		return txs, nil
	}

	const query = `
INSERT INTO catalyst_txn (
	hash,
	block_id,
	tx_index,
	metadata,
	metadata_labels,
	inputs,
	outputs,
	is_valid,
	payload
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id`

	stmt, err := t.tx.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare catalyst transaction insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close statement: %w", closeErr)
		}
	}()

	out := make([]model.CatalystTransaction, len(txs))
	copy(out, txs)
	for i := range out {
		tx := &out[i]
		if err = stmt.QueryRowContext(ctx,
			tx.Hash,
			tx.BlockID,
			tx.TxIndex,
			string(tx.Metadata),
			string(tx.MetadataLabels),
			string(tx.Inputs),
			string(tx.Outputs),
			tx.IsValid,
			tx.Payload,
		).Scan(&tx.ID); err != nil {
			return nil, fmt.Errorf("insert catalyst transaction %s: %w", tx.Hash, err)
		}
	}
	return out, nil
}

// CatalystTransactionsByHashes returns the stored rows for the given transaction hashes,
// ordered by block and transaction index.
func (t *Tx) CatalystTransactionsByHashes(ctx context.Context, hashes []string) (_ []model.CatalystTransaction, err error) {
	start := time.Now()
	defer func() {
		t.observe("catalyst_transactions_by_hashes", err, start)
	}()

	if len(hashes) == 0 {
		return []model.CatalystTransaction{}, nil
	}

	placeholders := make([]string, len(hashes))
	args := make([]any, len(hashes))
	for i, h := range hashes {
		placeholders[i] = "$" + strconv.Itoa(i+1)
		args[i] = h
	}
	query := `
SELECT id, hash, block_id, tx_index, metadata, metadata_labels, inputs, outputs, is_valid, payload
FROM catalyst_txn
WHERE hash IN (` + strings.Join(placeholders, ", ") + `)
ORDER BY block_id, tx_index`

	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalyst transactions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	out := make([]model.CatalystTransaction, 0, len(hashes))
	for rows.Next() {
		var (
			tx                                      model.CatalystTransaction
			metadata, labels, inputs, outputs, body []byte
		)
		if err = rows.Scan(&tx.ID, &tx.Hash, &tx.BlockID, &tx.TxIndex, &metadata, &labels, &inputs, &outputs, &tx.IsValid, &body); err != nil {
			return nil, fmt.Errorf("scan catalyst transaction: %w", err)
		}
		tx.Metadata = metadata
		tx.MetadataLabels = labels
		tx.Inputs = inputs
		tx.Outputs = outputs
		tx.Payload = body
		out = append(out, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalyst transactions: %w", err)
	}
	return out, nil
}
