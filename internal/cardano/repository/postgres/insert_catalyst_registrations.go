package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/pkg/safe"
)

// InsertCatalystRegistrations stores decoded registrations.
func (t *Tx) InsertCatalystRegistrations(ctx context.Context, regs []model.CatalystRegistration) (err error) {
	start := time.Now()
	defer func() {
		t.observe("insert_catalyst_registrations", err, start)
	}()

	if len(regs) == 0 {
		return nil
	}

	const query = `
INSERT INTO catalyst_registration (
	catalyst_txn_id,
	block_id,
	tx_index,
	tx_type,
	stake_key,
	stake_hex,
	stake_pub,
	payment_address,
	nonce,
	voting_purpose,
	delegations,
	purpose_uuid,
	x509_compression,
	x509_data,
	validation_signature
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	stmt, err := t.tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare catalyst registration insert: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close statement: %w", closeErr)
		}
	}()

	for _, reg := range regs {
		args, err := registrationArgs(reg)
		if err != nil {
			return fmt.Errorf("catalyst registration of transaction %d: %w", reg.CatalystTransactionID, err)
		}
		if _, err = stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert catalyst registration of transaction %d: %w", reg.CatalystTransactionID, err)
		}
	}
	return nil
}

func registrationArgs(reg model.CatalystRegistration) ([]any, error) {
	nonce, err := safe.Int64Ptr(reg.Nonce)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	purpose, err := safe.Int64Ptr(reg.VotingPurpose)
	if err != nil {
		return nil, fmt.Errorf("voting purpose: %w", err)
	}

	var delegations sql.NullString
	if reg.Delegations != nil {
		b, err := json.Marshal(reg.Delegations)
		if err != nil {
			return nil, fmt.Errorf("encode delegations: %w", err)
		}
		delegations = sql.NullString{String: string(b), Valid: true}
	}

	return []any{
		reg.CatalystTransactionID,
		reg.BlockID,
		reg.TxIndex,
		string(reg.TxType),
		nullString(reg.StakeKey),
		nullString(reg.StakeHex),
		nullString(reg.StakePub),
		nullString(reg.PaymentAddress),
		nonce,
		purpose,
		delegations,
		nullString(reg.PurposeUUID),
		nullString(reg.X509Compression),
		reg.X509Data,
		nullString(reg.ValidationSignature),
	}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
