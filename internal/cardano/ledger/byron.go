package ledger

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

func decodeByronBoundary(raw cbor.RawMessage) (body, error) {
	items, err := splitArray(raw)
	if err != nil {
		return body{}, err
	}
	if len(items) != 3 {
		return body{}, structuralf("", "expected boundary block of 3 elements, got %d", len(items))
	}
	header, err := splitArray(items[0])
	if err != nil {
		return body{}, annotate(err, "header")
	}
	if len(header) != 5 {
		return body{}, structuralf("header", "expected 5 elements, got %d", len(header))
	}
	prev, err := decodeBytes(header[1])
	if err != nil {
		return body{}, annotate(err, "header.prev_block")
	}
	consensus, err := splitArray(header[3])
	if err != nil || len(consensus) != 2 {
		return body{}, structuralf("header.consensus_data", "malformed consensus data: %v", err)
	}
	epoch, err := decodeUint(consensus[0])
	if err != nil {
		return body{}, annotate(err, "header.consensus_data.epoch")
	}
	number, err := byronDifficulty(consensus[1])
	if err != nil {
		return body{}, annotate(err, "header.consensus_data.difficulty")
	}

	return body{
		header: Header{
			Number:   number,
			Slot:     epoch * byronEpochLength,
			PrevHash: prev,
			Hash:     hash256([]byte{0x82, 0x00}, items[0]),
			Epoch:    &epoch,
			Raw:      items[0],
		},
		txs:     []TransactionBody{},
		aux:     []AuxiliaryData{},
		invalid: []uint16{},
	}, nil
}

func decodeByronMain(raw cbor.RawMessage) (body, error) {
	items, err := splitArray(raw)
	if err != nil {
		return body{}, err
	}
	if len(items) != 3 {
		return body{}, structuralf("", "expected main block of 3 elements, got %d", len(items))
	}
	header, err := splitArray(items[0])
	if err != nil {
		return body{}, annotate(err, "header")
	}
	if len(header) != 5 {
		return body{}, structuralf("header", "expected 5 elements, got %d", len(header))
	}
	prev, err := decodeBytes(header[1])
	if err != nil {
		return body{}, annotate(err, "header.prev_block")
	}
	consensus, err := splitArray(header[3])
	if err != nil || len(consensus) != 4 {
		return body{}, structuralf("header.consensus_data", "malformed consensus data: %v", err)
	}
	var slotID struct {
		_     struct{} `cbor:",toarray"`
		Epoch uint64
		Slot  uint64
	}
	if err := decMode.Unmarshal(consensus[0], &slotID); err != nil {
		return body{}, annotate(err, "header.consensus_data.slot_id")
	}
	number, err := byronDifficulty(consensus[2])
	if err != nil {
		return body{}, annotate(err, "header.consensus_data.difficulty")
	}

	parts, err := splitArray(items[1])
	if err != nil || len(parts) != 4 {
		return body{}, structuralf("body", "malformed byron body: %v", err)
	}
	txs, witnesses, err := decodeByronTxPayload(parts[0])
	if err != nil {
		return body{}, annotate(err, "body.tx_payload")
	}

	epoch := slotID.Epoch
	return body{
		header: Header{
			Number:   number,
			Slot:     slotID.Epoch*byronEpochLength + slotID.Slot,
			PrevHash: prev,
			Hash:     hash256([]byte{0x82, 0x01}, items[0]),
			Epoch:    &epoch,
			Raw:      items[0],
		},
		txs:     txs,
		witness: witnesses,
		aux:     []AuxiliaryData{},
		invalid: []uint16{},
	}, nil
}

func byronDifficulty(raw cbor.RawMessage) (uint64, error) {
	var d []uint64
	if err := decMode.Unmarshal(raw, &d); err != nil {
		return 0, err
	}
	if len(d) != 1 {
		return 0, fmt.Errorf("expected difficulty of 1 element, got %d", len(d))
	}
	return d[0], nil
}

func decodeByronTxPayload(raw cbor.RawMessage) ([]TransactionBody, int, error) {
	entries, err := splitArray(raw)
	if err != nil {
		return nil, 0, err
	}
	txs := make([]TransactionBody, 0, len(entries))
	for i, entry := range entries {
		pair, err := splitArray(entry)
		if err != nil || len(pair) != 2 {
			return nil, 0, structuralf(fmt.Sprintf("[%d]", i), "malformed tx aux: %v", err)
		}
		tx, err := decodeByronTx(pair[0])
		if err != nil {
			return nil, 0, annotate(err, fmt.Sprintf("[%d]", i))
		}
		tx.Index = i
		txs = append(txs, tx)
	}
	return txs, len(entries), nil
}

func decodeByronTx(raw cbor.RawMessage) (TransactionBody, error) {
	fields, err := splitArray(raw)
	if err != nil {
		return TransactionBody{}, err
	}
	if len(fields) != 3 {
		return TransactionBody{}, structuralf("", "expected tx of 3 elements, got %d", len(fields))
	}

	rawInputs, err := splitArray(fields[0])
	if err != nil {
		return TransactionBody{}, annotate(err, "inputs")
	}
	inputs := make([]TxInput, 0, len(rawInputs))
	for i, ri := range rawInputs {
		in, err := decodeByronInput(ri)
		if err != nil {
			return TransactionBody{}, annotate(err, fmt.Sprintf("inputs[%d]", i))
		}
		inputs = append(inputs, in)
	}

	rawOutputs, err := splitArray(fields[1])
	if err != nil {
		return TransactionBody{}, annotate(err, "outputs")
	}
	outputs := make([]TxOutput, 0, len(rawOutputs))
	for i, ro := range rawOutputs {
		parts, err := splitArray(ro)
		if err != nil || len(parts) != 2 {
			return TransactionBody{}, structuralf(fmt.Sprintf("outputs[%d]", i), "malformed output: %v", err)
		}
		coin, err := decodeUint(parts[1])
		if err != nil {
			return TransactionBody{}, annotate(err, fmt.Sprintf("outputs[%d].amount", i))
		}
		// Byron addresses are the CBOR of the whole address item.
		outputs = append(outputs, TxOutput{Address: []byte(parts[0]), Coin: coin})
	}

	return TransactionBody{
		Hash:    hash256(raw),
		Raw:     raw,
		Inputs:  inputs,
		Outputs: outputs,
	}, nil
}

func decodeByronInput(raw cbor.RawMessage) (TxInput, error) {
	parts, err := splitArray(raw)
	if err != nil {
		return TxInput{}, err
	}
	if len(parts) != 2 {
		return TxInput{}, fmt.Errorf("expected input of 2 elements, got %d", len(parts))
	}
	content, tag, tagged, err := untag(parts[1])
	if err != nil {
		return TxInput{}, err
	}
	if !tagged || tag != tagEncodedCBOR {
		return TxInput{}, fmt.Errorf("expected encoded cbor tag %d", tagEncodedCBOR)
	}
	encoded, err := decodeBytes(content)
	if err != nil {
		return TxInput{}, err
	}
	var w inputWire
	if err := decMode.Unmarshal(encoded, &w); err != nil {
		return TxInput{}, err
	}
	return TxInput{TxID: w.TxID, Index: w.Index}, nil
}
