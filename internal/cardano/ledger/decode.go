package ledger

import (
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"go.uber.org/zap"
)

const (
	conwayEraTag     = 7
	byronEpochLength = 21600
)

// Hints carries chain position details known by the event source. They only name
// diagnostic artifacts; decoding never depends on them.
type Hints struct {
	Epoch     *uint64
	EpochSlot *uint64
}

// ArtifactWriter stores raw payloads that needed the fallback decoder.
type ArtifactWriter interface {
	WriteArtifact(name string, payload []byte) (string, error)
}

// Decoder turns raw block payloads into era-tagged blocks.
type Decoder struct {
	logger    *zap.Logger
	artifacts ArtifactWriter
}

// NewDecoder builds a Decoder. artifacts may be nil to skip writing diagnostic files.
func NewDecoder(logger *zap.Logger, artifacts ArtifactWriter) *Decoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Decoder{logger: logger, artifacts: artifacts}
}

// DecodeHex decodes the hex transport encoding of a block payload.
func DecodeHex(s string) ([]byte, error) {
	payload, err := hex.DecodeString(s)
	if err != nil {
		return nil, &DecodeError{Kind: KindTransport, Location: "cbor_hex", Err: err}
	}
	return payload, nil
}

// Decode decodes a payload, falling back to a header-only block when the standard
// decoder hits a duplicate complex metadata key.
func (d *Decoder) Decode(payload []byte, hints Hints) (Block, error) {
	block, err := DecodeBlock(payload)
	if err == nil {
		return block, nil
	}
	if !IsDuplicateComplexKey(err) {
		d.logger.Error("failed to deserialize block cbor", zap.Error(err))
		return nil, err
	}

	d.logger.Warn("detected duplicate key error, using header-only decoder", zap.Error(err))
	d.saveArtifact(payload, hints)

	block, fallbackErr := DecodeHeaderOnly(payload)
	if fallbackErr != nil {
		d.logger.Error("failed to parse with header-only decoder", zap.Error(fallbackErr))
		return nil, fmt.Errorf("header-only decode after %v: %w", err, fallbackErr)
	}
	d.logger.Info("created header-only block",
		zap.Stringer("era", block.Era()),
		zap.Uint64("slot", block.Header().Slot),
	)
	return block, nil
}

func (d *Decoder) saveArtifact(payload []byte, hints Hints) {
	if d.artifacts == nil {
		return
	}
	name := ProblematicBlockName(hints.Epoch, hints.EpochSlot)
	path, err := d.artifacts.WriteArtifact(name, payload)
	if err != nil {
		d.logger.Error("failed to write problematic block", zap.String("name", name), zap.Error(err))
		return
	}
	d.logger.Info("saved problematic block cbor", zap.String("path", path))
}

// ProblematicBlockName names the diagnostic artifact of a block.
func ProblematicBlockName(epoch, epochSlot *uint64) string {
	var e, s uint64
	if epoch != nil {
		e = *epoch
	}
	if epochSlot != nil {
		s = *epochSlot
	}
	return fmt.Sprintf("problematic_block_epoch%d_slot%d.cbor", e, s)
}

// DecodeBlock decodes a `[era_tag, block]` envelope with the standard decoder.
func DecodeBlock(payload []byte) (Block, error) {
	r := newReader(payload)
	if err := r.arrayHeader(2); err != nil {
		return nil, annotate(err, "envelope")
	}
	tag, err := r.uint()
	if err != nil {
		return nil, annotate(err, "block_era_tag")
	}
	era, err := model.EraFromTag(tag)
	if err != nil {
		return nil, annotate(err, "block_era_tag")
	}
	raw, err := r.item()
	if err != nil {
		return nil, annotate(err, "block")
	}
	if !r.done() {
		return nil, structuralf("envelope", "%d trailing bytes", len(payload)-r.pos)
	}

	var b body
	switch tag {
	case 0:
		b, err = decodeByronBoundary(raw)
	case 1:
		b, err = decodeByronMain(raw)
	default:
		b, err = decodeShelleyFamily(raw, tag >= 5)
	}
	if err != nil {
		return nil, annotate(err, era.String())
	}
	b.tag = tag
	b.era = era
	b.payload = payload
	return wrap(b), nil
}

// DecodeHeaderOnly reads the envelope prefix and the header of a Conway block and
// returns a block with no transactions, witnesses or auxiliary data.
func DecodeHeaderOnly(payload []byte) (Block, error) {
	r := newReader(payload)
	if err := r.arrayHeader(2); err != nil {
		return nil, annotate(err, "envelope")
	}
	tag, err := r.uint()
	if err != nil {
		return nil, annotate(err, "block_era_tag")
	}
	if tag != conwayEraTag {
		return nil, structuralf("block_era_tag", "expected conway era tag %d, got %d", conwayEraTag, tag)
	}
	if err := r.arrayHeader(5); err != nil {
		return nil, annotate(err, "block")
	}
	rawHeader, err := r.item()
	if err != nil {
		return nil, annotate(err, "header")
	}
	header, err := decodeShelleyHeader(rawHeader)
	if err != nil {
		return nil, annotate(err, "header")
	}
	return &ConwayBlock{body{
		tag:     tag,
		era:     model.Conway,
		header:  header,
		txs:     []TransactionBody{},
		aux:     []AuxiliaryData{},
		invalid: []uint16{},
		payload: payload,
	}}, nil
}

func decodeShelleyFamily(raw cbor.RawMessage, withInvalid bool) (body, error) {
	items, err := splitArray(raw)
	if err != nil {
		return body{}, err
	}
	want := 4
	if withInvalid {
		want = 5
	}
	if len(items) != want {
		return body{}, structuralf("", "expected block of %d elements, got %d", want, len(items))
	}

	header, err := decodeShelleyHeader(items[0])
	if err != nil {
		return body{}, annotate(err, "header")
	}

	rawBodies, err := splitArray(items[1])
	if err != nil {
		return body{}, annotate(err, "transaction_bodies")
	}
	txs := make([]TransactionBody, 0, len(rawBodies))
	for i, rb := range rawBodies {
		tx, err := decodeTransactionBody(rb)
		if err != nil {
			return body{}, annotate(err, fmt.Sprintf("transaction_bodies[%d]", i))
		}
		tx.Index = i
		txs = append(txs, tx)
	}

	witnesses, err := splitArray(items[2])
	if err != nil {
		return body{}, annotate(err, "transaction_witness_sets")
	}

	aux, err := decodeAuxiliaryDataSet(items[3])
	if err != nil {
		return body{}, annotate(err, "auxiliary_data_set")
	}

	invalid := []uint16{}
	if withInvalid {
		if err := decMode.Unmarshal(items[4], &invalid); err != nil {
			return body{}, annotate(err, "invalid_transactions")
		}
	}

	return body{
		header:  header,
		txs:     txs,
		witness: len(witnesses),
		aux:     aux,
		invalid: invalid,
	}, nil
}

func decodeShelleyHeader(raw cbor.RawMessage) (Header, error) {
	items, err := splitArray(raw)
	if err != nil {
		return Header{}, err
	}
	if len(items) != 2 {
		return Header{}, structuralf("", "expected header of 2 elements, got %d", len(items))
	}
	fields, err := splitArray(items[0])
	if err != nil {
		return Header{}, annotate(err, "header_body")
	}
	if len(fields) < 3 {
		return Header{}, structuralf("header_body", "expected at least 3 fields, got %d", len(fields))
	}

	number, err := decodeUint(fields[0])
	if err != nil {
		return Header{}, annotate(err, "header_body.block_number")
	}
	slot, err := decodeUint(fields[1])
	if err != nil {
		return Header{}, annotate(err, "header_body.slot")
	}
	var prev []byte
	if !isNull(fields[2]) {
		if prev, err = decodeBytes(fields[2]); err != nil {
			return Header{}, annotate(err, "header_body.prev_hash")
		}
	}

	return Header{
		Number:   number,
		Slot:     slot,
		PrevHash: prev,
		Hash:     hash256(raw),
		Raw:      raw,
	}, nil
}

func decodeTransactionBody(raw cbor.RawMessage) (TransactionBody, error) {
	var fields map[uint64]cbor.RawMessage
	if err := decMode.Unmarshal(raw, &fields); err != nil {
		return TransactionBody{}, err
	}

	tx := TransactionBody{Hash: hash256(raw), Raw: raw}

	if rawInputs, ok := fields[0]; ok {
		inputs, err := decodeInputs(rawInputs)
		if err != nil {
			return TransactionBody{}, annotate(err, "inputs")
		}
		tx.Inputs = inputs
	}
	if rawOutputs, ok := fields[1]; ok {
		outputs, err := decodeOutputs(rawOutputs)
		if err != nil {
			return TransactionBody{}, annotate(err, "outputs")
		}
		tx.Outputs = outputs
	}
	return tx, nil
}

type inputWire struct {
	_     struct{} `cbor:",toarray"`
	TxID  []byte
	Index uint64
}

func decodeInputs(raw cbor.RawMessage) ([]TxInput, error) {
	content, tag, tagged, err := untag(raw)
	if err != nil {
		return nil, err
	}
	if tagged && tag != tagSet {
		return nil, fmt.Errorf("unexpected tag %d on inputs", tag)
	}
	var wire []inputWire
	if err := decMode.Unmarshal(content, &wire); err != nil {
		return nil, err
	}
	inputs := make([]TxInput, 0, len(wire))
	for _, w := range wire {
		inputs = append(inputs, TxInput{TxID: w.TxID, Index: w.Index})
	}
	return inputs, nil
}

func decodeOutputs(raw cbor.RawMessage) ([]TxOutput, error) {
	items, err := splitArray(raw)
	if err != nil {
		return nil, err
	}
	outputs := make([]TxOutput, 0, len(items))
	for i, item := range items {
		out, err := decodeOutput(item)
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("[%d]", i))
		}
		outputs = append(outputs, out)
	}
	return outputs, nil
}

func decodeOutput(raw cbor.RawMessage) (TxOutput, error) {
	var address, value cbor.RawMessage
	switch majorOf(raw) {
	case majorArray:
		fields, err := splitArray(raw)
		if err != nil {
			return TxOutput{}, err
		}
		if len(fields) < 2 {
			return TxOutput{}, fmt.Errorf("expected legacy output of at least 2 fields, got %d", len(fields))
		}
		address, value = fields[0], fields[1]
	case majorMap:
		var fields map[uint64]cbor.RawMessage
		if err := decMode.Unmarshal(raw, &fields); err != nil {
			return TxOutput{}, err
		}
		var ok bool
		if address, ok = fields[0]; !ok {
			return TxOutput{}, errors.New("output without address")
		}
		if value, ok = fields[1]; !ok {
			return TxOutput{}, errors.New("output without amount")
		}
	default:
		return TxOutput{}, fmt.Errorf("unexpected output major type %d", majorOf(raw))
	}

	addr, err := decodeBytes(address)
	if err != nil {
		return TxOutput{}, annotate(err, "address")
	}
	coin, err := decodeCoin(value)
	if err != nil {
		return TxOutput{}, annotate(err, "amount")
	}
	return TxOutput{Address: addr, Coin: coin}, nil
}

// decodeCoin reads the lovelace part of a value, ignoring multi-assets.
func decodeCoin(raw cbor.RawMessage) (uint64, error) {
	if majorOf(raw) == majorArray {
		parts, err := splitArray(raw)
		if err != nil {
			return 0, err
		}
		if len(parts) != 2 {
			return 0, fmt.Errorf("expected value of 2 elements, got %d", len(parts))
		}
		raw = parts[0]
	}
	return decodeUint(raw)
}

func decodeAuxiliaryDataSet(raw cbor.RawMessage) ([]AuxiliaryData, error) {
	var set map[uint64]cbor.RawMessage
	if err := decMode.Unmarshal(raw, &set); err != nil {
		return nil, err
	}

	indices := make([]uint64, 0, len(set))
	for idx := range set {
		if idx > 0xffff {
			return nil, structuralf("", "transaction index %d out of range", idx)
		}
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	aux := make([]AuxiliaryData, 0, len(indices))
	for _, idx := range indices {
		md, err := decodeAuxiliaryData(set[idx])
		if err != nil {
			return nil, annotate(err, fmt.Sprintf("[%d]", idx))
		}
		aux = append(aux, AuxiliaryData{TxIndex: uint16(idx), Metadata: md, Raw: set[idx]})
	}
	return aux, nil
}

// decodeAuxiliaryData extracts the metadata of the Shelley (map), Shelley-MA (array)
// and Alonzo (tag 259) encodings.
func decodeAuxiliaryData(raw cbor.RawMessage) (Metadata, error) {
	switch majorOf(raw) {
	case majorMap:
		return decodeMetadata(raw)
	case majorArray:
		items, err := splitArray(raw)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, structuralf("", "empty shelley-ma auxiliary data")
		}
		return decodeMetadata(items[0])
	case majorTag:
		content, tag, _, err := untag(raw)
		if err != nil {
			return nil, err
		}
		if tag != tagAuxiliary {
			return nil, structuralf("", "unexpected auxiliary data tag %d", tag)
		}
		pairs, err := splitMap(content)
		if err != nil {
			return nil, err
		}
		for _, p := range pairs {
			key, err := decodeUint(p.Key)
			if err != nil {
				return nil, err
			}
			if key == 0 {
				return decodeMetadata(p.Value)
			}
		}
		return Metadata{}, nil
	default:
		return nil, structuralf("", "unexpected auxiliary data major type %d", majorOf(raw))
	}
}
