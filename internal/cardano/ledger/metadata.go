package ledger

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/fxamacker/cbor/v2"
)

// MetadatumKind is the variant of a transaction metadatum.
type MetadatumKind uint8

const (
	MetaInt MetadatumKind = iota + 1
	MetaBytes
	MetaText
	MetaList
	MetaMap
)

// Metadatum is a transaction metadata value. Map keys may be any metadatum, so maps keep
// their pairs in encoded order instead of using a Go map.
type Metadatum struct {
	Kind  MetadatumKind
	Int   *big.Int
	Bytes []byte
	Text  string
	List  []Metadatum
	Map   []MetadatumPair
}

// MetadatumPair is one entry of a metadatum map.
type MetadatumPair struct {
	Key   Metadatum
	Value Metadatum
}

// MetadataEntry is a top-level metadata label and its value.
type MetadataEntry struct {
	Label uint64
	Value Metadatum
}

// Metadata is the label map of an auxiliary data value, in encoded order.
type Metadata []MetadataEntry

// Get returns the value stored under label.
func (m Metadata) Get(label uint64) (Metadatum, bool) {
	for _, e := range m {
		if e.Label == label {
			return e.Value, true
		}
	}
	return Metadatum{}, false
}

// Labels returns the labels that are members of filter, in encoded order.
func (m Metadata) Labels(filter map[uint64]struct{}) []uint64 {
	labels := make([]uint64, 0, len(m))
	for _, e := range m {
		if _, ok := filter[e.Label]; filter == nil || ok {
			labels = append(labels, e.Label)
		}
	}
	return labels
}

// HasAny reports whether any label of filter is present.
func (m Metadata) HasAny(filter map[uint64]struct{}) bool {
	for _, e := range m {
		if _, ok := filter[e.Label]; ok {
			return true
		}
	}
	return false
}

// Uint returns the value of an integer metadatum that fits uint64.
func (d Metadatum) Uint() (uint64, bool) {
	if d.Kind != MetaInt || d.Int == nil || d.Int.Sign() < 0 || !d.Int.IsUint64() {
		return 0, false
	}
	return d.Int.Uint64(), true
}

// Lookup finds the value for an integer key of a metadatum map.
func (d Metadatum) Lookup(key uint64) (Metadatum, bool) {
	if d.Kind != MetaMap {
		return Metadatum{}, false
	}
	for _, p := range d.Map {
		if k, ok := p.Key.Uint(); ok && k == key {
			return p.Value, true
		}
	}
	return Metadatum{}, false
}

func decodeMetadata(raw cbor.RawMessage) (Metadata, error) {
	pairs, err := splitMap(raw)
	if err != nil {
		return nil, annotate(err, "metadata")
	}

	md := make(Metadata, 0, len(pairs))
	seen := make(map[uint64]struct{}, len(pairs))
	for _, p := range pairs {
		label, err := decodeUint(p.Key)
		if err != nil {
			return nil, annotate(err, "metadata.label")
		}
		if _, dup := seen[label]; dup {
			return nil, structuralf("metadata", "duplicate label %d", label)
		}
		seen[label] = struct{}{}

		value, err := decodeMetadatum(p.Value, 0)
		if err != nil {
			return nil, annotate(err, "metadata."+strconv.FormatUint(label, 10))
		}
		md = append(md, MetadataEntry{Label: label, Value: value})
	}
	return md, nil
}

func decodeMetadatum(raw cbor.RawMessage, depth int) (Metadatum, error) {
	if depth > maxNestedLevels {
		return Metadatum{}, structuralf("", "metadatum nested deeper than %d levels", maxNestedLevels)
	}

	switch majorOf(raw) {
	case majorUint, majorNegInt:
		major, n, _, err := newReader(raw).head()
		if err != nil {
			return Metadatum{}, err
		}
		v := new(big.Int).SetUint64(n)
		if major == majorNegInt {
			v.Add(v, big.NewInt(1)).Neg(v)
		}
		return Metadatum{Kind: MetaInt, Int: v}, nil
	case majorBytes:
		v, err := decodeBytes(raw)
		if err != nil {
			return Metadatum{}, err
		}
		return Metadatum{Kind: MetaBytes, Bytes: v}, nil
	case majorText:
		var v string
		if err := decMode.Unmarshal(raw, &v); err != nil {
			return Metadatum{}, err
		}
		return Metadatum{Kind: MetaText, Text: v}, nil
	case majorArray:
		items, err := splitArray(raw)
		if err != nil {
			return Metadatum{}, err
		}
		list := make([]Metadatum, 0, len(items))
		for i, item := range items {
			v, err := decodeMetadatum(item, depth+1)
			if err != nil {
				return Metadatum{}, annotate(err, fmt.Sprintf("[%d]", i))
			}
			list = append(list, v)
		}
		return Metadatum{Kind: MetaList, List: list}, nil
	case majorMap:
		return decodeMetadatumMap(raw, depth)
	default:
		return Metadatum{}, fmt.Errorf("unsupported metadatum major type %d", majorOf(raw))
	}
}

func decodeMetadatumMap(raw cbor.RawMessage, depth int) (Metadatum, error) {
	pairs, err := splitMap(raw)
	if err != nil {
		return Metadatum{}, err
	}

	seen := make(map[string]struct{}, len(pairs))
	out := make([]MetadatumPair, 0, len(pairs))
	for i, p := range pairs {
		key, err := decodeMetadatum(p.Key, depth+1)
		if err != nil {
			return Metadatum{}, annotate(err, fmt.Sprintf("{key %d}", i))
		}
		if _, dup := seen[string(p.Key)]; dup {
			if key.Kind == MetaList || key.Kind == MetaMap {
				return Metadatum{}, &DecodeError{Kind: KindDuplicateComplexKey, Err: ErrDuplicateComplexKey}
			}
			return Metadatum{}, fmt.Errorf("duplicate key %x", []byte(p.Key))
		}
		seen[string(p.Key)] = struct{}{}

		value, err := decodeMetadatum(p.Value, depth+1)
		if err != nil {
			return Metadatum{}, annotate(err, fmt.Sprintf("{value %d}", i))
		}
		out = append(out, MetadatumPair{Key: key, Value: value})
	}
	return Metadatum{Kind: MetaMap, Map: out}, nil
}

// MarshalJSON renders the metadatum in the cardano-node detailed schema.
func (d Metadatum) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d Metadatum) writeJSON(buf *bytes.Buffer) error {
	switch d.Kind {
	case MetaInt:
		buf.WriteString(`{"int":`)
		if d.Int == nil {
			buf.WriteString("0")
		} else {
			buf.WriteString(d.Int.String())
		}
		buf.WriteByte('}')
	case MetaBytes:
		buf.WriteString(`{"bytes":"`)
		buf.WriteString(hex.EncodeToString(d.Bytes))
		buf.WriteString(`"}`)
	case MetaText:
		text, err := json.Marshal(d.Text)
		if err != nil {
			return err
		}
		buf.WriteString(`{"string":`)
		buf.Write(text)
		buf.WriteByte('}')
	case MetaList:
		buf.WriteString(`{"list":[`)
		for i, item := range d.List {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := item.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteString(`]}`)
	case MetaMap:
		buf.WriteString(`{"map":[`)
		for i, p := range d.Map {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(`{"k":`)
			if err := p.Key.writeJSON(buf); err != nil {
				return err
			}
			buf.WriteString(`,"v":`)
			if err := p.Value.writeJSON(buf); err != nil {
				return err
			}
			buf.WriteByte('}')
		}
		buf.WriteString(`]}`)
	default:
		return fmt.Errorf("unknown metadatum kind %d", d.Kind)
	}
	return nil
}

// MarshalJSON renders the metadata as an object keyed by label, in encoded order.
func (m Metadata) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strconv.FormatUint(e.Label, 10))
		buf.WriteString(`":`)
		if err := e.Value.writeJSON(&buf); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
