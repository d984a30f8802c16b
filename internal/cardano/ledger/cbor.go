package ledger

import (
	"errors"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

const (
	majorUint   byte = 0
	majorNegInt byte = 1
	majorBytes  byte = 2
	majorText   byte = 3
	majorArray  byte = 4
	majorMap    byte = 5
	majorTag    byte = 6
	majorSimple byte = 7

	breakByte byte = 0xff

	tagSet          = 258
	tagAuxiliary    = 259
	tagEncodedCBOR  = 24
	maxNestedLevels = 512
)

var decMode = mustDecMode()

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		MaxNestedLevels: maxNestedLevels,
		IndefLength:     cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("cbor decode mode: %v", err))
	}
	return dm
}

// reader walks the heads of CBOR items; complete items are sliced with fxamacker/cbor.
type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *reader {
	return &reader{data: data}
}

func (r *reader) done() bool {
	return r.pos >= len(r.data)
}

func (r *reader) peekMajor() (byte, error) {
	if r.done() {
		return 0, io.ErrUnexpectedEOF
	}
	return r.data[r.pos] >> 5, nil
}

func (r *reader) atBreak() bool {
	return !r.done() && r.data[r.pos] == breakByte
}

func (r *reader) skipBreak() error {
	if !r.atBreak() {
		return errors.New("expected break")
	}
	r.pos++
	return nil
}

// head reads the major type and argument of the next item.
func (r *reader) head() (major byte, arg uint64, indefinite bool, err error) {
	if r.done() {
		return 0, 0, false, io.ErrUnexpectedEOF
	}
	ib := r.data[r.pos]
	r.pos++
	major = ib >> 5
	ai := ib & 0x1f

	switch {
	case ai < 24:
		return major, uint64(ai), false, nil
	case ai == 31:
		if major < majorBytes || major > majorMap {
			return 0, 0, false, fmt.Errorf("indefinite length not allowed for major type %d", major)
		}
		return major, 0, true, nil
	case ai > 27:
		return 0, 0, false, fmt.Errorf("reserved additional information %d", ai)
	}

	n := 1 << (ai - 24)
	if r.pos+n > len(r.data) {
		return 0, 0, false, io.ErrUnexpectedEOF
	}
	for _, b := range r.data[r.pos : r.pos+n] {
		arg = arg<<8 | uint64(b)
	}
	r.pos += n
	return major, arg, false, nil
}

// item returns the raw encoding of the next complete data item.
func (r *reader) item() (cbor.RawMessage, error) {
	if r.done() {
		return nil, io.ErrUnexpectedEOF
	}
	var raw cbor.RawMessage
	rest, err := decMode.UnmarshalFirst(r.data[r.pos:], &raw)
	if err != nil {
		return nil, err
	}
	r.pos = len(r.data) - len(rest)
	return raw, nil
}

// arrayHeader reads a definite array header and checks its length.
func (r *reader) arrayHeader(want int) error {
	major, n, indefinite, err := r.head()
	if err != nil {
		return err
	}
	if major != majorArray {
		return fmt.Errorf("expected array, got major type %d", major)
	}
	if indefinite {
		return errors.New("expected definite length array")
	}
	if want >= 0 && n != uint64(want) {
		return fmt.Errorf("expected array of %d elements, got %d", want, n)
	}
	return nil
}

func (r *reader) uint() (uint64, error) {
	major, v, _, err := r.head()
	if err != nil {
		return 0, err
	}
	if major != majorUint {
		return 0, fmt.Errorf("expected unsigned integer, got major type %d", major)
	}
	return v, nil
}

// splitArray returns the raw elements of an array item.
func splitArray(raw cbor.RawMessage) ([]cbor.RawMessage, error) {
	r := newReader(raw)
	major, n, indefinite, err := r.head()
	if err != nil {
		return nil, err
	}
	if major != majorArray {
		return nil, fmt.Errorf("expected array, got major type %d", major)
	}

	var items []cbor.RawMessage
	if !indefinite {
		items = make([]cbor.RawMessage, 0, n)
	}
	for i := uint64(0); indefinite || i < n; i++ {
		if indefinite && r.atBreak() {
			break
		}
		item, err := r.item()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

type rawPair struct {
	Key   cbor.RawMessage
	Value cbor.RawMessage
}

// splitMap returns the raw key/value pairs of a map item in encoded order.
func splitMap(raw cbor.RawMessage) ([]rawPair, error) {
	r := newReader(raw)
	major, n, indefinite, err := r.head()
	if err != nil {
		return nil, err
	}
	if major != majorMap {
		return nil, fmt.Errorf("expected map, got major type %d", major)
	}

	var pairs []rawPair
	for i := uint64(0); indefinite || i < n; i++ {
		if indefinite && r.atBreak() {
			break
		}
		k, err := r.item()
		if err != nil {
			return nil, fmt.Errorf("map key %d: %w", i, err)
		}
		v, err := r.item()
		if err != nil {
			return nil, fmt.Errorf("map value %d: %w", i, err)
		}
		pairs = append(pairs, rawPair{Key: k, Value: v})
	}
	return pairs, nil
}

func majorOf(raw cbor.RawMessage) byte {
	if len(raw) == 0 {
		return majorSimple
	}
	return raw[0] >> 5
}

// untag strips a single tag and reports its number.
func untag(raw cbor.RawMessage) (cbor.RawMessage, uint64, bool, error) {
	if majorOf(raw) != majorTag {
		return raw, 0, false, nil
	}
	var tag cbor.RawTag
	if err := decMode.Unmarshal(raw, &tag); err != nil {
		return nil, 0, false, err
	}
	return tag.Content, tag.Number, true, nil
}

func decodeUint(raw cbor.RawMessage) (uint64, error) {
	if majorOf(raw) != majorUint {
		return 0, fmt.Errorf("expected unsigned integer, got major type %d", majorOf(raw))
	}
	var v uint64
	if err := decMode.Unmarshal(raw, &v); err != nil {
		return 0, err
	}
	return v, nil
}

func decodeBytes(raw cbor.RawMessage) ([]byte, error) {
	var v []byte
	if err := decMode.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func isNull(raw cbor.RawMessage) bool {
	return len(raw) == 1 && raw[0] == 0xf6
}

func hash256(parts ...[]byte) []byte {
	h, _ := blake2b.New256(nil)
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	return h.Sum(nil)
}
