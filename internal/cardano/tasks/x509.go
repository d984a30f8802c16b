package tasks

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/andybalholm/brotli"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/fxamacker/cbor/v2"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// x509 envelope keys.
const (
	x509KeyPurpose   = 0
	x509KeyRaw       = 10
	x509KeyBrotli    = 11
	x509KeyZstd      = 12
	x509KeySignature = 99

	rbacKeyCertificates = 10
)

// Compression names stored with the envelope data.
const (
	compressionRaw    = "raw"
	compressionBrotli = "brotli"
	compressionZstd   = "zstd"
)

var stakeURI = regexp.MustCompile(`web\+cardano://addr/(stake[a-z0-9_]+)`)

func (t registrationTask) decodeX509(md ledger.Metadatum) (model.CatalystRegistration, error) {
	reg := model.CatalystRegistration{TxType: model.RegistrationX509}

	if purpose, ok := md.Lookup(x509KeyPurpose); ok && purpose.Kind == ledger.MetaBytes {
		reg.PurposeUUID = purposeUUID(purpose.Bytes)
	}
	if sig, ok := md.Lookup(x509KeySignature); ok && sig.Kind == ledger.MetaBytes {
		reg.ValidationSignature = hex.EncodeToString(sig.Bytes)
	}

	var (
		compression string
		chunks      ledger.Metadatum
		found       bool
	)
	for _, c := range []struct {
		key  uint64
		name string
	}{
		{x509KeyRaw, compressionRaw},
		{x509KeyBrotli, compressionBrotli},
		{x509KeyZstd, compressionZstd},
	} {
		if v, ok := md.Lookup(c.key); ok {
			compression, chunks, found = c.name, v, true
			break
		}
	}
	if !found {
		return model.CatalystRegistration{}, errors.New("x509 envelope without data")
	}

	data, err := joinChunks(chunks)
	if err != nil {
		return model.CatalystRegistration{}, err
	}
	reg.X509Compression = compression
	reg.X509Data = data

	plain, err := decompress(compression, data)
	if err != nil {
		t.logger.Warn("failed to decompress x509 envelope", zap.String("compression", compression), zap.Error(err))
		return reg, nil
	}
	reg.X509Data = plain

	stake, err := stakeFromRBAC(plain)
	if err != nil {
		t.logger.Debug("no stake address in x509 envelope", zap.Error(err))
		return reg, nil
	}
	reg.StakeKey = stake.bech32
	reg.StakeHex = hex.EncodeToString(stake.raw)
	reg.StakePub = stake.bech32
	return reg, nil
}

// purposeUUID renders a 16 byte purpose as a UUID and anything else as hex.
func purposeUUID(b []byte) string {
	id, err := uuid.FromBytes(b)
	if err != nil {
		return hex.EncodeToString(b)
	}
	return id.String()
}

// joinChunks concatenates envelope data split over a list of byte strings.
func joinChunks(v ledger.Metadatum) ([]byte, error) {
	switch v.Kind {
	case ledger.MetaBytes:
		return v.Bytes, nil
	case ledger.MetaList:
		var buf bytes.Buffer
		for i, chunk := range v.List {
			if chunk.Kind != ledger.MetaBytes {
				return nil, fmt.Errorf("x509 chunk %d is not bytes", i)
			}
			buf.Write(chunk.Bytes)
		}
		return buf.Bytes(), nil
	default:
		return nil, errors.New("x509 data is neither bytes nor a list of chunks")
	}
}

func decompress(compression string, data []byte) ([]byte, error) {
	switch compression {
	case compressionRaw:
		return data, nil
	case compressionBrotli:
		return io.ReadAll(brotli.NewReader(bytes.NewReader(data)))
	case compressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)
	default:
		return nil, fmt.Errorf("unknown compression %q", compression)
	}
}

type stakeAddress struct {
	bech32 string
	raw    []byte
}

// stakeFromRBAC finds the stake address a certificate of the RBAC metadata names in its
// subject alternative name URI.
func stakeFromRBAC(data []byte) (stakeAddress, error) {
	var rbac map[uint64]cbor.RawMessage
	if err := cbor.Unmarshal(data, &rbac); err != nil {
		return stakeAddress{}, fmt.Errorf("decode rbac: %w", err)
	}
	raw, ok := rbac[rbacKeyCertificates]
	if !ok {
		return stakeAddress{}, errors.New("rbac without certificates")
	}
	var certs []cbor.RawMessage
	if err := cbor.Unmarshal(raw, &certs); err != nil {
		return stakeAddress{}, fmt.Errorf("decode certificates: %w", err)
	}
	for _, c := range certs {
		var der []byte
		if err := cbor.Unmarshal(c, &der); err != nil {
			continue
		}
		m := stakeURI.FindSubmatch(der)
		if m == nil {
			continue
		}
		if addr, ok := parseStakeAddress(string(m[1])); ok {
			return addr, nil
		}
	}
	return stakeAddress{}, errors.New("no certificate names a stake address")
}

// parseStakeAddress validates a bech32 stake address. DER encoding may glue the next
// byte onto the URI, so a candidate with one trailing character dropped is tried too.
func parseStakeAddress(candidate string) (stakeAddress, bool) {
	for _, s := range []string{candidate, candidate[:len(candidate)-1]} {
		_, data, err := bech32.Decode(s)
		if err != nil {
			continue
		}
		raw, err := bech32.ConvertBits(data, 5, 8, false)
		if err != nil {
			continue
		}
		return stakeAddress{bech32: s, raw: raw}, true
	}
	return stakeAddress{}, false
}
