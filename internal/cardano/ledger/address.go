package ledger

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	byronAddressType  = 8
	rewardAddressType = 14
	mainnetNetworkID  = 1
	stakeKeyHashSize  = 28
)

// AddressString renders a raw address the way wallets show it: base58 for Byron,
// bech32 for Shelley addresses.
func AddressString(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty address")
	}
	// Byron addresses are CBOR arrays and never carry a Shelley header.
	if raw[0]>>5 == majorArray {
		return base58.Encode(raw), nil
	}

	kind := raw[0] >> 4
	mainnet := raw[0]&0x0f == mainnetNetworkID
	switch {
	case kind <= 7:
		return encodeBech32(addressPrefix("addr", mainnet), raw)
	case kind == byronAddressType:
		return base58.Encode(raw), nil
	case kind == rewardAddressType || kind == rewardAddressType+1:
		return encodeBech32(addressPrefix("stake", mainnet), raw)
	default:
		return "", fmt.Errorf("unsupported address header %#x", raw[0])
	}
}

// StakeAddressFromKey builds the reward address of a stake verification key.
func StakeAddressFromKey(pub []byte, mainnet bool) (string, []byte, error) {
	h, err := blake2b.New(stakeKeyHashSize, nil)
	if err != nil {
		return "", nil, err
	}
	_, _ = h.Write(pub)

	header := byte(0xe0)
	if mainnet {
		header |= mainnetNetworkID
	}
	raw := append([]byte{header}, h.Sum(nil)...)
	addr, err := encodeBech32(addressPrefix("stake", mainnet), raw)
	if err != nil {
		return "", nil, err
	}
	return addr, raw, nil
}

// PublicKeyString renders an ed25519 verification key in bech32.
func PublicKeyString(pub []byte) (string, error) {
	return encodeBech32("ed25519_pk", pub)
}

// SafeAddressString falls back to hex when the address cannot be rendered.
func SafeAddressString(raw []byte) string {
	s, err := AddressString(raw)
	if err != nil {
		return hex.EncodeToString(raw)
	}
	return s
}

func addressPrefix(base string, mainnet bool) string {
	if mainnet {
		return base
	}
	return base + "_test"
}

func encodeBech32(hrp string, data []byte) (string, error) {
	conv, err := bech32.ConvertBits(data, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}
	return bech32.Encode(hrp, conv)
}
