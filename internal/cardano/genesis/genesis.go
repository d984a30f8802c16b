// Package genesis seeds an empty store with the genesis point of a network.
package genesis

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/chain"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"go.uber.org/zap"
)

// Byron genesis hashes of the public networks.
var hashes = map[model.Network]string{
	model.Mainnet: "5f20df933584822601f9e3f8c024eb5eb252fe8cefb24d1317dc3d432e940ebb",
	model.Preprod: "d4b8de7a11d929a323373cbab6c1a9bdc931beffff11db111cf9d57356ee1937",
	model.Preview: "83de1d7302569ad56cf9139a41e2e11346d4cb4a31c00142557b6ab3fa550761",
}

// ErrUnknownNetwork is returned for a network without a built-in genesis hash when no hash
// was configured.
var ErrUnknownNetwork = errors.New("no genesis hash for network")

// Hash returns the built-in genesis hash of network.
func Hash(network model.Network) (string, bool) {
	h, ok := hashes[network]
	return h, ok
}

// Bootstrapper inserts the genesis point as the first block row.
type Bootstrapper struct {
	network model.Network
	hash    []byte
	logger  *zap.Logger
}

// New builds a Bootstrapper. hashHex overrides the built-in hash of network when set.
func New(network model.Network, hashHex string, logger *zap.Logger) (*Bootstrapper, error) {
	if hashHex == "" {
		h, ok := Hash(network)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownNetwork, network)
		}
		hashHex = h
	}
	hash, err := hex.DecodeString(hashHex)
	if err != nil {
		return nil, fmt.Errorf("decode genesis hash: %w", err)
	}
	if len(hash) != 32 {
		return nil, fmt.Errorf("genesis hash has %d bytes, want 32", len(hash))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bootstrapper{network: network, hash: hash, logger: logger.Named("genesis")}, nil
}

// Point returns the genesis point.
func (b *Bootstrapper) Point() model.Point {
	return model.Point{Slot: 0, Hash: hex.EncodeToString(b.hash)}
}

// Bootstrap inserts the genesis block row inside tx unless it is already stored. The caller commits.
func (b *Bootstrapper) Bootstrap(ctx context.Context, tx chain.Tx) error {
	existing, err := tx.BlockByHash(ctx, b.hash)
	switch {
	case err == nil:
		b.logger.Info("genesis block already stored", zap.Int64("id", existing.ID))
		return nil
	case !errors.Is(err, chain.ErrNotFound):
		return fmt.Errorf("bootstrap genesis: %w", err)
	}

	id, err := tx.InsertBlock(ctx, model.Block{
		Hash:   b.hash,
		Height: 0,
		Slot:   0,
		Era:    model.Byron,
	})
	if err != nil {
		return fmt.Errorf("bootstrap genesis: %w", err)
	}
	b.logger.Info("inserted genesis block",
		zap.String("network", string(b.network)),
		zap.String("hash", hex.EncodeToString(b.hash)),
		zap.Int64("id", id),
	)
	return nil
}
