package tasks

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/ledger"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/model"
	"github.com/goodnatureofminers/blockinsight7000-cardano/internal/cardano/taskgraph"
	"go.uber.org/zap"
)

// Registration map keys.
const (
	regKeyDelegations = 1
	regKeyStake       = 2
	regKeyPayment     = 3
	regKeyNonce       = 4
	regKeyPurpose     = 5
)

var errNotRegistration = errors.New("metadata is not a registration map")

// CatalystRegistrationTask decodes the voter registrations carried by Catalyst transactions.
func CatalystRegistrationTask(cfg taskgraph.TaskConfig, logger *zap.Logger) taskgraph.Definition {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := registrationTask{logger: logger.Named(CatalystRegistrationTaskName)}
	return taskgraph.Definition{
		Name:      CatalystRegistrationTaskName,
		Eras:      model.MultiEras(),
		Reads:     []string{SlotCatalystTxs},
		Writes:    SlotCatalystRegistrations,
		ShouldRun: hasRegistrationMetadata,
		Execute:   t.execute,
		Config:    cfg,
	}
}

func hasRegistrationMetadata(block ledger.Block, _ taskgraph.TaskConfig) bool {
	filter := map[uint64]struct{}{model.CatalystRegistrationLabel: {}}
	for _, aux := range block.AuxiliaryData() {
		if aux.Metadata.HasAny(filter) {
			return true
		}
	}
	return false
}

type registrationTask struct {
	logger *zap.Logger
}

func (t registrationTask) execute(ctx context.Context, in taskgraph.Input) (any, error) {
	txs, err := taskgraph.Get[[]model.CatalystTransaction](in, SlotCatalystTxs)
	if err != nil {
		return nil, err
	}

	regs := make([]model.CatalystRegistration, 0, len(txs))
	for _, tx := range txs {
		if !tx.IsValid {
			continue
		}
		aux, ok := in.Block.AuxiliaryDataFor(int(tx.TxIndex))
		if !ok {
			continue
		}
		md, ok := aux.Metadata.Get(model.CatalystRegistrationLabel)
		if !ok {
			continue
		}

		reg, err := t.decode(md, in.Config.Network)
		if err != nil {
			t.logger.Warn("skipping malformed registration", zap.String("tx", tx.Hash), zap.Error(err))
			continue
		}
		reg.CatalystTransactionID = tx.ID
		reg.BlockID = tx.BlockID
		reg.TxIndex = tx.TxIndex
		regs = append(regs, reg)
	}

	if len(regs) == 0 || in.Config.Readonly {
		return regs, nil
	}
	if err := in.Tx.InsertCatalystRegistrations(ctx, regs); err != nil {
		return nil, fmt.Errorf("insert catalyst registrations: %w", err)
	}
	return regs, nil
}

// registrationType tells CIP-15, CIP-36 and x509 envelope payloads apart.
func registrationType(md ledger.Metadatum) model.RegistrationType {
	_, hasPurpose := md.Lookup(x509KeyPurpose)
	_, hasSignature := md.Lookup(x509KeySignature)
	if hasPurpose && hasSignature {
		for _, k := range []uint64{x509KeyRaw, x509KeyBrotli, x509KeyZstd} {
			if _, ok := md.Lookup(k); ok {
				return model.RegistrationX509
			}
		}
	}
	if v, ok := md.Lookup(regKeyDelegations); ok {
		if v.Kind == ledger.MetaBytes || (v.Kind == ledger.MetaList && len(v.List) > 0 && v.List[0].Kind != ledger.MetaList) {
			return model.RegistrationCIP15
		}
	}
	return model.RegistrationCIP36
}

func (t registrationTask) decode(md ledger.Metadatum, network model.Network) (model.CatalystRegistration, error) {
	if md.Kind != ledger.MetaMap {
		return model.CatalystRegistration{}, errNotRegistration
	}

	typ := registrationType(md)
	if typ == model.RegistrationX509 {
		return t.decodeX509(md)
	}

	reg := model.CatalystRegistration{TxType: typ}
	delegations, err := decodeDelegations(md, typ)
	if err != nil {
		return model.CatalystRegistration{}, err
	}
	reg.Delegations = delegations

	stake, ok := md.Lookup(regKeyStake)
	if !ok || stake.Kind != ledger.MetaBytes {
		return model.CatalystRegistration{}, errors.New("missing stake key")
	}
	if reg.StakePub, err = ledger.PublicKeyString(stake.Bytes); err != nil {
		return model.CatalystRegistration{}, fmt.Errorf("stake key: %w", err)
	}
	stakeAddr, stakeRaw, err := ledger.StakeAddressFromKey(stake.Bytes, network.IsMainnet())
	if err != nil {
		return model.CatalystRegistration{}, fmt.Errorf("stake address: %w", err)
	}
	reg.StakeKey = stakeAddr
	reg.StakeHex = hex.EncodeToString(stakeRaw)

	if payment, ok := md.Lookup(regKeyPayment); ok && payment.Kind == ledger.MetaBytes {
		addr, err := ledger.AddressString(payment.Bytes)
		if err != nil {
			t.logger.Debug("failed to parse payment address", zap.Error(err))
		} else {
			reg.PaymentAddress = addr
		}
	}
	if nonce, ok := md.Lookup(regKeyNonce); ok {
		if v, ok := nonce.Uint(); ok {
			reg.Nonce = &v
		}
	}
	if purpose, ok := md.Lookup(regKeyPurpose); ok {
		if v, ok := purpose.Uint(); ok {
			reg.VotingPurpose = &v
		}
	}
	return reg, nil
}

func decodeDelegations(md ledger.Metadatum, typ model.RegistrationType) ([]model.VoterDelegation, error) {
	v, ok := md.Lookup(regKeyDelegations)
	if !ok {
		return nil, errors.New("missing voting key")
	}

	if typ == model.RegistrationCIP15 {
		key := v
		if key.Kind == ledger.MetaList {
			key = key.List[0]
		}
		if key.Kind != ledger.MetaBytes {
			return nil, errors.New("voting key is not bytes")
		}
		d, err := delegation(key.Bytes, 1)
		if err != nil {
			return nil, err
		}
		return []model.VoterDelegation{d}, nil
	}

	if v.Kind != ledger.MetaList {
		return nil, errors.New("delegations are not a list")
	}
	out := make([]model.VoterDelegation, 0, len(v.List))
	for i, item := range v.List {
		if item.Kind != ledger.MetaList || len(item.List) < 2 || item.List[0].Kind != ledger.MetaBytes {
			return nil, fmt.Errorf("delegation %d is malformed", i)
		}
		weight, ok := item.List[1].Uint()
		if !ok {
			return nil, fmt.Errorf("delegation %d has an invalid weight", i)
		}
		d, err := delegation(item.List[0].Bytes, weight)
		if err != nil {
			return nil, fmt.Errorf("delegation %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}

func delegation(key []byte, weight uint64) (model.VoterDelegation, error) {
	pub, err := ledger.PublicKeyString(key)
	if err != nil {
		return model.VoterDelegation{}, err
	}
	return model.VoterDelegation{
		VotingKey:     hex.EncodeToString(key),
		VotePublicKey: pub,
		Weight:        weight,
	}, nil
}
