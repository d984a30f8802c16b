package model

import "encoding/json"

// Catalyst metadata labels.
const (
	CatalystRegistrationLabel uint64 = 61284
	CatalystWitnessLabel      uint64 = 61285
	CatalystDeregisterLabel   uint64 = 61286
)

// CatalystLabels returns the metadata labels that mark a Catalyst transaction.
func CatalystLabels() []uint64 {
	return []uint64{CatalystRegistrationLabel, CatalystWitnessLabel, CatalystDeregisterLabel}
}

// CatalystTransaction is a transaction carrying Catalyst metadata. It is owned by its block.
type CatalystTransaction struct {
	ID             int64
	Hash           string
	BlockID        int64
	TxIndex        int32
	Metadata       json.RawMessage
	MetadataLabels json.RawMessage
	Inputs         json.RawMessage
	Outputs        json.RawMessage
	IsValid        bool
	Payload        []byte
}

// RegistrationType classifies a Catalyst registration payload.
type RegistrationType string

var (
	RegistrationCIP15 RegistrationType = "cip15"
	RegistrationCIP36 RegistrationType = "cip36"
	RegistrationX509  RegistrationType = "x509_envelope"
)

// VoterDelegation assigns voting weight to a voting key.
type VoterDelegation struct {
	VotingKey     string `json:"voting_key"`
	VotePublicKey string `json:"vote_public_key,omitempty"`
	Weight        uint64 `json:"weight"`
}

// CatalystRegistration is a decoded registration owned by a Catalyst transaction.
type CatalystRegistration struct {
	ID                    int64
	CatalystTransactionID int64
	BlockID               int64
	TxIndex               int32
	TxType                RegistrationType
	StakeKey              string
	StakeHex              string
	StakePub              string
	PaymentAddress        string
	Nonce                 *uint64
	VotingPurpose         *uint64
	Delegations           []VoterDelegation
	PurposeUUID           string
	X509Compression       string
	X509Data              []byte
	ValidationSignature   string
}
