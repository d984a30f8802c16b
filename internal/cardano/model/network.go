package model

type Network string

var (
	Mainnet Network = "mainnet"
	Preprod Network = "preprod"
	Preview Network = "preview"
)

// IsMainnet reports whether addresses on the network use mainnet prefixes.
func (n Network) IsMainnet() bool {
	return n == Mainnet
}
