package entity

import "strings"

// Wallet is a blockchain account address queued for risk scoring.
type Wallet struct {
	Address string `json:"address" yaml:"address"`
}

// NormalizeAddress trims and lower-cases an address so that duplicates collapse.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// NewWallet builds a Wallet from a raw address.
func NewWallet(address string) Wallet {
	return Wallet{Address: NormalizeAddress(address)}
}
