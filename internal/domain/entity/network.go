package entity

// ChainDefinition describes a chain the balance-data API can be queried for.
type ChainDefinition struct {
	ChainID          uint64 `json:"chainId" yaml:"chainId"`
	Name             string `json:"name" yaml:"name"`
	Identifier       string `json:"identifier" yaml:"identifier"` // e.g. "eth-mainnet"
	NativeSymbol     string `json:"nativeSymbol" yaml:"nativeSymbol"`
	BlockExplorerURL string `json:"blockExplorerUrl,omitempty" yaml:"blockExplorerUrl,omitempty"`
}
