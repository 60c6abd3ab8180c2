package networkdefinition

import (
	"fmt"
	"sort"

	"wallet_risk_scorer/internal/app/port"
	"wallet_risk_scorer/internal/domain/entity"
)

// Chains the balance-data API is known to serve. Identifiers are the API's chain names.
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.ChainDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "eth-mainnet",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://etherscan.io",
	}
	Optimism = entity.ChainDefinition{
		ChainID:          10,
		Name:             "OP Mainnet",
		Identifier:       "optimism-mainnet",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://optimistic.etherscan.io",
	}
	BSC = entity.ChainDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc-mainnet",
		NativeSymbol:     "BNB",
		BlockExplorerURL: "https://bscscan.com",
	}
	Polygon = entity.ChainDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "matic-mainnet",
		NativeSymbol:     "POL",
		BlockExplorerURL: "https://polygonscan.com",
	}
	Base = entity.ChainDefinition{
		ChainID:          8453,
		Name:             "Base Mainnet",
		Identifier:       "base-mainnet",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://basescan.org",
	}
	Arbitrum = entity.ChainDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum-mainnet",
		NativeSymbol:     "ETH",
		BlockExplorerURL: "https://arbiscan.io",
	}
	Avalanche = entity.ChainDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche-mainnet",
		NativeSymbol:     "AVAX",
		BlockExplorerURL: "https://snowtrace.io",
	}
)

var allKnownDefinitions = map[uint64]entity.ChainDefinition{ //nolint:gochecknoglobals
	Ethereum.ChainID:  Ethereum,
	Optimism.ChainID:  Optimism,
	BSC.ChainID:       BSC,
	Polygon.ChainID:   Polygon,
	Base.ChainID:      Base,
	Arbitrum.ChainID:  Arbitrum,
	Avalanche.ChainID: Avalanche,
}

// ChainProvider resolves the single chain a run is configured for.
type ChainProvider struct {
	logger port.Logger
	active entity.ChainDefinition
}

// NewChainProvider resolves chainID against the known definitions. Unknown IDs are still
// usable; the API decides whether it serves them.
func NewChainProvider(log port.Logger, chainID uint64) *ChainProvider {
	p := &ChainProvider{logger: log}
	if def, ok := allKnownDefinitions[chainID]; ok {
		p.active = def
		p.logger.Info("Configured chain resolved", "chain_id", def.ChainID, "name", def.Name, "identifier", def.Identifier)
		return p
	}

	p.active = entity.ChainDefinition{
		ChainID:    chainID,
		Name:       fmt.Sprintf("Chain %d", chainID),
		Identifier: fmt.Sprintf("%d", chainID),
	}
	p.logger.Warn("Configured chain ID has no known definition, requests will use it as-is", "chain_id", chainID)
	return p
}

// Active returns the configured chain.
func (p *ChainProvider) Active() entity.ChainDefinition {
	return p.active
}

// Lookup returns a known definition by chain ID.
func Lookup(chainID uint64) (entity.ChainDefinition, bool) {
	def, ok := allKnownDefinitions[chainID]
	return def, ok
}

// KnownChains returns all known definitions ordered by chain ID.
func KnownChains() []entity.ChainDefinition {
	defs := make([]entity.ChainDefinition, 0, len(allKnownDefinitions))
	for _, def := range allKnownDefinitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].ChainID < defs[j].ChainID })
	return defs
}
