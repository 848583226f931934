package network

import "github.com/AlexZinkM/evm-wallet/internal/model"

// DefaultNetwork is selected when nothing has been persisted yet.
const DefaultNetwork = "ethereum"

// Builtins returns the networks shipped with the wallet.
func Builtins() []model.Network {
	return []model.Network{
		{
			ID:          "ethereum",
			Name:        "Ethereum Mainnet",
			Symbol:      "ETH",
			RPCURL:      "https://ethereum-rpc.publicnode.com",
			ChainID:     1,
			ExplorerURL: "https://etherscan.io",
			PriceID:     "ethereum",
			IsEnabled:   true,
		},
		{
			ID:          "polygon",
			Name:        "Polygon PoS",
			Symbol:      "POL",
			RPCURL:      "https://polygon-rpc.com",
			ChainID:     137,
			ExplorerURL: "https://polygonscan.com",
			PriceID:     "polygon-ecosystem-token",
			IsEnabled:   true,
		},
		{
			ID:          "sepolia",
			Name:        "Sepolia Testnet",
			Symbol:      "ETH",
			RPCURL:      "https://ethereum-sepolia-rpc.publicnode.com",
			ChainID:     11155111,
			ExplorerURL: "https://sepolia.etherscan.io",
			IsEnabled:   true,
		},
		{
			ID:          "arbitrum",
			Name:        "Arbitrum One",
			Symbol:      "ETH",
			RPCURL:      "https://arb1.arbitrum.io/rpc",
			ChainID:     42161,
			ExplorerURL: "https://arbiscan.io",
			PriceID:     "ethereum",
			IsEnabled:   true,
		},
		{
			ID:          "optimism",
			Name:        "OP Mainnet",
			Symbol:      "ETH",
			RPCURL:      "https://mainnet.optimism.io",
			ChainID:     10,
			ExplorerURL: "https://optimistic.etherscan.io",
			PriceID:     "ethereum",
			IsEnabled:   true,
		},
		{
			ID:          "bsc",
			Name:        "BNB Smart Chain",
			Symbol:      "BNB",
			RPCURL:      "https://bsc-dataseed.binance.org",
			ChainID:     56,
			ExplorerURL: "https://bscscan.com",
			PriceID:     "binancecoin",
			IsEnabled:   true,
		},
	}
}
