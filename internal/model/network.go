package model

// Network describes an EVM chain the wallet can talk to.
type Network struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	RPCURL      string `json:"rpcUrl"`
	ChainID     int64  `json:"chainId"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	PriceID     string `json:"priceId,omitempty"` // price-feed coin id
	IsCustom    bool   `json:"isCustom"`
	IsEnabled   bool   `json:"isEnabled"`
}

// NetworkSettings is the persisted value of the "networks" key.
type NetworkSettings struct {
	Current  string    `json:"current"`
	Networks []Network `json:"networks"`
}

// SwitchNetworkRequest represents request for POST /networks/switch
type SwitchNetworkRequest struct {
	ID string `json:"id"`
}

// UpdateNetworkRequest represents request for PATCH /networks/{id}
type UpdateNetworkRequest struct {
	IsEnabled bool `json:"isEnabled"`
}

// ConnectionResponse represents response for POST /networks/{id}/test
type ConnectionResponse struct {
	Network   string `json:"network"`
	Reachable bool   `json:"reachable"`
}

// BalanceResponse represents response for GET /accounts/{address}/balance
type BalanceResponse struct {
	Address string `json:"address"`
	Network string `json:"network"`
	Symbol  string `json:"symbol"`
	Wei     string `json:"wei"`
	Balance string `json:"balance"`
	Rate    string `json:"rate,omitempty"` // USD per coin, empty when the price feed is unavailable
	USD     string `json:"usd,omitempty"`
}
