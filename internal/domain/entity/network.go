package entity

// Network identifiers understood by the registry.
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
	NetworkCustom  = "custom"
)

// NativeDecimals is fixed for every Beam network.
const NativeDecimals uint8 = 18

// NativeCurrency describes the gas token of a network.
type NativeCurrency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// NetworkDefinition holds the static configuration for one Beam network.
type NetworkDefinition struct {
	Identifier     string         `json:"identifier" yaml:"identifier"` // "mainnet", "testnet", "custom"
	Name           string         `json:"name" yaml:"name"`
	ChainID        uint64         `json:"chainId" yaml:"chainId"`
	RPCURL         string         `json:"rpcUrl" yaml:"rpcUrl"`
	WSURL          string         `json:"wsUrl,omitempty" yaml:"wsUrl,omitempty"`
	ExplorerURL    string         `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	NativeCurrency NativeCurrency `json:"nativeCurrency" yaml:"nativeCurrency"`
	IsTestnet      bool           `json:"isTestnet" yaml:"isTestnet"`
}

// TxURL links a transaction on the network's explorer. Empty when the network
// has no explorer.
func (n NetworkDefinition) TxURL(hash string) string {
	if n.ExplorerURL == "" {
		return ""
	}
	return n.ExplorerURL + "/tx/" + hash
}

// AddressURL links an address on the network's explorer.
func (n NetworkDefinition) AddressURL(address string) string {
	if n.ExplorerURL == "" {
		return ""
	}
	return n.ExplorerURL + "/address/" + address
}
