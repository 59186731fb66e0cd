package entity

// ZeroAddress stands in for the native token wherever an address is expected.
const ZeroAddress = "0x0000000000000000000000000000000000000000"

// TokenInfo is a registry entry. Address is checksummed; native BEAM uses
// ZeroAddress.
type TokenInfo struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
	Address  string `json:"address" yaml:"address"`
	IsNative bool   `json:"isNative" yaml:"isNative"`
}
