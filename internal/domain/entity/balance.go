package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// BalanceQuery is one read in a JSON-RPC balance batch. A nil Token reads the
// account's native BEAM balance.
type BalanceQuery struct {
	Account  common.Address
	Token    *common.Address
	Symbol   string
	Decimals uint8
}

// IsNative reports whether the query targets the gas token.
func (q BalanceQuery) IsNative() bool { return q.Token == nil }

// TokenHex is the checksummed token address, or ZeroAddress for BEAM.
func (q BalanceQuery) TokenHex() string {
	if q.Token == nil {
		return ZeroAddress
	}
	return q.Token.Hex()
}

// BalanceReading is the outcome of one BalanceQuery. Err is set per reading;
// the batch as a whole succeeds as long as the node answered.
type BalanceReading struct {
	BalanceQuery
	Balance *big.Int
	Err     error
}
