package entity

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TxRequest is a state-changing call the chain client signs and submits.
// Zero GasLimit means "estimate".
type TxRequest struct {
	To       *common.Address
	Value    *big.Int
	Data     []byte
	GasLimit uint64
	Nonce    *uint64
}

// FeeData mirrors the fee suggestion triple of an EIP-1559 chain.
type FeeData struct {
	GasPrice             *big.Int
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
	BaseFee              *big.Int
}

// Confirmation status values reported by write operations.
const (
	TxStatusSubmitted = "submitted"
	TxStatusSuccess   = "success"
	TxStatusFailed    = "failed"
	TxStatusTimeout   = "timeout"
	TxStatusPending   = "pending"
)
