package executor

import (
	"math/big"
	"testing"

	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"
)

func TestParseFunctionSignature(t *testing.T) {
	m, err := parseFunctionSignature("function balanceOf(address owner) view returns (uint256)")
	require.NoError(t, err)
	require.Equal(t, "balanceOf(address)", m.Sig)
	require.Equal(t, "0x70a08231", hexutil.Encode(m.ID))
	require.True(t, m.IsConstant())
	require.Len(t, m.Outputs, 1)

	m, err = parseFunctionSignature("deposit(uint,uint256,address) payable")
	require.NoError(t, err)
	require.Equal(t, "deposit(uint256,uint256,address)", m.Sig)
	require.True(t, m.Payable)
}

func TestParseFunctionSignatureRejects(t *testing.T) {
	for _, sig := range []string{
		"",
		"balanceOf",
		"balanceOf(address",
		"swap((address,uint256))",
		"foo(notatype)",
		"foo() frobnicate",
	} {
		_, err := parseFunctionSignature(sig)
		require.ErrorIs(t, err, entity.ErrInvalidInput, sig)
	}
}

func TestEncodeCall(t *testing.T) {
	m, err := parseFunctionSignature("transfer(address to, uint256 amount) returns (bool)")
	require.NoError(t, err)

	data, err := encodeCall(m, []any{testSignerAddress, "1000"})
	require.NoError(t, err)
	require.Equal(t, "0xa9059cbb", hexutil.Encode(data[:4]))
	require.Len(t, data, 4+64)
	require.Equal(t, int64(1000), new(big.Int).SetBytes(data[36:]).Int64())

	_, err = encodeCall(m, []any{testSignerAddress})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	_, err = encodeCall(m, []any{"0xnope", "1"})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestConvertArgRanges(t *testing.T) {
	m, err := parseFunctionSignature("f(uint8,int16,bool,bytes4,address[])")
	require.NoError(t, err)

	_, err = encodeCall(m, []any{float64(255), "-300", true, "0x01020304", []any{testSignerAddress}})
	require.NoError(t, err)

	_, err = encodeCall(m, []any{"256", "0", true, "0x01020304", []any{}})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	_, err = encodeCall(m, []any{"1", "40000", true, "0x01020304", []any{}})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	_, err = encodeCall(m, []any{"1", "0", true, "0x0102", []any{}})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
	_, err = encodeCall(m, []any{1.5, "0", true, "0x01020304", []any{}})
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestNormalize(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	require.Equal(t, "123456789012345678901234567890", normalize(huge))
	require.Equal(t, testSignerAddress, normalize(common.HexToAddress(testSignerAddress)))
	require.Equal(t, "0x0102", normalize([]byte{1, 2}))
	require.Equal(t, "0x01020304", normalize([4]byte{1, 2, 3, 4}))
	require.Equal(t, []any{"1", "2"}, normalize([]*big.Int{big.NewInt(1), big.NewInt(2)}))
	require.Equal(t, "18446744073709551615", normalize(uint64(1<<64-1)))
	require.Equal(t, uint8(18), normalize(uint8(18)))
	require.Equal(t, map[string]any{"reserve0": "5", "ok": true}, normalize(struct {
		Reserve0 *big.Int
		Ok       bool
	}{big.NewInt(5), true}))
}
