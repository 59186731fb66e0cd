package utils

import (
	"strings"
	"testing"

	"beam_automation/internal/domain/entity"

	"github.com/stretchr/testify/require"
)

func TestValidateAddress(t *testing.T) {
	addr, err := ValidateAddress("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed")
	require.NoError(t, err)
	require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.Hex())

	_, err = ValidateAddress("0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.NoError(t, err)

	_, err = ValidateAddress("0x5AAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	require.ErrorIs(t, err, entity.ErrInvalidInput)

	for _, bad := range []string{"", "0x123", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", "0xZZaeb6053f3e94c9b9a09f33669435e7ef1beaed"} {
		_, err := ValidateAddress(bad)
		require.ErrorIs(t, err, entity.ErrInvalidInput, bad)
	}
}

func TestValidateHash(t *testing.T) {
	_, err := ValidateHash("0x" + strings.Repeat("ab", 32))
	require.NoError(t, err)
	_, err = ValidateHash("0x1234")
	require.ErrorIs(t, err, entity.ErrInvalidInput)
}
