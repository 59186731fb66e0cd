package utils

import (
	"strings"

	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// ValidateAddress checks that s is a 20-byte hex address. Mixed-case input must
// carry a valid EIP-55 checksum.
func ValidateAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if !common.IsHexAddress(s) || !strings.HasPrefix(strings.ToLower(s), "0x") {
		return common.Address{}, entity.NewInvalidInputError("invalid address %q", s)
	}
	addr := common.HexToAddress(s)
	body := s[2:]
	if body != strings.ToLower(body) && body != strings.ToUpper(body) && addr.Hex() != s {
		return common.Address{}, entity.NewInvalidInputError("address %q has an invalid checksum", s)
	}
	return addr, nil
}

// ChecksumAddress returns the EIP-55 form of a valid address, or "" when s is
// not an address.
func ChecksumAddress(s string) string {
	addr, err := ValidateAddress(s)
	if err != nil {
		return ""
	}
	return addr.Hex()
}

// ValidateHash checks that s is a 32-byte 0x-prefixed hex hash.
func ValidateHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	if len(s) != 66 || !strings.HasPrefix(s, "0x") || !isHex(s[2:]) {
		return common.Hash{}, entity.NewInvalidInputError("invalid hash %q", s)
	}
	return common.HexToHash(s), nil
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
