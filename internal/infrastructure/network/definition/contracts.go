package networkdefinition

import (
	"fmt"
	"strings"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"

	"github.com/ethereum/go-ethereum/common"
)

// Logical contract names understood by the address book.
const (
	ContractWBEAM         = "WBEAM"
	ContractUSDC          = "USDC"
	ContractDEXRouter     = "DEX_ROUTER"
	ContractDEXFactory    = "DEX_FACTORY"
	ContractBeamOFT       = "BEAM_OFT"
	ContractStakingPool   = "STAKING_POOL"
	ContractMCStakingPool = "MC_STAKING_POOL"
)

// Built-in address book. Deployments missing here are supplied through the
// "contracts" section of the config.
var defaultContracts = map[string]map[string]string{ //nolint:gochecknoglobals
	entity.NetworkMainnet: {
		ContractWBEAM: "0xD51BFa777609213A653a2CD067c9A0132a2D316A",
		ContractUSDC:  "0x76BF5E7d2Bcb06b1444C0a2742780051D8D0E304",
	},
	entity.NetworkTestnet: {},
	entity.NetworkCustom:  {},
}

func normalizeContractName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

func buildAddressBook(overrides map[string]map[string]string) (map[string]map[string]common.Address, error) {
	book := make(map[string]map[string]common.Address, len(defaultContracts))

	add := func(network, name, raw string) error {
		network = strings.ToLower(strings.TrimSpace(network))
		addr, err := utils.ValidateAddress(raw)
		if err != nil {
			return fmt.Errorf("contract %s on %s: %w", name, network, err)
		}
		if book[network] == nil {
			book[network] = make(map[string]common.Address)
		}
		book[network][normalizeContractName(name)] = addr
		return nil
	}

	for network, entries := range defaultContracts {
		if book[network] == nil {
			book[network] = make(map[string]common.Address)
		}
		for name, raw := range entries {
			if err := add(network, name, raw); err != nil {
				return nil, err
			}
		}
	}
	for network, entries := range overrides {
		for name, raw := range entries {
			if err := add(network, name, raw); err != nil {
				return nil, err
			}
		}
	}
	return book, nil
}
