package networkdefinition

import (
	"fmt"
	"sort"
	"strings"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
)

// Predefined network definitions.
var ( //nolint:gochecknoglobals // Global for definitions
	BeamMainnet = entity.NetworkDefinition{
		Identifier:     entity.NetworkMainnet,
		Name:           "Beam Mainnet",
		ChainID:        4337,
		RPCURL:         "https://build.onbeam.com/rpc",
		WSURL:          "wss://build.onbeam.com/ws",
		ExplorerURL:    "https://subnets.avax.network/beam",
		NativeCurrency: beamCurrency,
	}
	BeamTestnet = entity.NetworkDefinition{
		Identifier:     entity.NetworkTestnet,
		Name:           "Beam Testnet",
		ChainID:        13337,
		RPCURL:         "https://build.onbeam.com/rpc/testnet",
		WSURL:          "wss://build.onbeam.com/ws/testnet",
		ExplorerURL:    "https://subnets-test.avax.network/beam",
		NativeCurrency: beamCurrency,
		IsTestnet:      true,
	}

	beamCurrency = entity.NativeCurrency{Name: "Beam", Symbol: "BEAM", Decimals: entity.NativeDecimals}
)

var allKnownDefinitions = map[string]entity.NetworkDefinition{
	BeamMainnet.Identifier: BeamMainnet,
	BeamTestnet.Identifier: BeamTestnet,
}

// Registry implements port.NetworkRegistry. It is built once at start-up and
// never mutated afterwards.
type Registry struct {
	logger    port.Logger
	networks  map[string]entity.NetworkDefinition
	contracts map[string]map[string]common.Address
}

// NewRegistry builds the registry from the built-in definitions and address
// book, applying per-network contract overrides from configuration.
func NewRegistry(contractOverrides map[string]map[string]string, log port.Logger) (*Registry, error) {
	contracts, err := buildAddressBook(contractOverrides)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		logger:    log,
		networks:  allKnownDefinitions,
		contracts: contracts,
	}
	for _, id := range r.Identifiers() {
		r.logger.Debug(fmt.Sprintf("Network '%s' registered", id), "contracts", len(contracts[id]))
	}
	return r, nil
}

// Identifiers lists the built-in network identifiers in stable order.
func (r *Registry) Identifiers() []string {
	ids := make([]string, 0, len(r.networks))
	for id := range r.networks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Network returns a built-in definition. "custom" is not built in; use Resolve.
func (r *Registry) Network(identifier string) (entity.NetworkDefinition, error) {
	def, ok := r.networks[strings.ToLower(strings.TrimSpace(identifier))]
	if !ok {
		return entity.NetworkDefinition{}, entity.NewNotFoundError("unknown network %q", identifier)
	}
	return def, nil
}

// Resolve materialises the network for a set of chain credentials. For built-in
// networks an rpcUrl in the credentials replaces the public endpoint.
func (r *Registry) Resolve(creds entity.ChainCredentials) (entity.NetworkDefinition, error) {
	if err := creds.Validate(); err != nil {
		return entity.NetworkDefinition{}, err
	}

	if creds.Network == entity.NetworkCustom {
		return entity.NetworkDefinition{
			Identifier:     entity.NetworkCustom,
			Name:           fmt.Sprintf("Custom Beam network (%d)", creds.ChainID),
			ChainID:        creds.ChainID,
			RPCURL:         creds.RPCURL,
			NativeCurrency: beamCurrency,
		}, nil
	}

	def, err := r.Network(creds.Network)
	if err != nil {
		return entity.NetworkDefinition{}, err
	}
	if creds.ChainID != 0 && creds.ChainID != def.ChainID {
		return entity.NetworkDefinition{}, entity.NewInvalidInputError(
			"chainId %d does not match network %s (%d)", creds.ChainID, def.Identifier, def.ChainID)
	}
	if creds.RPCURL != "" {
		def.RPCURL = creds.RPCURL
	}
	return def, nil
}

// ContractAddress resolves a logical contract name. Names are case-insensitive.
func (r *Registry) ContractAddress(network, name string) (common.Address, error) {
	book, ok := r.contracts[strings.ToLower(network)]
	if !ok {
		return common.Address{}, entity.NewNotFoundError("no contracts registered for network %q", network)
	}
	addr, ok := book[normalizeContractName(name)]
	if !ok {
		return common.Address{}, entity.NewNotFoundError("contract %q is not registered on %s", name, network)
	}
	return addr, nil
}

// Contracts returns a copy of a network's address book.
func (r *Registry) Contracts(network string) (map[string]common.Address, error) {
	book, ok := r.contracts[strings.ToLower(network)]
	if !ok {
		return nil, entity.NewNotFoundError("no contracts registered for network %q", network)
	}
	out := make(map[string]common.Address, len(book))
	for k, v := range book {
		out[k] = v
	}
	return out, nil
}
