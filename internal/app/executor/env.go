package executor

import (
	"context"
	"crypto/ecdsa"
	"strings"
	"time"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const defaultConfirmTimeout = 2 * time.Minute

// Env carries the transports and registries for one item. Fields not declared
// in the descriptor's Needs may be nil.
type Env struct {
	Network  entity.NetworkDefinition
	Chain    port.ChainClient
	Signer   *ecdsa.PrivateKey
	API      port.GameAPI
	Prices   port.PriceFeed
	Metadata port.MetadataFetcher

	Networks port.NetworkRegistry
	Tokens   port.TokenRegistry
	Logger   port.Logger

	ConfirmTimeout time.Duration
	IPFSGateway    string
	Now            func() time.Time
}

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) confirmTimeout() time.Duration {
	if e.ConfirmTimeout > 0 {
		return e.ConfirmTimeout
	}
	return defaultConfirmTimeout
}

// SignerAddress is the account derived from the configured private key.
func (e *Env) SignerAddress() (common.Address, error) {
	if e.Signer == nil {
		return common.Address{}, entity.NewInvalidInputError("chain credentials do not include a private key")
	}
	return crypto.PubkeyToAddress(e.Signer.PublicKey), nil
}

// addressOrSigner reads an address parameter, falling back to the signer.
func (e *Env) addressOrSigner(p Params, name string) (common.Address, error) {
	if p.Has(name) {
		return p.Address(name)
	}
	if e.Signer != nil {
		return e.SignerAddress()
	}
	return common.Address{}, missing(name)
}

// contractAddress reads an explicit address parameter or resolves the
// logical name from the network's address book.
func (e *Env) contractAddress(p Params, name, logicalName string) (common.Address, error) {
	if p.Has(name) {
		return p.Address(name)
	}
	if e.Networks == nil {
		return common.Address{}, missing(name)
	}
	addr, err := e.Networks.ContractAddress(e.Network.Identifier, logicalName)
	if err != nil {
		return common.Address{}, entity.NewNotFoundError("parameter %q not set and %s is not registered on %s", name, logicalName, e.Network.Identifier)
	}
	return addr, nil
}

// tokenRef is a parsed token parameter: either a registry symbol or an address.
type tokenRef struct {
	raw     string
	address common.Address
	isAddr  bool
	native  bool
}

func (p Params) tokenRef(name string) (tokenRef, error) {
	s, err := p.String(name)
	if err != nil {
		return tokenRef{}, err
	}
	if strings.HasPrefix(strings.ToLower(s), "0x") {
		addr, err := p.Address(name)
		if err != nil {
			return tokenRef{}, err
		}
		return tokenRef{raw: s, address: addr, isAddr: true, native: addr == (common.Address{})}, nil
	}
	return tokenRef{raw: s, native: strings.EqualFold(s, "BEAM")}, nil
}

// resolveToken finds a token in the registry, falling back to on-chain ERC-20
// metadata for unknown addresses.
func (e *Env) resolveToken(ctx context.Context, ref tokenRef) (entity.TokenInfo, error) {
	if ref.native {
		return entity.TokenInfo{
			Name:     e.Network.NativeCurrency.Name,
			Symbol:   e.Network.NativeCurrency.Symbol,
			Decimals: e.Network.NativeCurrency.Decimals,
			Address:  entity.ZeroAddress,
			IsNative: true,
		}, nil
	}
	if !ref.isAddr {
		if e.Tokens == nil {
			return entity.TokenInfo{}, entity.NewNotFoundError("token %q is not registered on %s", ref.raw, e.Network.Identifier)
		}
		return e.Tokens.BySymbol(e.Network.Identifier, ref.raw)
	}
	if e.Tokens != nil {
		if t, err := e.Tokens.ByAddress(e.Network.Identifier, ref.address.Hex()); err == nil {
			return t, nil
		}
	}
	return readERC20Info(ctx, e.Chain, ref.address)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

func (n nopLogger) With(...any) port.Logger { return n }

func (e *Env) logger() port.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return nopLogger{}
}
