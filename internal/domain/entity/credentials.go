package entity

import (
	"net/url"
	"strings"
)

// ChainCredentials grant access to a Beam RPC endpoint and, optionally, a
// signing key. PrivateKey must never be logged or returned in a result.
type ChainCredentials struct {
	Network    string `yaml:"network" env:"NETWORK"`
	RPCURL     string `yaml:"rpcUrl" env:"RPC_URL"`
	PrivateKey string `yaml:"privateKey" env:"PRIVATE_KEY"`
	ChainID    uint64 `yaml:"chainId" env:"CHAIN_ID"`
}

// Validate checks the credentials once at the boundary.
func (c ChainCredentials) Validate() error {
	switch c.Network {
	case NetworkMainnet, NetworkTestnet:
	case NetworkCustom:
		if c.RPCURL == "" {
			return NewInvalidInputError("custom network requires an rpcUrl")
		}
		if c.ChainID == 0 {
			return NewInvalidInputError("custom network requires a positive chainId")
		}
	case "":
		return NewInvalidInputError("chain credentials: network is required")
	default:
		return NewNotFoundError("unknown network %q", c.Network)
	}
	if c.RPCURL != "" {
		if u, err := url.Parse(c.RPCURL); err != nil || u.Scheme == "" || u.Host == "" {
			return NewInvalidInputError("chain credentials: rpcUrl is not a valid URL")
		}
	}
	return nil
}

// HasSigner reports whether a private key was supplied.
func (c ChainCredentials) HasSigner() bool {
	return strings.TrimSpace(c.PrivateKey) != ""
}

// APICredentials grant access to the Beam REST API.
type APICredentials struct {
	Endpoint  string `yaml:"apiEndpoint" env:"API_ENDPOINT"`
	APIKey    string `yaml:"apiKey" env:"API_KEY"`
	ProjectID string `yaml:"projectId" env:"PROJECT_ID"`
}

func (c APICredentials) Validate() error {
	if c.Endpoint == "" {
		return NewInvalidInputError("api credentials: apiEndpoint is required")
	}
	if u, err := url.Parse(c.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return NewInvalidInputError("api credentials: apiEndpoint is not a valid URL")
	}
	if c.APIKey == "" {
		return NewInvalidInputError("api credentials: apiKey is required")
	}
	return nil
}

// Credentials is what the credential provider hands to the dispatcher. Either
// kind may be absent.
type Credentials struct {
	Chain *ChainCredentials
	API   *APICredentials
}
