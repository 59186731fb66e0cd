package provider

import (
	"context"
	"fmt"

	"beam_automation/internal/app/port"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/infrastructure/configloader"

	"github.com/caarlos0/env/v11"
)

// envCredentials mirrors the credential structs under the BEAM_ prefix, e.g.
// BEAM_RPC_URL, BEAM_PRIVATE_KEY, BEAM_API_KEY.
type envCredentials struct {
	Chain entity.ChainCredentials `envPrefix:"BEAM_"`
	API   entity.APICredentials   `envPrefix:"BEAM_"`
}

type credentialProviderImpl struct {
	creds  entity.Credentials
	logger port.Logger
}

// NewCredentialProvider merges the configured credentials with environment
// overrides. Environment values win when set.
func NewCredentialProvider(cfg configloader.CredentialsConfig, defaultAPIEndpoint string, logger port.Logger) (port.CredentialProvider, error) {
	var fromEnv envCredentials
	if err := env.Parse(&fromEnv); err != nil {
		return nil, fmt.Errorf("parse credential env: %w", err)
	}
	return newCredentialProvider(cfg, fromEnv, defaultAPIEndpoint, logger), nil
}

func newCredentialProvider(cfg configloader.CredentialsConfig, fromEnv envCredentials, defaultAPIEndpoint string, logger port.Logger) *credentialProviderImpl {
	var creds entity.Credentials

	chain := mergeChain(cfg.Chain, fromEnv.Chain)
	if chain != (entity.ChainCredentials{}) {
		if chain.Network == "" {
			chain.Network = entity.NetworkMainnet
		}
		creds.Chain = &chain
	}

	api := mergeAPI(cfg.API, fromEnv.API)
	if api.APIKey != "" || api.ProjectID != "" {
		if api.Endpoint == "" {
			api.Endpoint = defaultAPIEndpoint
		}
		creds.API = &api
	}

	p := &credentialProviderImpl{creds: creds, logger: logger}
	p.logger.Info("Credentials loaded",
		"chain", creds.Chain != nil,
		"network", networkOf(creds.Chain),
		"signer", creds.Chain != nil && creds.Chain.HasSigner(),
		"api", creds.API != nil)
	return p
}

func mergeChain(base *entity.ChainCredentials, override entity.ChainCredentials) entity.ChainCredentials {
	var out entity.ChainCredentials
	if base != nil {
		out = *base
	}
	if override.Network != "" {
		out.Network = override.Network
	}
	if override.RPCURL != "" {
		out.RPCURL = override.RPCURL
	}
	if override.PrivateKey != "" {
		out.PrivateKey = override.PrivateKey
	}
	if override.ChainID != 0 {
		out.ChainID = override.ChainID
	}
	return out
}

func mergeAPI(base *entity.APICredentials, override entity.APICredentials) entity.APICredentials {
	var out entity.APICredentials
	if base != nil {
		out = *base
	}
	if override.Endpoint != "" {
		out.Endpoint = override.Endpoint
	}
	if override.APIKey != "" {
		out.APIKey = override.APIKey
	}
	if override.ProjectID != "" {
		out.ProjectID = override.ProjectID
	}
	return out
}

func networkOf(c *entity.ChainCredentials) string {
	if c == nil {
		return ""
	}
	return c.Network
}

// Credentials returns copies so callers cannot mutate the stored values.
func (p *credentialProviderImpl) Credentials(_ context.Context) (entity.Credentials, error) {
	var out entity.Credentials
	if p.creds.Chain != nil {
		c := *p.creds.Chain
		out.Chain = &c
	}
	if p.creds.API != nil {
		a := *p.creds.API
		out.API = &a
	}
	return out, nil
}

// StaticCredentials serves a fixed credential set.
type StaticCredentials entity.Credentials

func (s StaticCredentials) Credentials(_ context.Context) (entity.Credentials, error) {
	return entity.Credentials(s), nil
}
