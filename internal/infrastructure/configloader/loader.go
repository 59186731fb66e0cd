package configloader

import (
	"fmt"
	"os"

	"beam_automation/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds settings for the HTTP host surface.
type ServerConfig struct {
	Port                string `yaml:"port"`
	ReadTimeoutSeconds  int    `yaml:"readTimeoutSeconds"`
	WriteTimeoutSeconds int    `yaml:"writeTimeoutSeconds"`
}

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// CredentialsConfig holds the default credentials used for every invocation.
// Secrets are normally injected from the environment instead.
type CredentialsConfig struct {
	Chain *entity.ChainCredentials `yaml:"chain"`
	API   *entity.APICredentials   `yaml:"api"`
}

// BeamAPIConfig holds REST client settings for the Beam API.
type BeamAPIConfig struct {
	BaseURL              string  `yaml:"baseURL"`
	RequestTimeoutMillis int64   `yaml:"requestTimeoutMillis"`
	RateLimitPerSecond   float64 `yaml:"rateLimitPerSecond"`
	RateLimitBurst       int     `yaml:"rateLimitBurst"`
}

// DEXScreenerConfig holds DEXScreener API specific configurations.
type DEXScreenerConfig struct {
	BaseURL              string `yaml:"baseURL"`
	ChainID              string `yaml:"chainId"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	PriceCacheTTLMinutes int    `yaml:"priceCacheTTLMinutes"`
}

// MetadataConfig configures token metadata downloads.
type MetadataConfig struct {
	IPFSGateway          string `yaml:"ipfsGateway"`
	RequestTimeoutMillis int64  `yaml:"requestTimeoutMillis"`
	MaxBodyBytes         int    `yaml:"maxBodyBytes"`
}

// TokensConfig points at extra per-network token lists (<network>.json).
type TokensConfig struct {
	Directory string `yaml:"directory"`
}

// PerformanceConfig holds transport timeouts.
type PerformanceConfig struct {
	RPCCallTimeoutSeconds      int `yaml:"rpcCallTimeoutSeconds"`
	ConnectionTimeoutSeconds   int `yaml:"connectionTimeoutSeconds"`
	ConfirmationTimeoutSeconds int `yaml:"confirmationTimeoutSeconds"`
	ReceiptPollIntervalMillis  int `yaml:"receiptPollIntervalMillis"`
}

// Config is the top-level configuration structure.
type Config struct {
	Server      ServerConfig                 `yaml:"server"`
	Logging     LoggingConfig                `yaml:"logging"`
	Credentials CredentialsConfig            `yaml:"credentials"`
	BeamAPI     BeamAPIConfig                `yaml:"beamAPI"`
	DEXScreener DEXScreenerConfig            `yaml:"dexScreener"`
	Metadata    MetadataConfig               `yaml:"metadata"`
	Tokens      TokensConfig                 `yaml:"tokens"`
	Performance PerformanceConfig            `yaml:"performance"`
	Contracts   map[string]map[string]string `yaml:"contracts"` // network -> logical name -> address overrides
}

// Load reads the YAML configuration file from the given path and applies
// defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
		}
		logrus.Infof("Loaded configuration from %s", path)
	case os.IsNotExist(err):
		logrus.Warnf("Config file %s not found, using defaults", path)
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 30
	}
	if cfg.Server.WriteTimeoutSeconds <= 0 {
		// writes may wait for confirmations
		cfg.Server.WriteTimeoutSeconds = 180
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.Performance.RPCCallTimeoutSeconds <= 0 {
		cfg.Performance.RPCCallTimeoutSeconds = 15
	}
	if cfg.Performance.ConnectionTimeoutSeconds <= 0 {
		cfg.Performance.ConnectionTimeoutSeconds = 10
	}
	if cfg.Performance.ConfirmationTimeoutSeconds <= 0 {
		cfg.Performance.ConfirmationTimeoutSeconds = 120
	}
	if cfg.Performance.ReceiptPollIntervalMillis <= 0 {
		cfg.Performance.ReceiptPollIntervalMillis = 2000
	}

	if cfg.BeamAPI.BaseURL == "" {
		cfg.BeamAPI.BaseURL = "https://api.onbeam.com"
	}
	if cfg.BeamAPI.RequestTimeoutMillis <= 0 {
		cfg.BeamAPI.RequestTimeoutMillis = 15000
	}
	if cfg.BeamAPI.RateLimitPerSecond <= 0 {
		cfg.BeamAPI.RateLimitPerSecond = 10
	}
	if cfg.BeamAPI.RateLimitBurst <= 0 {
		cfg.BeamAPI.RateLimitBurst = 5
	}

	if cfg.DEXScreener.BaseURL == "" {
		cfg.DEXScreener.BaseURL = "https://api.dexscreener.com"
	}
	if cfg.DEXScreener.ChainID == "" {
		cfg.DEXScreener.ChainID = "beam"
	}
	if cfg.DEXScreener.RequestTimeoutMillis <= 0 {
		cfg.DEXScreener.RequestTimeoutMillis = 10000
	}
	if cfg.DEXScreener.PriceCacheTTLMinutes <= 0 {
		cfg.DEXScreener.PriceCacheTTLMinutes = 5
	}

	if cfg.Metadata.IPFSGateway == "" {
		cfg.Metadata.IPFSGateway = "https://ipfs.io/ipfs/"
	}
	if cfg.Metadata.RequestTimeoutMillis <= 0 {
		cfg.Metadata.RequestTimeoutMillis = 10000
	}
	if cfg.Metadata.MaxBodyBytes <= 0 {
		cfg.Metadata.MaxBodyBytes = 2 << 20
	}

	if cfg.Tokens.Directory == "" {
		cfg.Tokens.Directory = "data/tokens"
	}

	if cfg.Credentials.API != nil && cfg.Credentials.API.Endpoint == "" {
		cfg.Credentials.API.Endpoint = cfg.BeamAPI.BaseURL
	}
}
