package main

import (
	"context"
	"fmt"
	"time"

	"beam_automation/internal/app/port"
	"beam_automation/internal/app/provider"
	"beam_automation/internal/app/service"
	"beam_automation/internal/client"
	"beam_automation/internal/domain/entity"
	"beam_automation/internal/infrastructure/configloader"
	clientprovider "beam_automation/internal/infrastructure/network/client"
	networkdefinition "beam_automation/internal/infrastructure/network/definition"
	"beam_automation/internal/infrastructure/tokenloader"
	"beam_automation/internal/pkg/logger"
	"beam_automation/internal/pkg/metrics"

	"go.uber.org/zap"
)

type pricePrefetcher interface {
	Prefetch(ctx context.Context, tokens []entity.TokenInfo) error
}

// application is the wired object graph shared by every command.
type application struct {
	cfg        *configloader.Config
	zap        *zap.Logger
	logger     port.Logger
	tokens     port.TokenRegistry
	prices     pricePrefetcher
	dispatcher port.Dispatcher
}

func bootstrap(configPath string, development bool) (*application, error) {
	cfg, err := configloader.Load(configPath)
	if err != nil {
		return nil, err
	}

	zapLogger, err := logger.Init(cfg.Logging.Level, development)
	if err != nil {
		return nil, err
	}
	appLogger := logger.NewSlogAdapter()
	metrics.MustRegister()

	networks, err := networkdefinition.NewRegistry(cfg.Contracts, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to build network registry: %w", err)
	}

	tokenSource := provider.NewTokenProvider(tokenloader.NewTokenLoader(cfg.Tokens.Directory, appLogger), appLogger)
	tokens, err := networkdefinition.NewTokenRegistry(tokenSource,
		[]entity.NetworkDefinition{networkdefinition.BeamMainnet, networkdefinition.BeamTestnet}, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to build token registry: %w", err)
	}

	credentials, err := provider.NewCredentialProvider(cfg.Credentials, cfg.BeamAPI.BaseURL, appLogger)
	if err != nil {
		return nil, err
	}

	chains := clientprovider.NewEVMClientProvider(cfg, appLogger)
	apis := client.NewBeamAPIProvider(client.BeamAPIOptions{
		Timeout:   time.Duration(cfg.BeamAPI.RequestTimeoutMillis) * time.Millisecond,
		RateLimit: cfg.BeamAPI.RateLimitPerSecond,
		Burst:     cfg.BeamAPI.RateLimitBurst,
	}, zapLogger.Named("BeamAPIClient"))

	dexScreener := client.NewDEXScreenerClient(
		cfg.DEXScreener.BaseURL,
		time.Duration(cfg.DEXScreener.RequestTimeoutMillis)*time.Millisecond,
		zapLogger.Named("DEXScreenerAPIClient"),
		0,
	)
	prices := service.NewPriceFeed(dexScreener, cfg.DEXScreener.ChainID,
		time.Duration(cfg.DEXScreener.PriceCacheTTLMinutes)*time.Minute, appLogger)

	metadata := client.NewMetadataClient(
		cfg.Metadata.IPFSGateway,
		time.Duration(cfg.Metadata.RequestTimeoutMillis)*time.Millisecond,
		cfg.Metadata.MaxBodyBytes,
		zapLogger.Named("MetadataClient"),
	)

	dispatcher := service.NewDispatcher(service.DispatcherDeps{
		Credentials: credentials,
		Networks:    networks,
		Tokens:      tokens,
		Chains:      chains,
		APIs:        apis,
		Prices:      prices,
		Metadata:    metadata,
		Logger:      appLogger,
	}, service.DispatcherOptions{
		ConfirmTimeout: time.Duration(cfg.Performance.ConfirmationTimeoutSeconds) * time.Second,
		IPFSGateway:    cfg.Metadata.IPFSGateway,
	})

	return &application{
		cfg:        cfg,
		zap:        zapLogger,
		logger:     appLogger,
		tokens:     tokens,
		prices:     prices,
		dispatcher: dispatcher,
	}, nil
}
