package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/infrastructure/restapi"
	"beam_automation/internal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const pricePrefetchTimeout = 2 * time.Minute

func newServeCmd(boot func() (*application, error)) *cobra.Command {
	var port string
	var prefetch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /api/v1/execute over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := boot()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if port != "" {
				app.cfg.Server.Port = port
			}
			if app.cfg.Logging.Level != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if prefetch {
				go app.prefetchPrices(ctx)
			}

			router := restapi.SetupRouter(restapi.NewExecuteHandler(app.dispatcher), app.zap.Named("HTTP"))
			return restapi.Serve(ctx, restapi.NewServer(app.cfg.Server, router), app.zap)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "override server.port from the config")
	cmd.Flags().BoolVar(&prefetch, "prefetch-prices", true, "warm the price cache for registered mainnet tokens")
	return cmd
}

// prefetchPrices warms the DEX Screener cache in the background. Failures
// only cost a cold cache.
func (a *application) prefetchPrices(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, pricePrefetchTimeout)
	defer cancel()

	tokens, err := a.tokens.Tokens(entity.NetworkMainnet)
	if err != nil {
		a.zap.Warn("No tokens to prefetch prices for", zap.Error(err))
		return
	}
	if err := a.prices.Prefetch(ctx, tokens); err != nil {
		a.zap.Warn("Initial token price loading failed", zap.Error(err))
		return
	}
	a.zap.Info("Initial token price loading completed", zap.Int("tokens", len(tokens)))
}
