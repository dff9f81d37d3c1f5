// Package quoting implements the quoting bounded context for external
// swap liquidity.
package quoting

import (
	"context"

	"github.com/fd1az/orderbook-clearer/business/quoting/app"
	quotingDI "github.com/fd1az/orderbook-clearer/business/quoting/di"
	"github.com/fd1az/orderbook-clearer/business/quoting/infra/zeroex"
	"github.com/fd1az/orderbook-clearer/internal/config"
	"github.com/fd1az/orderbook-clearer/internal/di"
	"github.com/fd1az/orderbook-clearer/internal/logger"
	"github.com/fd1az/orderbook-clearer/internal/monolith"
)

// Module implements the quoting bounded context.
type Module struct{}

// RegisterServices registers all quoting services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, quotingDI.QuoteProvider, func(sr di.ServiceRegistry) app.Provider {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		client, err := zeroex.NewClient(zeroex.Config{
			BaseURL:           cfg.ZeroEx.APIBaseURL,
			APIKey:            cfg.ZeroEx.APIKey,
			RequestsPerMinute: cfg.ZeroEx.RequestsPerMinute,
		}, log)
		if err != nil {
			panic("failed to create quote client: " + err.Error())
		}
		return client
	})
	return nil
}

// Startup initializes the quoting module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	// Force construction so misconfiguration surfaces before clearing.
	quotingDI.GetQuoteProvider(mono.Services())
	mono.Logger().Info(ctx, "quoting module started")
	return nil
}
