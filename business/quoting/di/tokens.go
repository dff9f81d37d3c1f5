// Package di contains dependency injection tokens for the quoting context.
package di

import (
	"github.com/fd1az/orderbook-clearer/business/quoting/app"
	"github.com/fd1az/orderbook-clearer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	QuoteProvider = di.NewToken[app.Provider]("quoting.QuoteProvider")
)

// Helper functions for type-safe access
func GetQuoteProvider(c di.ServiceRegistry) app.Provider {
	return di.GetToken(c, QuoteProvider)
}
