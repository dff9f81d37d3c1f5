// Package di contains dependency injection tokens for the clearing context.
package di

import (
	"github.com/fd1az/orderbook-clearer/business/clearing/app"
	"github.com/fd1az/orderbook-clearer/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Clearer = di.NewToken[*app.Clearer]("clearing.Clearer")
)

// Private dependency tokens - internal to clearing module
var (
	VaultReader    = di.NewToken[app.VaultReader]("clearing:vaultReader")
	OrderEvaluator = di.NewToken[app.OrderEvaluator]("clearing:orderEvaluator")
	Submitter      = di.NewToken[app.Submitter]("clearing:submitter")
	Accountant     = di.NewToken[app.Accountant]("clearing:accountant")
	TokenInfo      = di.NewToken[app.TokenInfo]("clearing:tokenInfo")
	Reporter       = di.NewToken[app.Reporter]("clearing:reporter")
)

// Helper functions for type-safe access
func GetClearer(c di.ServiceRegistry) *app.Clearer {
	return di.GetToken(c, Clearer)
}

func GetVaultReader(c di.ServiceRegistry) app.VaultReader {
	return di.GetToken(c, VaultReader)
}

func GetOrderEvaluator(c di.ServiceRegistry) app.OrderEvaluator {
	return di.GetToken(c, OrderEvaluator)
}

func GetSubmitter(c di.ServiceRegistry) app.Submitter {
	return di.GetToken(c, Submitter)
}

func GetAccountant(c di.ServiceRegistry) app.Accountant {
	return di.GetToken(c, Accountant)
}

func GetTokenInfo(c di.ServiceRegistry) app.TokenInfo {
	return di.GetToken(c, TokenInfo)
}

func GetReporter(c di.ServiceRegistry) app.Reporter {
	return di.GetToken(c, Reporter)
}
