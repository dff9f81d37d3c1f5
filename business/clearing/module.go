// Package clearing implements the clearing bounded context: working
// on-chain orders against external swap liquidity.
package clearing

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/orderbook-clearer/business/clearing/app"
	clearingDI "github.com/fd1az/orderbook-clearer/business/clearing/di"
	"github.com/fd1az/orderbook-clearer/business/clearing/infra/console"
	"github.com/fd1az/orderbook-clearer/business/clearing/infra/ethereum"
	quotingDI "github.com/fd1az/orderbook-clearer/business/quoting/di"
	"github.com/fd1az/orderbook-clearer/internal/config"
	"github.com/fd1az/orderbook-clearer/internal/di"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
	"github.com/fd1az/orderbook-clearer/internal/logger"
	"github.com/fd1az/orderbook-clearer/internal/monolith"
)

// Module implements the clearing bounded context.
type Module struct{}

// RegisterServices registers all clearing services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, clearingDI.VaultReader, func(sr di.ServiceRegistry) app.VaultReader {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		return ethereum.NewOrderbookReader(client, cfg.Ethereum.OrderbookAddressHex(), log)
	})

	di.RegisterToken(c, clearingDI.OrderEvaluator, func(sr di.ServiceRegistry) app.OrderEvaluator {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		return ethereum.NewEvaluator(client,
			cfg.Ethereum.OrderbookAddressHex(), cfg.Ethereum.ArbAddressHex(), log)
	})

	di.RegisterToken(c, clearingDI.Submitter, func(sr di.ServiceRegistry) app.Submitter {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		client := sr.Get("ethClient").(*ethclient.Client)
		key := sr.Get("signerKey").(*ecdsa.PrivateKey)
		chainID := sr.Get("chainID").(*big.Int)
		return ethereum.NewSubmitter(client, cfg.Ethereum.ArbAddressHex(), key, chainID, log)
	})

	di.RegisterToken(c, clearingDI.Accountant, func(sr di.ServiceRegistry) app.Accountant {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		key := sr.Get("signerKey").(*ecdsa.PrivateKey)
		recipient := crypto.PubkeyToAddress(key.PublicKey)
		return ethereum.NewAccountant(
			cfg.Ethereum.OrderbookAddressHex(), cfg.Ethereum.ArbAddressHex(), recipient, log)
	})

	di.RegisterToken(c, clearingDI.TokenInfo, func(sr di.ServiceRegistry) app.TokenInfo {
		client := sr.Get("ethClient").(*ethclient.Client)
		return ethereum.NewTokenReader(client)
	})

	di.RegisterToken(c, clearingDI.Reporter, func(sr di.ServiceRegistry) app.Reporter {
		return console.NewReporter(os.Stdout)
	})

	di.RegisterToken(c, clearingDI.Clearer, func(sr di.ServiceRegistry) *app.Clearer {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		gasCoverage, err := fixedpoint.FromDecimalString(cfg.Clearing.GasCoverage)
		if err != nil {
			panic("invalid gas coverage: " + err.Error())
		}

		clearer, err := app.NewClearer(
			clearingDI.GetVaultReader(sr),
			clearingDI.GetOrderEvaluator(sr),
			quotingDI.GetQuoteProvider(sr),
			clearingDI.GetSubmitter(sr),
			clearingDI.GetAccountant(sr),
			clearingDI.GetTokenInfo(sr),
			clearingDI.GetReporter(sr),
			app.Config{
				Slippage:         cfg.Clearing.Slippage,
				GasCoverage:      gasCoverage,
				EnforceMinProfit: cfg.Clearing.EnforceMinProfit,
				CallTimeout:      cfg.Clearing.CallTimeout,
				TxPageURL:        cfg.Ethereum.TxPageURL,
			},
			log,
		)
		if err != nil {
			panic("failed to create clearer: " + err.Error())
		}
		return clearer
	})

	return nil
}

// Startup initializes the clearing module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	clearingDI.GetClearer(mono.Services())
	mono.Logger().Info(ctx, "clearing module started")
	return nil
}
