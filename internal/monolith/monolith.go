// Package monolith provides the application container and module interface.
package monolith

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/config"
	"github.com/fd1az/orderbook-clearer/internal/di"
	"github.com/fd1az/orderbook-clearer/internal/logger"
)

const dialTimeout = 15 * time.Second

// Monolith is the main application container providing access to shared
// infrastructure.
type Monolith interface {
	Config() *config.Config
	Logger() logger.LoggerInterface
	EthClient() *ethclient.Client
	ChainID() *big.Int
	Signer() *ecdsa.PrivateKey
	Services() di.ServiceRegistry
}

// Module represents a bounded context module that can register services
// and start up.
type Module interface {
	RegisterServices(di.Container) error
	Startup(context.Context, Monolith) error
}

// app implements the Monolith interface.
type app struct {
	config    *config.Config
	logger    logger.LoggerInterface
	ethClient *ethclient.Client
	chainID   *big.Int
	signerKey *ecdsa.PrivateKey
	container di.Container
}

// New connects to the chain, resolves the network preset against the
// node's chain ID and finalizes configuration. The config is immutable
// after New returns.
func New(ctx context.Context, cfg *config.Config, log logger.LoggerInterface) (*app, error) {
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	ethClient, err := ethclient.DialContext(dialCtx, cfg.Ethereum.RPCURL)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeEthereumConnectionFailed, cfg.Ethereum.RPCURL)
	}

	chainID, err := ethClient.ChainID(dialCtx)
	if err != nil {
		ethClient.Close()
		return nil, apperror.Wrap(err, apperror.CodeEthereumRPCError, "chain id")
	}
	if cfg.Ethereum.ChainID != 0 && cfg.Ethereum.ChainID != chainID.Uint64() {
		ethClient.Close()
		return nil, apperror.Fatal(apperror.CodeChainIDMismatch,
			"configured "+new(big.Int).SetUint64(cfg.Ethereum.ChainID).String()+
				", node reports "+chainID.String())
	}

	if err := cfg.ApplyNetworkPreset(chainID.Uint64()); err != nil {
		ethClient.Close()
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		ethClient.Close()
		return nil, err
	}

	signerKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.Wallet.PrivateKey, "0x"))
	if err != nil {
		ethClient.Close()
		return nil, apperror.Fatal(apperror.CodeInvalidPrivateKey, err.Error())
	}

	container := di.NewContainer()

	// Register global services
	container.Register("config", cfg)
	container.Register("logger", log)
	container.Register("ethClient", ethClient)
	container.Register("chainID", chainID)
	container.Register("signerKey", signerKey)

	return &app{
		config:    cfg,
		logger:    log,
		ethClient: ethClient,
		chainID:   chainID,
		signerKey: signerKey,
		container: container,
	}, nil
}

func (a *app) Config() *config.Config {
	return a.config
}

func (a *app) Logger() logger.LoggerInterface {
	return a.logger
}

func (a *app) EthClient() *ethclient.Client {
	return a.ethClient
}

func (a *app) ChainID() *big.Int {
	return a.chainID
}

func (a *app) Signer() *ecdsa.PrivateKey {
	return a.signerKey
}

func (a *app) Services() di.ServiceRegistry {
	return a.container
}

// Container returns the DI container for module registration.
func (a *app) Container() di.Container {
	return a.container
}

// RegisterModules registers all provided modules.
func (a *app) RegisterModules(modules ...Module) error {
	for _, m := range modules {
		if err := m.RegisterServices(a.container); err != nil {
			return err
		}
	}
	return nil
}

// StartModules starts all provided modules.
func (a *app) StartModules(ctx context.Context, modules ...Module) error {
	for _, m := range modules {
		if err := m.Startup(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all resources.
func (a *app) Close() error {
	if a.ethClient != nil {
		a.ethClient.Close()
	}
	return nil
}
