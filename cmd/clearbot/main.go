// Package main is the entry point for the orderbook clearing bot.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fd1az/orderbook-clearer/business/clearing"
	clearingDI "github.com/fd1az/orderbook-clearer/business/clearing/di"
	clearingDomain "github.com/fd1az/orderbook-clearer/business/clearing/domain"
	"github.com/fd1az/orderbook-clearer/business/quoting"
	"github.com/fd1az/orderbook-clearer/internal/apm"
	"github.com/fd1az/orderbook-clearer/internal/config"
	"github.com/fd1az/orderbook-clearer/internal/health"
	"github.com/fd1az/orderbook-clearer/internal/logger"
	"github.com/fd1az/orderbook-clearer/internal/metrics"
	"github.com/fd1az/orderbook-clearer/internal/monolith"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type cliOptions struct {
	configPath       string
	ordersPath       string
	slippage         string
	privateKey       string
	rpcURL           string
	apiKey           string
	orderbookAddress string
	arbAddress       string
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	var opts cliOptions
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ordersPath, "orders", "", "Path to the JSON file holding the orders to clear")
	flag.StringVar(&opts.slippage, "slippage", "", "Slippage tolerance as a decimal fraction, e.g. 0.001")
	flag.StringVar(&opts.privateKey, "key", "", "Private key of the wallet submitting transactions (overrides WALLET_KEY)")
	flag.StringVar(&opts.rpcURL, "rpc", "", "EVM node RPC URL (overrides RPC_URL)")
	flag.StringVar(&opts.apiKey, "api-key", "", "0x API key (overrides API_KEY)")
	flag.StringVar(&opts.orderbookAddress, "orderbook-address", "", "Deployed orderbook contract address")
	flag.StringVar(&opts.arbAddress, "arb-address", "", "Deployed arb contract address")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("clearbot %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts cliOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyOverrides(cfg, opts)

	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}
	log := logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
	log.Info(ctx, "starting orderbook clearing bot",
		"version", version,
		"environment", cfg.App.Environment,
	)

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin")

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server on port 8081
	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Load the order list before touching the chain.
	ordersData, err := os.ReadFile(cfg.Clearing.OrdersPath)
	if err != nil {
		return fmt.Errorf("failed to read orders file %q: %w", cfg.Clearing.OrdersPath, err)
	}
	orders, err := clearingDomain.ParseOrders(ordersData)
	if err != nil {
		return fmt.Errorf("failed to parse orders: %w", err)
	}
	if len(orders) == 0 {
		log.Warn(ctx, "order list is empty, nothing to clear")
		return nil
	}
	log.Info(ctx, "orders loaded", "path", cfg.Clearing.OrdersPath, "count", len(orders))

	// Create monolith (application container)
	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()
	log.Info(ctx, "connected to chain", "chain_id", mono.ChainID().String())

	// Define modules in dependency order
	modules := []monolith.Module{
		&quoting.Module{},  // Provides the external quote source
		&clearing.Module{}, // Depends on quoting
	}
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	clearer := clearingDI.GetClearer(mono.Services())
	report, err := clearer.Clear(ctx, orders)
	if err != nil {
		return fmt.Errorf("clearing pass aborted: %w", err)
	}

	log.Info(ctx, "clearing pass complete",
		"orders", len(orders),
		"cleared", len(report.Records),
		"total_gas_wei", report.TotalGasCost().String(),
	)
	return nil
}

// applyOverrides lets CLI flags win over file and environment values.
func applyOverrides(cfg *config.Config, opts cliOptions) {
	if opts.ordersPath != "" {
		cfg.Clearing.OrdersPath = opts.ordersPath
	}
	if opts.slippage != "" {
		cfg.Clearing.Slippage = opts.slippage
	}
	if opts.privateKey != "" {
		cfg.Wallet.PrivateKey = opts.privateKey
	}
	if opts.rpcURL != "" {
		cfg.Ethereum.RPCURL = opts.rpcURL
	}
	if opts.apiKey != "" {
		cfg.ZeroEx.APIKey = opts.apiKey
	}
	if opts.orderbookAddress != "" {
		cfg.Ethereum.OrderbookAddress = opts.orderbookAddress
	}
	if opts.arbAddress != "" {
		cfg.Ethereum.ArbAddress = opts.arbAddress
	}
}
