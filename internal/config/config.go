// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/viper"

	"github.com/fd1az/orderbook-clearer/internal/apperror"
	"github.com/fd1az/orderbook-clearer/internal/fixedpoint"
)

var (
	privateKeyPattern = regexp.MustCompile(`^(0x)?[a-fA-F0-9]{64}$`)
	slippagePattern   = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Config holds all application configuration. It is resolved once at
// startup and passed by value into components; nothing mutates it after
// Load returns.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Wallet    WalletConfig    `mapstructure:"wallet"`
	Ethereum  EthereumConfig  `mapstructure:"ethereum"`
	ZeroEx    ZeroExConfig    `mapstructure:"zeroex"`
	Clearing  ClearingConfig  `mapstructure:"clearing"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// WalletConfig holds the submitting wallet's key material.
type WalletConfig struct {
	PrivateKey string `mapstructure:"private_key"`
}

// EthereumConfig holds chain access and contract addresses.
type EthereumConfig struct {
	RPCURL           string `mapstructure:"rpc_url"`
	ChainID          uint64 `mapstructure:"chain_id"`
	OrderbookAddress string `mapstructure:"orderbook_address"`
	ArbAddress       string `mapstructure:"arb_address"`
	TxPageURL        string `mapstructure:"tx_page_url"`
}

// OrderbookAddressHex returns the orderbook address as common.Address.
func (c *EthereumConfig) OrderbookAddressHex() common.Address {
	return common.HexToAddress(c.OrderbookAddress)
}

// ArbAddressHex returns the arb contract address as common.Address.
func (c *EthereumConfig) ArbAddressHex() common.Address {
	return common.HexToAddress(c.ArbAddress)
}

// ZeroExConfig holds 0x swap API access settings.
type ZeroExConfig struct {
	APIBaseURL        string `mapstructure:"api_base_url"`
	APIKey            string `mapstructure:"api_key"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// ClearingConfig holds clearing pass settings.
type ClearingConfig struct {
	OrdersPath string `mapstructure:"orders_path"`
	// Slippage is the tolerance sent to the quote API as a decimal
	// string, e.g. "0.001" for 0.1%.
	Slippage string `mapstructure:"slippage"`
	// GasCoverage is the fraction of the estimated gas cost deducted in
	// pre-trade profit estimation, as a decimal string in [0,1].
	GasCoverage string `mapstructure:"gas_coverage"`
	// EnforceMinProfit turns the advisory profit estimate into a gate:
	// orders with a negative estimate are skipped instead of submitted.
	EnforceMinProfit bool          `mapstructure:"enforce_min_profit"`
	CallTimeout      time.Duration `mapstructure:"call_timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// NetworkPreset holds per-network defaults applied when the corresponding
// config fields are left empty.
type NetworkPreset struct {
	Name             string
	APIBaseURL       string
	OrderbookAddress string
	ArbAddress       string
	TxPageURL        string
}

// networkPresets maps chain ids to known deployments.
var networkPresets = map[uint64]NetworkPreset{
	137: {
		Name:             "polygon",
		APIBaseURL:       "https://polygon.api.0x.org",
		OrderbookAddress: "0x42cc063a0730a99ff2fc25218c606eb4969ca2eb",
		ArbAddress:       "0x867fdf225b666a2f16bb4c08404c597c909399a5",
		TxPageURL:        "https://polygonscan.com/tx/",
	},
	80001: {
		Name:             "mumbai",
		APIBaseURL:       "https://mumbai.api.0x.org",
		OrderbookAddress: "0xe646c1bf3cb1223234ebd934d0257fc21ac141cf",
		ArbAddress:       "0xd14ead3f35f1c034f9fe43316bf36edca2cb2b90",
		TxPageURL:        "https://mumbai.polygonscan.com/tx/",
	},
}

// PresetFor returns the preset for a chain id.
func PresetFor(chainID uint64) (NetworkPreset, bool) {
	p, ok := networkPresets[chainID]
	return p, ok
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("ARB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "ARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "ARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "ARB_LOG_LEVEL", "LOG_LEVEL")

	// Wallet
	v.BindEnv("wallet.private_key", "ARB_WALLET_KEY", "WALLET_KEY")

	// Ethereum
	v.BindEnv("ethereum.rpc_url", "ARB_RPC_URL", "RPC_URL")
	v.BindEnv("ethereum.chain_id", "ARB_CHAIN_ID", "CHAIN_ID")
	v.BindEnv("ethereum.orderbook_address", "ARB_ORDERBOOK_ADDRESS", "ORDERBOOK_ADDRESS")
	v.BindEnv("ethereum.arb_address", "ARB_ARB_ADDRESS", "ARB_ADDRESS")

	// 0x
	v.BindEnv("zeroex.api_base_url", "ARB_ZEROEX_API_URL", "ZEROEX_API_URL")
	v.BindEnv("zeroex.api_key", "ARB_API_KEY", "API_KEY")

	// Clearing
	v.BindEnv("clearing.orders_path", "ARB_ORDERS_PATH", "ORDERS_PATH")
	v.BindEnv("clearing.slippage", "ARB_SLIPPAGE", "SLIPPAGE")

	// Telemetry
	v.BindEnv("telemetry.enabled", "ARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "ARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "ARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "orderbook-clearer")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// 0x defaults
	v.SetDefault("zeroex.requests_per_minute", 60)

	// Clearing defaults
	v.SetDefault("clearing.orders_path", "./orders.json")
	v.SetDefault("clearing.slippage", "0.001") // 0.1%
	v.SetDefault("clearing.gas_coverage", "0.1")
	v.SetDefault("clearing.enforce_min_profit", false)
	v.SetDefault("clearing.call_timeout", "30s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "orderbook-clearer")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// ApplyNetworkPreset fills empty address and API fields from the preset
// for chainID. Fields set explicitly in config or env are kept.
func (c *Config) ApplyNetworkPreset(chainID uint64) error {
	c.Ethereum.ChainID = chainID

	preset, ok := networkPresets[chainID]
	if !ok {
		// No preset: every chain-specific field must be explicit.
		if c.Ethereum.OrderbookAddress == "" || c.Ethereum.ArbAddress == "" || c.ZeroEx.APIBaseURL == "" {
			return apperror.Fatal(apperror.CodeUnknownNetwork,
				fmt.Sprintf("chain id %d", chainID))
		}
		return nil
	}

	if c.Ethereum.OrderbookAddress == "" {
		c.Ethereum.OrderbookAddress = preset.OrderbookAddress
	}
	if c.Ethereum.ArbAddress == "" {
		c.Ethereum.ArbAddress = preset.ArbAddress
	}
	if c.Ethereum.TxPageURL == "" {
		c.Ethereum.TxPageURL = preset.TxPageURL
	}
	if c.ZeroEx.APIBaseURL == "" {
		c.ZeroEx.APIBaseURL = preset.APIBaseURL
	}
	return nil
}

// Validate performs the fatal-tier checks. A run never starts with an
// invalid wallet key, malformed addresses, or an unusable slippage value.
func (c *Config) Validate() error {
	if c.Ethereum.RPCURL == "" {
		return apperror.Fatal(apperror.CodeConfigurationError, "ethereum.rpc_url is required")
	}
	if c.Wallet.PrivateKey == "" {
		return apperror.Fatal(apperror.CodeInvalidPrivateKey, "wallet.private_key is required")
	}
	if !privateKeyPattern.MatchString(c.Wallet.PrivateKey) {
		return apperror.Fatal(apperror.CodeInvalidPrivateKey, "wallet.private_key is malformed")
	}
	if !common.IsHexAddress(c.Ethereum.OrderbookAddress) {
		return apperror.Fatal(apperror.CodeInvalidAddress,
			fmt.Sprintf("ethereum.orderbook_address: %s", c.Ethereum.OrderbookAddress))
	}
	if !common.IsHexAddress(c.Ethereum.ArbAddress) {
		return apperror.Fatal(apperror.CodeInvalidAddress,
			fmt.Sprintf("ethereum.arb_address: %s", c.Ethereum.ArbAddress))
	}
	if c.ZeroEx.APIBaseURL == "" {
		return apperror.Fatal(apperror.CodeConfigurationError, "zeroex.api_base_url is required")
	}
	if !slippagePattern.MatchString(c.Clearing.Slippage) {
		return apperror.Fatal(apperror.CodeConfigurationError,
			fmt.Sprintf("clearing.slippage: %s", c.Clearing.Slippage))
	}
	coverage, err := fixedpoint.FromDecimalString(c.Clearing.GasCoverage)
	if err != nil || coverage.Sign() < 0 || coverage.Cmp(fixedpoint.One()) > 0 {
		return apperror.Fatal(apperror.CodeConfigurationError,
			fmt.Sprintf("clearing.gas_coverage must be in [0,1]: %s", c.Clearing.GasCoverage))
	}
	return nil
}
