package config

import (
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the relayer configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Cascoin    CascoinConfig    `yaml:"cascoin"`
	Ethereum   EthereumConfig   `yaml:"ethereum"`
	Fees       FeeConfig        `yaml:"fees"`
	Keys       KeysConfig       `yaml:"keys"`
	Executor   ExecutorConfig   `yaml:"executor"`
	Notify     NotifyConfig     `yaml:"notify"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" default:"0.0.0.0"`
	Port            int           `yaml:"port" default:"8080" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" default:"localhost" validate:"required"`
	Port     int    `yaml:"port" default:"5432"`
	User     string `yaml:"user" validate:"required"`
	Password string `yaml:"password"`
	Database string `yaml:"database" default:"cascoin_bridge" validate:"required"`
	SSLMode  string `yaml:"ssl_mode" default:"disable" validate:"oneof=disable require verify-full"`
}

// CascoinConfig contains coin chain node settings
type CascoinConfig struct {
	RPCHost               string        `yaml:"rpc_host" validate:"required"`
	RPCUser               string        `yaml:"rpc_user" validate:"required"`
	RPCPassword           string        `yaml:"rpc_password" validate:"required"`
	DisableTLS            bool          `yaml:"disable_tls" default:"true"`
	AddressVersion        byte          `yaml:"address_version" default:"28"`
	ConfirmationsRequired int           `yaml:"confirmations_required" default:"12" validate:"min=1"`
	PollInterval          time.Duration `yaml:"poll_interval" default:"10s"`
	RPCTimeout            time.Duration `yaml:"rpc_timeout" default:"10s"`
}

// EthereumConfig contains EVM chain client settings
type EthereumConfig struct {
	RPCURL                string        `yaml:"rpc_url" validate:"required,url"`
	ChainID               int64         `yaml:"chain_id" default:"137" validate:"min=1"`
	TokenContract         string        `yaml:"token_contract" validate:"required,eth_addr"`
	OperatorPrivateKey    string        `yaml:"operator_private_key"`
	GasLimit              uint64        `yaml:"gas_limit" default:"200000"`
	MaxGasPrice           string        `yaml:"max_gas_price"`
	ConfirmationsRequired int           `yaml:"confirmations_required" default:"12" validate:"min=1"`
	PollInterval          time.Duration `yaml:"poll_interval" default:"10s"`
	RPCTimeout            time.Duration `yaml:"rpc_timeout" default:"10s"`
	StartBlockLookback    uint64        `yaml:"start_block_lookback" default:"1000"`
	MaxBlockRange         uint64        `yaml:"max_block_range" default:"2000" validate:"min=1"`
	GasPaymentTTL         time.Duration `yaml:"gas_payment_ttl" default:"24h"`
}

// FeeConfig contains the fee schedule and price inputs
type FeeConfig struct {
	DirectFeePercent    string      `yaml:"direct_fee_percent" default:"0.1" validate:"numeric"`
	DeductedFeePercent  string      `yaml:"deducted_fee_percent" default:"2.5" validate:"numeric"`
	MinimumBridgeAmount string      `yaml:"minimum_bridge_amount" default:"1.0" validate:"numeric"`
	GasPriceGwei        string      `yaml:"gas_price_gwei" default:"30" validate:"numeric"`
	GasBufferPercent    string      `yaml:"gas_buffer_percent" default:"20" validate:"numeric"`
	ConversionFeePct    string      `yaml:"conversion_fee_percent" default:"0.5" validate:"numeric"`
	NativeToCoinRate    string      `yaml:"native_to_coin_rate" default:"100" validate:"numeric"`
	NativeToWrappedRate string      `yaml:"native_to_wrapped_rate" default:"100" validate:"numeric"`
	CoinDecimals        int32       `yaml:"coin_decimals" default:"8"`
	WrappedDecimals     int32       `yaml:"wrapped_decimals" default:"18"`
	NativeDecimals      int32       `yaml:"native_decimals" default:"18"`
	GasEstimates        GasEstimate `yaml:"gas_estimates"`
}

// GasEstimate holds per-operation gas unit estimates
type GasEstimate struct {
	Mint     uint64 `yaml:"mint" default:"165000"`
	Burn     uint64 `yaml:"burn" default:"80000"`
	Transfer uint64 `yaml:"transfer" default:"65000"`
	Approve  uint64 `yaml:"approve" default:"50000"`
	Default  uint64 `yaml:"default" default:"100000"`
}

// KeysConfig holds the master seed for one-time address derivation
type KeysConfig struct {
	MasterSeed string `yaml:"master_seed" validate:"required,hexadecimal,min=64"`
}

// ExecutorConfig contains execution coordinator settings
type ExecutorConfig struct {
	Interval          time.Duration `yaml:"interval" default:"10s"`
	ExecutionTimeout  time.Duration `yaml:"execution_timeout" default:"2m"`
	ReconcileInterval time.Duration `yaml:"reconcile_interval" default:"5m"`
	StuckAfter        time.Duration `yaml:"stuck_after" default:"15m"`
}

// NotifyConfig contains live update fan-out settings
type NotifyConfig struct {
	NATSURL       string        `yaml:"nats_url"`
	SubjectPrefix string        `yaml:"subject_prefix" default:"bridge.updates"`
	Timeout       time.Duration `yaml:"timeout" default:"10s"`
	SendBuffer    int           `yaml:"send_buffer" default:"64" validate:"min=1"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `yaml:"level" default:"info"`
	Format     string `yaml:"format" default:"json" validate:"oneof=json console"`
	OutputPath string `yaml:"output_path" default:"stdout"`
}

// =============================================================================
// API SERVER CONFIG
// =============================================================================

// APIServerConfig represents the bridge API server configuration
type APIServerConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Cascoin    CascoinConfig    `yaml:"cascoin"`
	Ethereum   EthereumConfig   `yaml:"ethereum"`
	Fees       FeeConfig        `yaml:"fees"`
	Keys       KeysConfig       `yaml:"keys"`
	Notify     NotifyConfig     `yaml:"notify"`
	Admin      AdminConfig      `yaml:"admin"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AdminConfig contains operator endpoint settings
type AdminConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	JWTIssuer string `yaml:"jwt_issuer" default:"cascoin-bridge"`
}

// Load loads the relayer configuration from file
func Load(configPath string) (*Config, error) {
	var cfg Config
	if err := load(configPath, &cfg); err != nil {
		return nil, err
	}
	if cfg.Ethereum.OperatorPrivateKey == "" {
		return nil, fmt.Errorf("config validation failed: ethereum.operator_private_key is required")
	}
	return &cfg, nil
}

// LoadAPIServer loads the API server configuration from file
func LoadAPIServer(configPath string) (*APIServerConfig, error) {
	var cfg APIServerConfig
	if err := load(configPath, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(configPath string, out any) error {
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return parse(raw, out)
}

// parse expands ${VAR} references, applies defaults and validates the result.
func parse(raw []byte, out any) error {
	if err := defaults.Set(out); err != nil {
		return fmt.Errorf("failed to apply config defaults: %w", err)
	}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(raw))), out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := validator.New().Struct(out); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
