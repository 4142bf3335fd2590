package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix namespaces environment overrides; every field also accepts its bare tag name.
const EnvPrefix = "farmyield"

type Config struct {
	Environment string        `yaml:"environment" envconfig:"ENVIRONMENT" validate:"required"`
	Server      ServerConfig  `yaml:"server"`
	Logging     LoggingConfig `yaml:"logging"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Chain       ChainConfig   `yaml:"chain"`
	Farm        FarmConfig    `yaml:"farm"`
	Prices      PricesConfig  `yaml:"prices"`
	Cache       CacheConfig   `yaml:"cache"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gte=1,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
	SlowThreshold   time.Duration `yaml:"slow_threshold"`
	CORS            bool          `yaml:"cors"`
	RateLimit       struct {
		Enabled      bool    `yaml:"enabled" envconfig:"RATE_LIMIT_ENABLED"`
		Capacity     float64 `yaml:"capacity" validate:"gte=0"`
		RefillPerSec float64 `yaml:"refill_per_sec" validate:"gte=0"`
	} `yaml:"rate_limit"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT" validate:"oneof=json console"`
	Output string `yaml:"output" envconfig:"LOG_OUTPUT"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" envconfig:"METRICS_ENABLED"`
	Path    string `yaml:"path"`
}

type NativeConfig struct {
	Name        string  `yaml:"name"`
	Symbol      string  `yaml:"symbol"`
	Decimals    uint8   `yaml:"decimals"`
	TotalSupply float64 `yaml:"total_supply"`
}

type ChainConfig struct {
	RPCURL        string        `yaml:"rpc_url" envconfig:"RPC_URL" validate:"required,url"`
	BatchSize     int           `yaml:"batch_size" validate:"gte=1"`
	CallTimeout   time.Duration `yaml:"call_timeout"`
	ExplorerURL   string        `yaml:"explorer_url" validate:"omitempty,url"`
	Native        NativeConfig  `yaml:"native"`
	MaxProbeDepth int           `yaml:"max_probe_depth" validate:"gte=1"`
}

// RewardsConfig selects how the farm's weekly emission is derived.
type RewardsConfig struct {
	Mode             string  `yaml:"mode" envconfig:"REWARDS_MODE" validate:"oneof=multiplier per_block fixed"`
	FixedPerWeek     float64 `yaml:"fixed_per_week" envconfig:"REWARDS_PER_WEEK" validate:"required_if=Mode fixed,gte=0"`
	BlockTimeSeconds float64 `yaml:"block_time_seconds" validate:"gt=0"`
	PerBlockDivisor  float64 `yaml:"per_block_divisor" validate:"gt=0"`
}

type FarmConfig struct {
	Address                 string        `yaml:"address" envconfig:"FARM_ADDRESS" validate:"required,eth_addr"`
	Holder                  string        `yaml:"holder" envconfig:"HOLDER_ADDRESS" validate:"omitempty,eth_addr"`
	RewardTokenTicker       string        `yaml:"reward_token_ticker" envconfig:"REWARD_TOKEN_TICKER" validate:"required"`
	RewardTokenFunction     string        `yaml:"reward_token_function" validate:"required"`
	RewardsPerBlockFunction string        `yaml:"rewards_per_block_function" validate:"required"`
	PendingRewardsFunction  string        `yaml:"pending_rewards_function" validate:"required"`
	ActivePools             []int         `yaml:"active_pools" envconfig:"ACTIVE_POOL_IDS" validate:"min=1,dive,gte=0"`
	Concurrency             int           `yaml:"concurrency" validate:"gte=1"`
	Rewards                 RewardsConfig `yaml:"rewards"`
}

type TokenConfig struct {
	ID       string `yaml:"id" validate:"required"`
	Symbol   string `yaml:"symbol" validate:"required"`
	Contract string `yaml:"contract" validate:"required,eth_addr"`
}

type PricesConfig struct {
	BaseURL    string        `yaml:"base_url" envconfig:"COINGECKO_URL" validate:"required,url"`
	VsCurrency string        `yaml:"vs_currency"`
	ChunkSize  int           `yaml:"chunk_size" validate:"gte=1,lte=250"`
	Timeout    time.Duration `yaml:"timeout"`
	Retries    int           `yaml:"retries" validate:"gte=0,lte=10"`
	CacheTTL   time.Duration `yaml:"cache_ttl" envconfig:"PRICE_CACHE_TTL"`
	Tokens     []TokenConfig `yaml:"tokens" ignored:"true" validate:"dive"`
}

type CacheConfig struct {
	ClassificationTTL time.Duration `yaml:"classification_ttl" envconfig:"CACHE_TIME"`
	MaxEntries        int           `yaml:"max_entries" validate:"gte=1"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	Redis             struct {
		Enabled  bool   `yaml:"enabled" envconfig:"REDIS_ENABLED"`
		Host     string `yaml:"host" envconfig:"REDIS_HOST"`
		Port     int    `yaml:"port" envconfig:"REDIS_PORT"`
		Password string `yaml:"password" envconfig:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" envconfig:"REDIS_DB"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
}

// Default returns the configuration of the Aurora BRL deployment.
func Default() *Config {
	c := &Config{Environment: "development"}

	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.RequestTimeout = 25 * time.Second
	c.Server.SlowThreshold = 5 * time.Second
	c.Server.CORS = true
	c.Server.RateLimit.Capacity = 20
	c.Server.RateLimit.RefillPerSec = 1

	c.Logging = LoggingConfig{Level: "info", Format: "json", Output: "stdout"}
	c.Metrics = MetricsConfig{Enabled: true, Path: "/metrics"}

	c.Chain = ChainConfig{
		RPCURL:        "https://mainnet.aurora.dev",
		BatchSize:     100,
		CallTimeout:   15 * time.Second,
		ExplorerURL:   "https://aurorascan.dev",
		Native:        NativeConfig{Name: "Aurora", Symbol: "AOA", Decimals: 18, TotalSupply: 1e8},
		MaxProbeDepth: 4,
	}

	c.Farm = FarmConfig{
		Address:                 "0x35CC71888DBb9FfB777337324a4A60fdBAA19DDE",
		Holder:                  "0x000000FCd5d9446CFa4d00Fc8e454fDdDdDD3ff5",
		RewardTokenTicker:       "BRL",
		RewardTokenFunction:     "BRL",
		RewardsPerBlockFunction: "BRLPerBlock",
		PendingRewardsFunction:  "pendingBRL",
		ActivePools:             []int{1},
		Concurrency:             8,
		Rewards: RewardsConfig{
			Mode:             "multiplier",
			BlockTimeSeconds: 1.1,
			PerBlockDivisor:  3,
		},
	}

	c.Prices = PricesConfig{
		BaseURL:    "https://api.coingecko.com/api/v3",
		VsCurrency: "usd",
		ChunkSize:  50,
		Timeout:    10 * time.Second,
		Retries:    2,
		Tokens: []TokenConfig{
			{ID: "borealis", Symbol: "BRL", Contract: "0x12c87331f086c3C926248f964f8702C0842Fd77F"},
			{ID: "weth", Symbol: "WETH", Contract: "0xC9BdeEd33CD01541e1eeD10f90519d2C06Fe3feB"},
			{ID: "wrapped-near", Symbol: "WNEAR", Contract: "0xC42C30aC6Cc15faC9bD938618BcaA1a1FaE8501d"},
		},
	}

	c.Cache.ClassificationTTL = 60 * time.Second
	c.Cache.MaxEntries = 10000
	c.Cache.CleanupInterval = 5 * time.Minute
	c.Cache.Redis.Host = "localhost"
	c.Cache.Redis.Port = 6379
	c.Cache.Redis.Prefix = "farmyield"

	return c
}

// Load reads a YAML configuration file on top of Default. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML, then .env, then overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := load(path)
	if err != nil {
		return nil, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return nil, fmt.Errorf("env config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
