package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/jfscaramazza/cnktplus-paymentbutton/internal/shared/config"
)

type Config struct {
	Server    sharedConfig.ServerConfig    `mapstructure:"server"`
	Database  sharedConfig.DatabaseConfig  `mapstructure:"database"`
	Logger    sharedConfig.LoggerConfig    `mapstructure:"logger"`
	Auth      sharedConfig.AuthConfig      `mapstructure:"auth"`
	Redis     sharedConfig.RedisConfig     `mapstructure:"redis"`
	Chain     sharedConfig.ChainConfig     `mapstructure:"chain"`
	Storage   sharedConfig.StorageConfig   `mapstructure:"storage"`
	RateLimit sharedConfig.RateLimitConfig `mapstructure:"rate_limit"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("PAYBUTTON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// The config file is optional: defaults plus environment variables
		// are a complete configuration.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow env parameter to override server mode if provided
	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("server.link_base_path", "/p")
	viper.SetDefault("server.allowed_origins", []string{"*"})

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.username", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.database", "paybutton_dev")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_idle_conns", 10)
	viper.SetDefault("database.max_open_conns", 100)
	viper.SetDefault("database.conn_max_lifetime", 60)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	// Auth defaults
	viper.SetDefault("auth.jwt.secret", "change-me-in-production")
	viper.SetDefault("auth.jwt.session_exp_hours", 24)
	viper.SetDefault("auth.challenge.ttl_minutes", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Chain defaults: Polygon mainnet with the stock token catalog
	viper.SetDefault("chain.rpc_url", "https://polygon-rpc.com")
	viper.SetDefault("chain.chain_id", 137)
	viper.SetDefault("chain.native_token", "0x0000000000000000000000000000000000001010")
	viper.SetDefault("chain.private_key", "")
	viper.SetDefault("chain.confirm_timeout_seconds", 180)
	viper.SetDefault("chain.tokens", []map[string]interface{}{
		{
			"address":  "0x87bdfbe98Ba55104701b2F2e999982a317905637",
			"symbol":   "CNKT+",
			"name":     "Conekta Plus",
			"decimals": 18,
			"default":  true,
		},
		{
			"address":  "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359",
			"symbol":   "USDC",
			"name":     "USD Coin",
			"decimals": 6,
		},
		{
			"address":  "0xc2132D05D31c914a87C6611C10748AEb04B58e8F",
			"symbol":   "USDT",
			"name":     "Tether USD",
			"decimals": 6,
		},
		{
			"address":  "0x0000000000000000000000000000000000001010",
			"symbol":   "POL",
			"name":     "Polygon Ecosystem Token",
			"decimals": 18,
		},
	})

	// Storage defaults: unset endpoint disables hosted images
	viper.SetDefault("storage.endpoint", "")
	viper.SetDefault("storage.bucket", "button-images")
	viper.SetDefault("storage.api_key", "")
	viper.SetDefault("storage.public_base_url", "")

	// Rate limit defaults
	viper.SetDefault("rate_limit.create_per_minute", 30)
	viper.SetDefault("rate_limit.resolve_per_minute", 300)
}
