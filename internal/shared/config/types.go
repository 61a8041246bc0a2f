package config

import "fmt"

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`

	// BaseURL is the public origin used when composing shareable links,
	// e.g. "https://pay.cnktplus.io".
	BaseURL string `mapstructure:"base_url"`
	// LinkBasePath is the path prefix for short payment links, e.g. "/p".
	LinkBasePath   string   `mapstructure:"link_base_path"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.Username, d.Password, d.Database, sslMode)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	SessionExpHours int    `mapstructure:"session_exp_hours"`
}

type ChallengeConfig struct {
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

type AuthConfig struct {
	JWT       JWTConfig       `mapstructure:"jwt"`
	Challenge ChallengeConfig `mapstructure:"challenge"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TokenInfo describes an entry of the token catalog offered by the generator.
// It doubles as the metadata fallback when the contract cannot be queried.
type TokenInfo struct {
	Address  string `mapstructure:"address"`
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
	Decimals uint8  `mapstructure:"decimals"`
	Default  bool   `mapstructure:"default"`
}

type ChainConfig struct {
	// RPCURL is the JSON-RPC endpoint used for balance reads, token metadata
	// and receipt polling.
	RPCURL string `mapstructure:"rpc_url"`
	// ChainID is the only network payments are accepted on (137 = Polygon).
	ChainID uint64 `mapstructure:"chain_id"`
	// NativeToken is the sentinel address denoting the chain's native asset.
	NativeToken           string      `mapstructure:"native_token"`
	Tokens                []TokenInfo `mapstructure:"tokens"`
	ConfirmTimeoutSeconds int         `mapstructure:"confirm_timeout_seconds"`
	// PrivateKey is the hex-encoded key of the paying wallet. Payments are
	// disabled when empty; link generation and resolution still work.
	PrivateKey string `mapstructure:"private_key"`
}

// DefaultToken returns the catalog entry marked as default, or the first one.
func (c *ChainConfig) DefaultToken() TokenInfo {
	for _, t := range c.Tokens {
		if t.Default {
			return t
		}
	}
	if len(c.Tokens) > 0 {
		return c.Tokens[0]
	}
	return TokenInfo{}
}

type StorageConfig struct {
	// Endpoint is the storage API base URL; empty means no blob store is
	// configured and images fall back to inline data URLs.
	Endpoint      string `mapstructure:"endpoint"`
	Bucket        string `mapstructure:"bucket"`
	APIKey        string `mapstructure:"api_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type RateLimitConfig struct {
	CreatePerMinute  int `mapstructure:"create_per_minute"`
	ResolvePerMinute int `mapstructure:"resolve_per_minute"`
}
