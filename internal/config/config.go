package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Router    RouterConfig    `mapstructure:"router"`
	Backends  []BackendConfig `mapstructure:"backends"`
}

type ServerConfig struct {
	Port    string   `mapstructure:"port"`
	Env     string   `mapstructure:"env"`
	APIKeys []string `mapstructure:"api_keys"`
}

type StoreConfig struct {
	// Driver selects the persistence boundary: "memory" or "sqlite".
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

type RouterConfig struct {
	// StrictProviders fails routing when a preferred-provider list matches
	// nothing instead of widening to the full pool.
	StrictProviders bool          `mapstructure:"strict_providers"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InferTimeout    time.Duration `mapstructure:"infer_timeout"`
}

// BackendConfig describes one hosted inference API. The model field names
// the registered descriptor the backend is bound to.
type BackendConfig struct {
	ID      string `mapstructure:"id" validate:"required"`
	Type    string `mapstructure:"type" validate:"required"`
	Model   string `mapstructure:"model" validate:"required"`
	APIKey  string `mapstructure:"api_key" validate:"required"`
	BaseURL string `mapstructure:"base_url"`
	Enabled bool   `mapstructure:"enabled"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig() (*Config, error) {
	// Load .env file if present
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	}

	// Default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.dsn", "arbiter.db")
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("rate_limit.requests_per_second", 10.0)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("router.strict_providers", false)
	v.SetDefault("router.max_attempts", 1)
	v.SetDefault("router.infer_timeout", 30*time.Second)

	// Environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Resolve API keys declared as ENV:VAR_NAME indirections
	for i, b := range cfg.Backends {
		if strings.HasPrefix(b.APIKey, "ENV:") {
			envVar := strings.TrimPrefix(b.APIKey, "ENV:")
			val := os.Getenv(envVar)
			if val == "" {
				val = v.GetString(envVar)
			}
			cfg.Backends[i].APIKey = val
		}
	}

	return &cfg, nil
}
