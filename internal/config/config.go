package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // sqlite | postgres
	Path    string `mapstructure:"path"`   // sqlite file path
	DSN     string `mapstructure:"dsn"`    // postgres DSN
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type CacheConfig struct {
	ResultsTTLSeconds int `mapstructure:"results_ttl_seconds"`
}

type SeedConfig struct {
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Security SecurityConfig `mapstructure:"security"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Seed     SeedConfig     `mapstructure:"seed"`
}

// Load reads configuration from the given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in the current working
// directory. Environment variables prefixed with VT_ override file values.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. VT_SERVER_PORT=9000
	v.SetEnvPrefix("VT") // vote tally
	v.AutomaticEnv()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/votes.db")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("cache.results_ttl_seconds", 10)
	v.SetDefault("seed.admin_username", "admin")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &c, nil
}
