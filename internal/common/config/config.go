// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Server   ServerConfig   `mapstructure:"server"`
	Theme    ThemeConfig    `mapstructure:"theme"`
	Database DatabaseConfig `mapstructure:"database"`
	Demo     DemoConfig     `mapstructure:"demo"`
	Registry RegistryConfig `mapstructure:"registry"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig points the gateway at the credit-scoring API.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds, 0 keeps the http.Client default
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	CookieName     string   `mapstructure:"cookie_name"`
	SessionTTL     int      `mapstructure:"session_ttl"` // minutes of inactivity before a session is dropped, 0 keeps it
}

// Theme store kinds
const (
	ThemeStoreFile   = "file"
	ThemeStoreMemory = "memory"
	ThemeStoreRedis  = "redis"
)

// ThemeConfig stores one preference per browser, identified by a long-lived cookie.
type ThemeConfig struct {
	Store      string `mapstructure:"store"`
	FilePath   string `mapstructure:"file_path"` // directory, one file per browser
	RedisKey   string `mapstructure:"redis_key"` // prefix, one key per browser
	CookieName string `mapstructure:"cookie_name"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// DemoConfig guards the role-switching shortcut. It carries no authentication.
type DemoConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// String renders the config without secrets, for startup logs.
func (c *Config) String() string {
	return fmt.Sprintf(
		"app=%s env=%s backend=%s server=%s theme=%s demo=%t",
		c.App.Name, c.App.Environment, c.Backend.BaseURL, c.Server.Address, c.Theme.Store, c.Demo.Enabled,
	)
}
