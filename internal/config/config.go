package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/spf13/viper"
)

// Default values applied by SetDefaults.
const (
	DefaultDatabasePath      = "~/.local/share/microscan/microscan.db"
	DefaultScraperTimeout    = 60 * time.Second
	DefaultRequestsPerMinute = 30
	DefaultServerAddress     = ":3001"
	DefaultRecentLimit       = 10
)

// Config is the typed view of the application configuration.
type Config struct {
	Database DatabaseConfig
	Logging  LoggingConfig
	Auth     AuthConfig
	Server   ServerConfig
	Scraper  ScraperConfig
	Resolver ResolverConfig
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string
}

// ScraperConfig describes the external classifier command.
type ScraperConfig struct {
	Command           string
	Args              []string
	Timeout           time.Duration
	RequestsPerMinute int
}

// ResolverConfig tunes product resolution.
type ResolverConfig struct {
	Coalesce    bool
	RecentLimit int
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address        string
	AllowedOrigins []string
}

// AuthConfig configures bearer token verification.
type AuthConfig struct {
	JWTSecret string
}

// LoggingConfig selects the log level and format.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("scraper.command", "python3")
	v.SetDefault("scraper.args", []string{"scraper.py"})
	v.SetDefault("scraper.timeout", DefaultScraperTimeout)
	v.SetDefault("scraper.requests_per_minute", DefaultRequestsPerMinute)
	v.SetDefault("resolver.coalesce", true)
	v.SetDefault("resolver.recent_limit", DefaultRecentLimit)
	v.SetDefault("server.address", DefaultServerAddress)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from v. Paths are expanded and values are
// validated; the JWT secret is only checked by the server.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Database: DatabaseConfig{
			Path: ExpandPath(v.GetString("database.path")),
		},
		Scraper: ScraperConfig{
			Command:           ExpandPath(v.GetString("scraper.command")),
			Args:              v.GetStringSlice("scraper.args"),
			Timeout:           v.GetDuration("scraper.timeout"),
			RequestsPerMinute: v.GetInt("scraper.requests_per_minute"),
		},
		Resolver: ResolverConfig{
			Coalesce:    v.GetBool("resolver.coalesce"),
			RecentLimit: v.GetInt("resolver.recent_limit"),
		},
		Server: ServerConfig{
			Address:        v.GetString("server.address"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
		},
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("logging.level")),
			Format: strings.ToLower(v.GetString("logging.format")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
	}
	if strings.TrimSpace(c.Scraper.Command) == "" {
		return fmt.Errorf("%w: scraper.command", common.ErrMissingConfig)
	}
	if c.Scraper.Timeout < 0 {
		return fmt.Errorf("%w: scraper.timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.Scraper.RequestsPerMinute < 0 {
		return fmt.Errorf("%w: scraper.requests_per_minute must not be negative", common.ErrInvalidConfig)
	}
	if c.Resolver.RecentLimit < 0 {
		return fmt.Errorf("%w: resolver.recent_limit must not be negative", common.ErrInvalidConfig)
	}
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json", "":
	default:
		return fmt.Errorf("%w: invalid log format: %s", common.ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// RequireJWTSecret reports an error when no signing secret is configured.
func (c Config) RequireJWTSecret() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("%w: auth.jwt_secret", common.ErrMissingConfig)
	}
	return nil
}
