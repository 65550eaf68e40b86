// Package config provides configuration management for the philosophy
// command. Values come from defaults, an optional config file, a .env file,
// the environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/philosophy/internal/logger"
	"github.com/jonesrussell/philosophy/internal/transport"
	"github.com/jonesrussell/philosophy/internal/wiki"
)

// Interface defines the interface for configuration management.
type Interface interface {
	// GetGameConfig returns the game configuration.
	GetGameConfig() *GameConfig
	// GetWikiConfig returns the wiki configuration.
	GetWikiConfig() *WikiConfig
	// GetTransportConfig returns the transport configuration.
	GetTransportConfig() *TransportConfig
	// GetCacheConfig returns the cache configuration.
	GetCacheConfig() *CacheConfig
	// GetLoggerConfig returns the logger configuration.
	GetLoggerConfig() *logger.Config
	// CollyConfig returns the settings for the colly fetcher.
	CollyConfig() transport.CollyConfig
	// Validate validates the configuration.
	Validate() error
}

// Ensure Config implements Interface
var _ Interface = (*Config)(nil)

// GameConfig holds the rules of one game.
type GameConfig struct {
	Target  string
	MaxHops int
}

// WikiConfig describes the wiki being played on.
type WikiConfig struct {
	Host        string
	ArticlePath string
	APIPath     string
}

// Site returns the addressing rules for the configured wiki.
func (c *WikiConfig) Site() wiki.Site {
	return wiki.NewSite(c.Host, c.ArticlePath, c.APIPath)
}

// TransportConfig configures HTTP access to the wiki.
type TransportConfig struct {
	UserAgent      string
	RequestTimeout time.Duration
	Delay          time.Duration
}

// CacheConfig configures the on-disk article cache. An empty Dir disables it.
type CacheConfig struct {
	Dir string
}

// Enabled reports whether the disk cache is in use.
func (c *CacheConfig) Enabled() bool {
	return c.Dir != ""
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
}

// Config represents the application configuration.
type Config struct {
	App       *AppConfig
	Game      *GameConfig
	Wiki      *WikiConfig
	Transport *TransportConfig
	Cache     *CacheConfig
	Logger    *logger.Config
}

// Load reads the config file if one is set or found, then builds the
// configuration. A missing file is not an error when none was requested.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, &LoadError{File: file, Err: err}
		}
	}

	return FromViper(v)
}

// FromViper builds the configuration from v and validates it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: &AppConfig{
			Name:        v.GetString("app.name"),
			Environment: v.GetString("app.environment"),
			Debug:       v.GetBool("app.debug"),
		},
		Game: &GameConfig{
			Target:  strings.TrimSpace(v.GetString("game.target")),
			MaxHops: v.GetInt("game.max_hops"),
		},
		Wiki: &WikiConfig{
			Host:        v.GetString("wiki.host"),
			ArticlePath: v.GetString("wiki.article_path"),
			APIPath:     v.GetString("wiki.api_path"),
		},
		Transport: &TransportConfig{
			UserAgent:      v.GetString("transport.user_agent"),
			RequestTimeout: v.GetDuration("transport.request_timeout"),
			Delay:          v.GetDuration("transport.delay"),
		},
		Cache: &CacheConfig{
			Dir: v.GetString("cache.dir"),
		},
		Logger: &logger.Config{
			Level:       logger.Level(strings.ToLower(v.GetString("logger.level"))),
			Development: v.GetBool("logger.development"),
			Encoding:    v.GetString("logger.encoding"),
			OutputPaths: v.GetStringSlice("logger.output_paths"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Game.MaxHops < 0 {
		return &ValidationError{Field: "game.max_hops", Value: c.Game.MaxHops, Reason: "must not be negative"}
	}
	if c.Game.Target == "" {
		return &ValidationError{Field: "game.target", Value: c.Game.Target, Reason: "must not be empty"}
	}

	host, err := url.Parse(c.Wiki.Host)
	if err != nil || (host.Scheme != "http" && host.Scheme != "https") || host.Host == "" {
		return &ValidationError{Field: "wiki.host", Value: c.Wiki.Host, Reason: "must be an http or https URL"}
	}
	if strings.Count(c.Wiki.APIPath, "%s") != 1 {
		return &ValidationError{Field: "wiki.api_path", Value: c.Wiki.APIPath, Reason: "must contain exactly one %s"}
	}

	if c.Transport.RequestTimeout <= 0 {
		return &ValidationError{
			Field: "transport.request_timeout", Value: c.Transport.RequestTimeout, Reason: "must be positive",
		}
	}
	if c.Transport.Delay < 0 {
		return &ValidationError{Field: "transport.delay", Value: c.Transport.Delay, Reason: "must not be negative"}
	}

	if _, err := logger.ParseLevel(string(c.Logger.Level)); err != nil {
		return &ValidationError{Field: "logger.level", Value: c.Logger.Level, Reason: err.Error()}
	}
	return nil
}

// CollyConfig returns the transport settings for the colly fetcher.
func (c *Config) CollyConfig() transport.CollyConfig {
	return transport.CollyConfig{
		Site:           c.Wiki.Site(),
		UserAgent:      c.Transport.UserAgent,
		RequestTimeout: c.Transport.RequestTimeout,
		Delay:          c.Transport.Delay,
	}
}

// GetGameConfig returns the game configuration.
func (c *Config) GetGameConfig() *GameConfig {
	return c.Game
}

// GetWikiConfig returns the wiki configuration.
func (c *Config) GetWikiConfig() *WikiConfig {
	return c.Wiki
}

// GetTransportConfig returns the transport configuration.
func (c *Config) GetTransportConfig() *TransportConfig {
	return c.Transport
}

// GetCacheConfig returns the cache configuration.
func (c *Config) GetCacheConfig() *CacheConfig {
	return c.Cache
}

// GetLoggerConfig returns the logger configuration.
func (c *Config) GetLoggerConfig() *logger.Config {
	return c.Logger
}

// New returns the default configuration. It is mostly useful in tests.
func New() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	cfg, err := FromViper(v)
	if err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	return cfg, nil
}
