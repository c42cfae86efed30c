// Package config provides configuration management for the dashboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Broker      BrokerConfig `mapstructure:"broker"`
	UI          UIConfig     `mapstructure:"ui"`
	Credentials Credentials  `mapstructure:"-"` // loaded from credentials.toml
}

// BrokerConfig holds broker selection and call behaviour.
type BrokerConfig struct {
	Active          string        `mapstructure:"active"`           // "fyers" or "definedge"
	DefaultExchange string        `mapstructure:"default_exchange"` // NSE, BSE
	DefaultProduct  string        `mapstructure:"default_product"`  // CNC, INTRADAY, NRML
	Timeout         time.Duration `mapstructure:"timeout"`
	LookbackDays    int           `mapstructure:"lookback_days"` // previous-close scan window
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// Credentials holds API credentials for both brokers.
type Credentials struct {
	Fyers     FyersCredentials     `mapstructure:"fyers"`
	Definedge DefinedgeCredentials `mapstructure:"definedge"`
}

// FyersCredentials holds Fyers API credentials.
type FyersCredentials struct {
	ClientID    string `mapstructure:"client_id"`
	AccessToken string `mapstructure:"access_token"`
}

// DefinedgeCredentials holds Definedge Integrate API credentials.
type DefinedgeCredentials struct {
	APIToken   string `mapstructure:"api_token"`
	APISecret  string `mapstructure:"api_secret"`
	SessionKey string `mapstructure:"api_session_key"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/tradedeck"
	}
	return filepath.Join(home, ".config", "tradedeck")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadConfigFile(configDir, "credentials", &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, name)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// Missing file is fine: defaults plus env overrides still apply.
	}

	return v.Unmarshal(target)
}

func setDefaults(v *viper.Viper, name string) {
	if name != "config" {
		return
	}
	v.SetDefault("broker.active", "fyers")
	v.SetDefault("broker.default_exchange", "NSE")
	v.SetDefault("broker.default_product", "CNC")
	v.SetDefault("broker.timeout", 10*time.Second)
	v.SetDefault("broker.lookback_days", 9)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "2006-01-02")
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FYERS_CLIENT_ID"); v != "" {
		cfg.Credentials.Fyers.ClientID = v
	}
	if v := os.Getenv("FYERS_ACCESS_TOKEN"); v != "" {
		cfg.Credentials.Fyers.AccessToken = v
	}
	if v := os.Getenv("DEFINEDGE_API_TOKEN"); v != "" {
		cfg.Credentials.Definedge.APIToken = v
	}
	if v := os.Getenv("DEFINEDGE_API_SECRET"); v != "" {
		cfg.Credentials.Definedge.APISecret = v
	}
	if v := os.Getenv("DEFINEDGE_SESSION_KEY"); v != "" {
		cfg.Credentials.Definedge.SessionKey = v
	}
	if v := os.Getenv("TRADEDECK_BROKER"); v != "" {
		cfg.Broker.Active = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	switch c.Broker.Active {
	case "fyers", "definedge":
	default:
		return fmt.Errorf("invalid broker: %s (must be 'fyers' or 'definedge')", c.Broker.Active)
	}

	if c.Broker.Timeout <= 0 {
		return fmt.Errorf("broker timeout must be positive")
	}
	if c.Broker.LookbackDays <= 0 {
		return fmt.Errorf("lookback_days must be positive")
	}

	switch c.Broker.DefaultProduct {
	case "CNC", "INTRADAY", "NRML", "":
	default:
		return fmt.Errorf("invalid default_product: %s", c.Broker.DefaultProduct)
	}

	return nil
}
