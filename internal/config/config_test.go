package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Broker.Active != "fyers" {
		t.Errorf("Active = %q", cfg.Broker.Active)
	}
	if cfg.Broker.DefaultExchange != "NSE" || cfg.Broker.DefaultProduct != "CNC" {
		t.Errorf("defaults = %q/%q", cfg.Broker.DefaultExchange, cfg.Broker.DefaultProduct)
	}
	if cfg.Broker.Timeout != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Broker.Timeout)
	}
	if cfg.Broker.LookbackDays != 9 {
		t.Errorf("LookbackDays = %d", cfg.Broker.LookbackDays)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.toml", `
[broker]
active = "definedge"
default_product = "INTRADAY"
lookback_days = 5
`)
	writeFile(t, dir, "credentials.toml", `
[fyers]
client_id = "XY0001"
access_token = "tok"

[definedge]
api_token = "at"
api_secret = "sec"
api_session_key = "sess"
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Broker.Active != "definedge" || cfg.Broker.LookbackDays != 5 {
		t.Fatalf("broker = %+v", cfg.Broker)
	}
	if cfg.Broker.DefaultExchange != "NSE" {
		t.Fatalf("unset fields must keep defaults, got %q", cfg.Broker.DefaultExchange)
	}
	if cfg.Credentials.Fyers.ClientID != "XY0001" {
		t.Fatalf("fyers creds = %+v", cfg.Credentials.Fyers)
	}
	if cfg.Credentials.Definedge.SessionKey != "sess" {
		t.Fatalf("definedge creds = %+v", cfg.Credentials.Definedge)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TRADEDECK_BROKER", "definedge")
	t.Setenv("DEFINEDGE_SESSION_KEY", "env-sess")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Broker.Active != "definedge" {
		t.Fatalf("Active = %q", cfg.Broker.Active)
	}
	if cfg.Credentials.Definedge.SessionKey != "env-sess" {
		t.Fatalf("SessionKey = %q", cfg.Credentials.Definedge.SessionKey)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"unknown broker", func(c *Config) { c.Broker.Active = "zerodha" }},
		{"zero timeout", func(c *Config) { c.Broker.Timeout = 0 }},
		{"zero lookback", func(c *Config) { c.Broker.LookbackDays = 0 }},
		{"bad product", func(c *Config) { c.Broker.DefaultProduct = "BO" }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := Load(t.TempDir())
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			c.mut(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("want validation error")
			}
		})
	}
}
