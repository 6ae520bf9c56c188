package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_DefaultsAndYAML(t *testing.T) {
	path := writeConfig(t, `
ipo_source:
  url: https://example.com/ipos
analysis:
  osd_threshold: 5
database:
  sqlite_path: data/ipo.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.IPOSource.URL != "https://example.com/ipos" {
		t.Errorf("unexpected url %q", cfg.IPOSource.URL)
	}
	if cfg.Analysis.OSDThreshold != 5 {
		t.Errorf("expected osd threshold 5, got %d", cfg.Analysis.OSDThreshold)
	}
	if cfg.Analysis.LookbackDays != 30 || cfg.IPOSource.MaxAgeDays != 21 || cfg.Analysis.FetchConcurrency != 1 {
		t.Errorf("unexpected defaults: %+v", cfg.Analysis)
	}
	if cfg.DataSource.Provider != ProviderYahoo {
		t.Errorf("expected default provider yahoo, got %q", cfg.DataSource.Provider)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("IPO_TICKERS", "ABCD,WXYZ")
	t.Setenv("DATA_PROVIDER", "alpaca")
	t.Setenv("ALPACA_API_KEY", "key")
	t.Setenv("ALPACA_SECRET_KEY", "secret")
	t.Setenv("FETCH_CONCURRENCY", "4")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if len(cfg.IPOSource.Tickers) != 2 || cfg.IPOSource.Tickers[1] != "WXYZ" {
		t.Errorf("unexpected tickers %v", cfg.IPOSource.Tickers)
	}
	if cfg.Analysis.FetchConcurrency != 4 {
		t.Errorf("expected concurrency 4, got %d", cfg.Analysis.FetchConcurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "analysis: [unclosed")); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no ipo source", func(c *Config) { c.IPOSource.URL = "" }},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"alpaca without keys", func(c *Config) { c.DataSource.Provider = ProviderAlpaca }},
		{"zero lookback", func(c *Config) { c.Analysis.LookbackDays = 0 }},
		{"negative threshold", func(c *Config) { c.Analysis.OSDThreshold = -1 }},
		{"zero concurrency", func(c *Config) { c.Analysis.FetchConcurrency = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.IPOSource.URL = "https://example.com"
			cfg.DataSource.Provider = ProviderYahoo
			cfg.Analysis.LookbackDays = 30
			cfg.Analysis.OSDThreshold = 3
			cfg.Analysis.FetchConcurrency = 1
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateNotifier(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateNotifier(); err == nil {
		t.Error("expected error without bot token")
	}
	cfg.Telegram.BotToken = "token"
	cfg.Telegram.ChatID = "42"
	if err := cfg.ValidateNotifier(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
