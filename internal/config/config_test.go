package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.DataSource.Symbol != "AAPL" {
		t.Errorf("unexpected data source defaults: %+v", cfg.DataSource)
	}
	if cfg.Schedule.PollCron != "0 * * * * *" {
		t.Errorf("unexpected poll cron %q", cfg.Schedule.PollCron)
	}
	if !cfg.Schedule.RunOnStart {
		t.Error("expected run_on_start to default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := []byte(`
data_source:
  provider: rest
  base_url: http://localhost:8080
  symbol: MSFT
series:
  retention: 120
schedule:
  run_on_start: false
`)
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYMBOL", "NVDA")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataSource.Provider != "rest" || cfg.DataSource.BaseURL != "http://localhost:8080" {
		t.Errorf("file values not applied: %+v", cfg.DataSource)
	}
	if cfg.DataSource.Symbol != "NVDA" {
		t.Errorf("env override not applied, symbol=%q", cfg.DataSource.Symbol)
	}
	if cfg.Series.Retention != 120 {
		t.Errorf("expected retention 120, got %d", cfg.Series.Retention)
	}
	if cfg.Schedule.RunOnStart {
		t.Error("expected run_on_start false from file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "ftp" }},
		{"rest without base url", func(c *Config) { c.DataSource.Provider = "rest" }},
		{"bad cron", func(c *Config) { c.Schedule.PollCron = "every minute" }},
		{"retention too small", func(c *Config) { c.Series.Retention = 10 }},
		{"telegram half configured", func(c *Config) { c.Telegram.BotToken = "token" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
