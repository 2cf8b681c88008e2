package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigWindowIsLastYear(t *testing.T) {
	cfg := defaultConfig()
	lastYear := time.Now().Year() - 1

	if want := fmt.Sprintf("%d-01-01", lastYear); cfg.FirstDate != want {
		t.Errorf("FirstDate = %s, want %s", cfg.FirstDate, want)
	}
	if want := fmt.Sprintf("%d-12-31", lastYear); cfg.LastDate != want {
		t.Errorf("LastDate = %s, want %s", cfg.LastDate, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config does not validate: %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Setenv("TEST_CACHE_DIR", "/var/cache")
	path := filepath.Join(t.TempDir(), "dcrpos.yaml")
	body := `
first_date: 2020-01-01
last_date: 2020-12-31
format: compact
cache_file: ${TEST_CACHE_DIR}/chain.jsonl
jobs: 8
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := defaultConfig()
	if err := loadConfigFile(path, cfg); err != nil {
		t.Fatalf("loadConfigFile() failed: %v", err)
	}

	if cfg.FirstDate != "2020-01-01" || cfg.LastDate != "2020-12-31" {
		t.Errorf("window = %s..%s, want 2020-01-01..2020-12-31", cfg.FirstDate, cfg.LastDate)
	}
	if cfg.Format != "compact" {
		t.Errorf("Format = %s, want compact", cfg.Format)
	}
	if cfg.CacheFile != "/var/cache/chain.jsonl" {
		t.Errorf("CacheFile = %s, env variable not expanded", cfg.CacheFile)
	}
	if cfg.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Jobs)
	}
	// Untouched keys keep their defaults.
	if cfg.TxFile != *txFile {
		t.Errorf("TxFile = %s, want default %s", cfg.TxFile, *txFile)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing prices", func(c *Config) { c.Prices = "" }},
		{"missing tx file", func(c *Config) { c.TxFile = "" }},
		{"missing cache file", func(c *Config) { c.CacheFile = "" }},
		{"zero jobs", func(c *Config) { c.Jobs = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() accepted an invalid config")
			}
		})
	}

	t.Run("no cache file needed with no-cache", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.CacheFile = ""
		cfg.NoCache = true
		if err := cfg.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})
}
