package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config gathers every setting of the report pipeline. Values come from
// defaults, then the optional YAML config file, then explicit flags.
type Config struct {
	FirstDate    string `yaml:"first_date"`
	LastDate     string `yaml:"last_date"`
	Format       string `yaml:"format"`
	Prices       string `yaml:"prices"`
	TxFile       string `yaml:"tx_file"`
	CacheFile    string `yaml:"cache_file"`
	CacheBackend string `yaml:"cache_backend"`
	NoCache      bool   `yaml:"no_cache"`
	RPCURL       string `yaml:"rpc_url"`
	Jobs         int    `yaml:"jobs"`
}

// defaultConfig reports on the previous calendar year, like the original
// tax-season workflow.
func defaultConfig() *Config {
	lastYear := time.Now().Year() - 1
	return &Config{
		FirstDate:    fmt.Sprintf("%d-01-01", lastYear),
		LastDate:     fmt.Sprintf("%d-12-31", lastYear),
		Format:       "verbose",
		Prices:       *pricesFile,
		TxFile:       *txFile,
		CacheFile:    *cacheFile,
		CacheBackend: *cacheBackend,
		NoCache:      *noCache,
		RPCURL:       *rpcURL,
		Jobs:         4,
	}
}

// loadConfigFile overlays the YAML file at path onto cfg. Environment
// variables in the file are expanded (${VAR}).
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Prices == "" {
		return fmt.Errorf("prices file is required")
	}
	if c.TxFile == "" {
		return fmt.Errorf("tx file is required")
	}
	if !c.NoCache && c.CacheFile == "" {
		return fmt.Errorf("cache file is required unless -no-cache is set")
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1")
	}
	return nil
}
