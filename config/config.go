// Package config loads the TOML-based configuration for a vesting-cli host
// process: where vesting state is persisted and where metrics are served.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config describes how a host process wires storage and observability
// around the vesting engine. It has no bearing on engine semantics.
type Config struct {
	// DataDir is the directory LevelDB opens when Backend is "leveldb".
	DataDir string `toml:"DataDir"`
	// Backend selects the storage.Database implementation: "memory" or
	// "leveldb".
	Backend string `toml:"Backend"`
	// MetricsAddress is the listen address for a Prometheus /metrics
	// endpoint, e.g. ":9100". Nothing in this module starts that endpoint;
	// the value is only loaded (and set to ":9100" in a newly written
	// default file).
	MetricsAddress string `toml:"MetricsAddress"`
}

// Load reads path and decodes it as TOML. If path does not exist, a default
// configuration is written to path and returned, matching this corpus's
// self-healing config convention.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = "leveldb"
	}
	if c.DataDir == "" {
		c.DataDir = "./vesting-data"
	}
}

func createDefault(path string) (*Config, error) {
	cfg := &Config{
		DataDir:        "./vesting-data",
		Backend:        "leveldb",
		MetricsAddress: ":9100",
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
