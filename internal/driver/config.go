package driver

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// EnvironmentConfig is the subset of options recognized by LocalEnvironment.
// It is decoded from the same TOML environment-options file the search
// engine reads; unrecognized keys are rejected so a typo in a config file
// fails loudly rather than silently running with defaults.
type EnvironmentConfig struct {
	BatchSize     int    `toml:"batch_size"`
	LogLevel      string `toml:"loglevel"`
	Deterministic bool   `toml:"deterministic"`

	// MemoryBudgetBytes bounds a pre-flight free-memory check before a
	// batch is spawned; zero disables the check. TimeoutSeconds bounds
	// each candidate's wall-clock budget; zero disables it. Concurrency
	// bounds how many candidates LocalEnvironment runs at once; zero
	// means sequential.
	MemoryBudgetBytes uint64 `toml:"memory_budget_bytes"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
	Concurrency       int    `toml:"concurrency"`
}

// DefaultEnvironmentConfig mirrors the environment's hardcoded defaults.
func DefaultEnvironmentConfig() EnvironmentConfig {
	return EnvironmentConfig{
		BatchSize:      1,
		LogLevel:       "info",
		Deterministic:  false,
		TimeoutSeconds: 1800,
	}
}

// LoadEnvironmentConfig decodes cfg over DefaultEnvironmentConfig's values,
// so a config file only needs to mention the keys it overrides.
func LoadEnvironmentConfig(path string) (EnvironmentConfig, error) {
	cfg := DefaultEnvironmentConfig()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return EnvironmentConfig{}, fmt.Errorf("driver: loading config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return EnvironmentConfig{}, fmt.Errorf("driver: config %s has unrecognized keys: %v", path, undecoded)
	}
	if cfg.BatchSize <= 0 {
		return EnvironmentConfig{}, fmt.Errorf("driver: config %s: batch_size must be positive, got %d", path, cfg.BatchSize)
	}
	return cfg, nil
}
