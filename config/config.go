// Package config provides configuration loading and access for the transport engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every recognised option from the engine's configuration table.
type Config struct {
	Seed         uint64          `yaml:"seed"`
	RNG          RNGConfig       `yaml:"rng"`
	Scheduler    string          `yaml:"multithread"`
	FreeGas      FreeGasConfig   `yaml:"freegas"`
	Criticality  CriticalityConfig `yaml:"criticality"`
	Geometry     GeometryConfig  `yaml:"geometry"`
	Output       OutputConfig    `yaml:"output"`
	Telemetry    TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// RNGConfig holds per-history and per-source-sample RNG reservation sizes.
type RNGConfig struct {
	MaxPerHistory   uint64 `yaml:"max_rng_per_history"`
	MaxSourceSample uint64 `yaml:"max_source_samples"`
}

// FreeGasConfig holds the thresholds that select free-gas elastic scattering.
type FreeGasConfig struct {
	EnergyThreshold float64 `yaml:"energy_freegas_threshold"` // multiplier of kT
	AWRThreshold    float64 `yaml:"awr_freegas_threshold"`
}

// CriticalityConfig holds the power-iteration cycle counts.
type CriticalityConfig struct {
	Particles uint64 `yaml:"particles"`
	Inactive  uint64 `yaml:"inactive"`
	Active    uint64 `yaml:"active"`
}

// GeometryConfig selects and parameterises one of the built-in scenes (scene package).
type GeometryConfig struct {
	Scene  string  `yaml:"scene"` // "sphere", "lattice", "slab", "chance-fission"
	Radius float64 `yaml:"radius"`
	Pitch  float64 `yaml:"pitch"`
}

// OutputConfig holds output directory settings.
type OutputConfig struct {
	Dir string `yaml:"dir"` // empty = no CSV/file output unless cmd/heliosmc's -output flag sets one
}

// SeedBankConfig controls the optional best-inactive-cycle reseed recorder.
type SeedBankConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TelemetryConfig holds diagnostic-only telemetry settings.
type TelemetryConfig struct {
	PerfWindow int            `yaml:"perf_window"`
	SeedBank   SeedBankConfig `yaml:"seed_bank"`
}

// DerivedConfig holds values computed once after loading.
type DerivedConfig struct {
	RunID string // printed in cmd/heliosmc's opening log line
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()
	return cfg, nil
}

// validate rejects configurations the engine cannot run, per the ConfigError
// kind: an unrecognised scheduler or a criticality block with no particles
// aborts config loading rather than silently falling back to a default.
func (c *Config) validate() error {
	switch c.Scheduler {
	case "single", "tbb", "omp":
	default:
		return &ConfigError{Key: "multithread", Reason: fmt.Sprintf("unrecognised scheduler %q", c.Scheduler)}
	}
	if c.Criticality.Particles == 0 {
		return &ConfigError{Key: "criticality.particles", Reason: "must be > 0"}
	}
	if c.RNG.MaxPerHistory == 0 {
		return &ConfigError{Key: "max_rng_per_history", Reason: "must be > 0"}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.RunID = newRunID()
}

// WriteYAML saves the configuration to disk, mirroring the loaded layout.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// ConfigError reports a rejected configuration key, per the engine's ConfigError kind.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: key %q: %s", e.Key, e.Reason)
}
