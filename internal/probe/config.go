package probe

import (
	"fmt"
	"time"
)

// Default health check parameters, matching the container health check
// contract this service ships with.
const (
	DefaultPattern     = "data2csv"
	DefaultInterval    = 30 * time.Second
	DefaultTimeout     = 10 * time.Second
	DefaultStartPeriod = 5 * time.Second
	DefaultRetries     = 3
)

// Config holds the liveness probe parameters. The probe runs every
// Interval, each attempt is bounded by Timeout, failures within StartPeriod
// of process start are not counted against the retry budget, and Retries
// consecutive failures mark the process unhealthy.
type Config struct {
	Pattern     string        `yaml:"pattern" mapstructure:"pattern"`
	Interval    time.Duration `yaml:"interval" mapstructure:"interval"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	StartPeriod time.Duration `yaml:"start_period" mapstructure:"start_period"`
	Retries     int           `yaml:"retries" mapstructure:"retries"`
	Enabled     bool          `yaml:"enabled" mapstructure:"enabled"`
}

// ApplyDefaults fills in zero-valued fields with the contract defaults.
func (c *Config) ApplyDefaults() {
	if c.Pattern == "" {
		c.Pattern = DefaultPattern
	}
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.StartPeriod == 0 {
		c.StartPeriod = DefaultStartPeriod
	}
	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("probe.interval must be positive (got: %s)", c.Interval)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("probe.timeout must be positive (got: %s)", c.Timeout)
	}
	if c.StartPeriod < 0 {
		return fmt.Errorf("probe.start_period must be non-negative (got: %s)", c.StartPeriod)
	}
	if c.Retries < 1 {
		return fmt.Errorf("probe.retries must be at least 1 (got: %d)", c.Retries)
	}
	return nil
}
