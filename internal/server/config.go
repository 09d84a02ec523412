package server

import "github.com/skillsenselab/data2csv/internal/validation"

// Default bind address for the service.
const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 3200
)

// Config holds HTTP server configuration.
type Config struct {
	Host         string `yaml:"host" mapstructure:"host"`
	Port         int    `yaml:"port" mapstructure:"port"`
	ReadTimeout  int    `yaml:"read_timeout" mapstructure:"read_timeout"`   // seconds
	WriteTimeout int    `yaml:"write_timeout" mapstructure:"write_timeout"` // seconds
	IdleTimeout  int    `yaml:"idle_timeout" mapstructure:"idle_timeout"`   // seconds
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 15
	}
	if c.IdleTimeout == 0 {
		c.IdleTimeout = 60
	}
}

// Validate checks the configuration for invalid values. A port outside the
// valid TCP range is a startup error, never silently corrected.
func (c *Config) Validate() error {
	v := validation.New().
		Required("host", c.Host).
		Range("port", c.Port, 1, 65535).
		Min("read_timeout", c.ReadTimeout, 0).
		Min("write_timeout", c.WriteTimeout, 0).
		Min("idle_timeout", c.IdleTimeout, 0)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
