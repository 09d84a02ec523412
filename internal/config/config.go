// Package config loads service configuration from YAML files, .env files,
// and environment variables, in that order of precedence.
package config

import (
	"fmt"

	"github.com/skillsenselab/data2csv/internal/logger"
	"github.com/skillsenselab/data2csv/internal/nextcloud"
	"github.com/skillsenselab/data2csv/internal/observability"
	"github.com/skillsenselab/data2csv/internal/probe"
	"github.com/skillsenselab/data2csv/internal/server"
)

// ServiceName is the canonical name of this service.
const ServiceName = "data2csv"

// Config is the full configuration of the data2csv service.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Probe         probe.Config         `yaml:"probe" mapstructure:"probe"`
	Nextcloud     nextcloud.Config     `yaml:"nextcloud" mapstructure:"nextcloud"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies default values to all sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}

	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Probe.ApplyDefaults()
	c.Nextcloud.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates all sections. The first invalid section aborts startup.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("config.server: %w", err)
	}
	if err := c.Probe.Validate(); err != nil {
		return fmt.Errorf("config.probe: %w", err)
	}
	if err := c.Nextcloud.Validate(); err != nil {
		return fmt.Errorf("config.nextcloud: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}
