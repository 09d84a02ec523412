// Package nextcloud uploads generated documents to a Nextcloud instance over
// WebDAV and publishes read-only public share links through the OCS API.
package nextcloud

import "fmt"

// DefaultExportDir is the remote folder that receives uploaded documents.
const DefaultExportDir = "data2csv_exports"

// Config holds Nextcloud connection settings.
type Config struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	URL       string `yaml:"url" mapstructure:"url"`
	Username  string `yaml:"username" mapstructure:"username"`
	Password  string `yaml:"password" mapstructure:"password"`
	ExportDir string `yaml:"export_dir" mapstructure:"export_dir"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
}

// ApplyDefaults sets sensible default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.ExportDir == "" {
		c.ExportDir = DefaultExportDir
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
}

// Validate checks the configuration. Connection settings are only required
// when the integration is enabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.URL == "" {
		return fmt.Errorf("nextcloud.url is required when enabled")
	}
	if c.Username == "" {
		return fmt.Errorf("nextcloud.username is required when enabled")
	}
	if c.Password == "" {
		return fmt.Errorf("nextcloud.password is required when enabled")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("nextcloud.timeout must be non-negative (got: %d)", c.Timeout)
	}
	return nil
}
