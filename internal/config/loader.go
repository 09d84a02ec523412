package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderOption customizes Load.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.configFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(o *loaderOptions) { o.envFile = path }
}

// Load reads configuration into cfg. YAML provides the base, a .env file may
// add variables, and process environment variables win. Missing files are not
// errors; defaults and validation handle the rest.
func Load(cfg *Config, opts ...LoaderOption) error {
	var o loaderOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.configFile == "" {
		o.configFile = findFile(configSearchPaths())
	}
	if o.envFile == "" {
		o.envFile = findFile(envSearchPaths())
	}

	v := viper.New()

	if o.configFile != "" && exists(o.configFile) {
		v.SetConfigFile(o.configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", o.configFile, err)
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	if o.envFile != "" && exists(o.envFile) {
		if err := godotenv.Load(o.envFile); err != nil {
			fmt.Fprintf(os.Stderr, "[config] warning: failed to load .env file %s: %v\n", o.envFile, err)
		} else {
			bindEnvVars(v)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

func configSearchPaths() []string {
	return []string{
		fmt.Sprintf("./cmd/%s/config.yml", ServiceName),
		"./config/config.yml",
		"./config.yml",
	}
}

func envSearchPaths() []string {
	return []string{
		fmt.Sprintf(".env.%s", ServiceName),
		".env",
	}
}

func findFile(paths []string) string {
	for _, p := range paths {
		if exists(p) {
			return p
		}
	}
	return ""
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// bindEnvVars maps UPPER_CASE environment variables onto viper's nested keys,
// so SERVER_PORT reaches server.port and NEXTCLOUD_EXPORT_DIR reaches
// nextcloud.export_dir.
func bindEnvVars(v *viper.Viper) {
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || pair[1] == "" {
			continue
		}

		for _, variant := range envKeyVariants(pair[0]) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants generates nested key spellings for an env var name.
// SERVER_READ_TIMEOUT becomes [server_read_timeout, server.read_timeout,
// server.read.timeout].
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")
	if len(parts) == 1 {
		return []string{lower}
	}

	return []string{
		lower,
		strings.Join(parts, "."),
		parts[0] + "." + strings.Join(parts[1:], "_"),
	}
}
