package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variable overrides, e.g. CLASSMETA_OUTPUT_FORMAT.
const EnvPrefix = "CLASSMETA"

// Dir is the project-local configuration directory.
const Dir = ".classmeta"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	configFile string
}

// NewLoader creates a new configuration loader for the given root directory.
// The config file is optional and searched for in <rootDir>/.classmeta.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// NewFileLoader creates a loader for an explicit config file, which must exist.
func NewFileLoader(configFile string) Loader {
	return &loader{
		configFile: configFile,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CLASSMETA_*)
// 2. Config file (.classmeta/config.yml or .classmeta/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(l.rootDir, Dir))
	}

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., CLASSMETA_OUTPUT_FORMAT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Unmarshal only sees env values for keys viper knows about.
	for _, key := range []string{
		"paths.include",
		"paths.ignore",
		"filter.patterns",
		"output.destination",
		"output.format",
		"output.indent",
		"analysis.workers",
		"analysis.strict",
		"analysis.cache_size",
		"watch.debounce_ms",
	} {
		_ = v.BindEnv(key)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case l.configFile == "" && errors.As(err, &notFound):
			// Config file not found is acceptable - we'll use defaults + env vars
		case l.configFile != "" && errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("config file %s not found: %w", l.configFile, err)
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("paths.include", defaults.Paths.Include)
	v.SetDefault("paths.ignore", defaults.Paths.Ignore)

	v.SetDefault("filter.patterns", defaults.Filter.Patterns)

	v.SetDefault("output.destination", defaults.Output.Destination)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.indent", defaults.Output.Indent)

	v.SetDefault("analysis.workers", defaults.Analysis.Workers)
	v.SetDefault("analysis.strict", defaults.Analysis.Strict)
	v.SetDefault("analysis.cache_size", defaults.Analysis.CacheSize)

	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
