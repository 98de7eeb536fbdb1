package config

import "slices"

// Config represents the complete classmeta configuration.
// It can be loaded from .classmeta/config.yml with environment variable overrides.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Filter   FilterConfig   `yaml:"filter" mapstructure:"filter"`
	Output   OutputConfig   `yaml:"output" mapstructure:"output"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Watch    WatchConfig    `yaml:"watch" mapstructure:"watch"`
}

// PathsConfig defines which files to analyze and which to ignore when a
// directory is given.
type PathsConfig struct {
	Include []string `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore  []string `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to ignore
}

// FilterConfig restricts which types are recorded.
type FilterConfig struct {
	Patterns []string `yaml:"patterns" mapstructure:"patterns"` // substrings of qualified names; empty records everything
}

// OutputConfig controls the rendered document.
type OutputConfig struct {
	Destination string `yaml:"destination" mapstructure:"destination"` // file path, or "-" for stdout
	Format      string `yaml:"format" mapstructure:"format"`           // "json" or "yaml"
	Indent      int    `yaml:"indent" mapstructure:"indent"`           // spaces per nesting level
}

// AnalysisConfig controls source parsing.
type AnalysisConfig struct {
	Workers   int  `yaml:"workers" mapstructure:"workers"`       // files parsed at once; 0 means GOMAXPROCS
	Strict    bool `yaml:"strict" mapstructure:"strict"`         // fail on syntax errors
	CacheSize int  `yaml:"cache_size" mapstructure:"cache_size"` // parsed files kept between watch runs
}

// WatchConfig controls watch mode.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before regenerating
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Include: []string{
				"**/*.c",
				"**/*.h",
				"**/*.hh",
				"**/*.hpp",
				"**/*.hxx",
				"**/*.cc",
				"**/*.cpp",
				"**/*.cxx",
				"**/*.go",
				"**/*.java",
				"**/*.php",
				"**/*.py",
				"**/*.rs",
				"**/*.ts",
				"**/*.tsx",
			},
			Ignore: []string{
				"node_modules/**",
				"vendor/**",
				".git/**",
				"dist/**",
				"build/**",
				"target/**",
				"__pycache__/**",
				"**/*_test.go",
				"**/*.d.ts",
			},
		},
		Filter: FilterConfig{
			Patterns: []string{},
		},
		Output: OutputConfig{
			Destination: "-",
			Format:      "json",
			Indent:      4,
		},
		Analysis: AnalysisConfig{
			Workers:   0,
			Strict:    true,
			CacheSize: 4096,
		},
		Watch: WatchConfig{
			DebounceMS: 500,
		},
	}
}

// SourceExtensions extracts unique file extensions from the include patterns,
// sorted. Returns extensions with leading dot (e.g., []string{".c", ".go"}).
func (c *Config) SourceExtensions() []string {
	extensions := []string{}
	for _, pattern := range c.Paths.Include {
		if ext := extractExtension(pattern); ext != "" && !slices.Contains(extensions, ext) {
			extensions = append(extensions, ext)
		}
	}
	slices.Sort(extensions)
	return extensions
}

// extractExtension extracts the file extension from a glob pattern.
// Returns empty string if pattern doesn't match a simple extension pattern.
// Examples: "**/*.go" -> ".go", "*.ts" -> ".ts", "**/*.tsx" -> ".tsx"
func extractExtension(pattern string) string {
	for i := len(pattern) - 1; i >= 1; i-- {
		if pattern[i] == '.' && pattern[i-1] == '*' {
			return pattern[i:]
		}
	}
	return ""
}
