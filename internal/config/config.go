package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the lexiscreen configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Auth      AuthConfig      `yaml:"auth"`
	Artifacts ArtifactsConfig `yaml:"artifacts"`
	Model     ModelConfig     `yaml:"model"`
	Screening ScreeningConfig `yaml:"screening"`
	Export    ExportConfig    `yaml:"export"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// Artifact sources.
const (
	SourceFile   = "file"
	SourceValkey = "valkey"
	SourceRedis  = "redis"
)

// ArtifactsConfig says where the feature schema, defaults and model are loaded from.
type ArtifactsConfig struct {
	Source           string   `yaml:"source"` // file, valkey, redis (default: file)
	Dir              string   `yaml:"dir"`
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// UsesRegistry reports whether artifacts come from a Valkey/Redis registry.
func (a ArtifactsConfig) UsesRegistry() bool {
	return a.Source == SourceValkey || a.Source == SourceRedis
}

// ModelConfig holds classifier settings.
type ModelConfig struct {
	PositiveLabel *int `yaml:"positive_label"` // class label meaning "dyslexia" (default: 1)
}

// ScreeningConfig holds pipeline settings.
type ScreeningConfig struct {
	AgeMin          float64 `yaml:"age_min"`
	AgeMax          float64 `yaml:"age_max"`
	EnforceAgeRange bool    `yaml:"enforce_age_range"`
	DefaultTopK     int     `yaml:"default_top_k"`
	MaxTopK         int     `yaml:"max_top_k"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	WrapWidth int    `yaml:"wrap_width"`
	Title     string `yaml:"title"`
	Compress  bool   `yaml:"compress"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Artifacts.Source == "" {
		c.Artifacts.Source = SourceFile
	}
	if c.Artifacts.Source == SourceFile && c.Artifacts.Dir == "" {
		c.Artifacts.Dir = "artifacts"
	}
	if c.Artifacts.KeyPrefix == "" {
		c.Artifacts.KeyPrefix = "lexiscreen:"
	}
	if c.Artifacts.ReadinessTimeout <= 0 {
		c.Artifacts.ReadinessTimeout = 10
	}
	if c.Model.PositiveLabel == nil {
		label := 1
		c.Model.PositiveLabel = &label
	}
	if c.Screening.AgeMin == 0 && c.Screening.AgeMax == 0 {
		c.Screening.AgeMin = 5
		c.Screening.AgeMax = 18
	}
	if c.Screening.DefaultTopK <= 0 {
		c.Screening.DefaultTopK = 5
	}
	if c.Screening.MaxTopK <= 0 {
		c.Screening.MaxTopK = 50
	}
	if c.Export.WrapWidth <= 0 {
		c.Export.WrapWidth = 90
	}
	if c.Export.Title == "" {
		c.Export.Title = "Dyslexia Screening Report"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Artifacts.Source {
	case SourceFile:
		if c.Artifacts.Dir == "" {
			return fmt.Errorf("artifacts.dir is required for source %q", SourceFile)
		}
	case SourceValkey, SourceRedis:
		if len(c.Artifacts.Addrs) == 0 {
			return fmt.Errorf("artifacts.addrs is required for source %q", c.Artifacts.Source)
		}
	default:
		return fmt.Errorf("artifacts.source must be \"file\", \"valkey\" or \"redis\", got %q", c.Artifacts.Source)
	}
	if c.Screening.AgeMin >= c.Screening.AgeMax {
		return fmt.Errorf("screening.age_min (%v) must be below age_max (%v)", c.Screening.AgeMin, c.Screening.AgeMax)
	}
	if c.Screening.DefaultTopK > c.Screening.MaxTopK {
		return fmt.Errorf("screening.default_top_k (%d) exceeds max_top_k (%d)",
			c.Screening.DefaultTopK, c.Screening.MaxTopK)
	}
	if c.Export.WrapWidth < 20 {
		return fmt.Errorf("export.wrap_width must be at least 20, got %d", c.Export.WrapWidth)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
