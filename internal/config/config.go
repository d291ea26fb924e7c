// Package config provides configuration loading and validation for the CLI.
//
// Values are layered: defaults, then an optional JSON or YAML file, then
// environment variables (usually populated from .env), then command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	EnvAPIKeyPrimary   = "GEMINI_API_KEY_1"
	EnvAPIKeySecondary = "GEMINI_API_KEY_2"
	EnvAPIKey          = "GEMINI_API_KEY"
	EnvModel           = "GEMINI_MODEL"
	EnvOutputDir       = "ROADMAP_OUTPUT_DIR"
	EnvRequestTimeout  = "REQUEST_TIMEOUT"
)

// DefaultModel is the Gemini model used when nothing else is configured
const DefaultModel = "gemini-2.5-flash"

// Config represents the CLI configuration.
// All fields are optional in the file; defaults fill the gaps.
type Config struct {
	APIKeys        []string `json:"api_keys,omitempty" yaml:"api_keys,omitempty"`
	Model          string   `json:"model,omitempty" yaml:"model,omitempty" validate:"required"`
	OutputDir      string   `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`
	RequestTimeout int      `json:"request_timeout,omitempty" yaml:"request_timeout,omitempty" validate:"gte=0,lte=600"` // seconds, 0 = client default
	WritePlanJSON  bool     `json:"write_plan_json,omitempty" yaml:"write_plan_json,omitempty"`
	Verbose        bool     `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Overrides holds command-line flag values. Zero values leave the config untouched.
type Overrides struct {
	APIKey        string
	Model         string
	OutputDir     string
	WritePlanJSON bool
	Verbose       bool
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Model:     DefaultModel,
		OutputDir: ".",
	}
}

// Resolve builds the effective configuration from defaults, an optional file,
// the environment and flag overrides, and validates the result.
func Resolve(path string, overrides Overrides) (*Config, error) {
	cfg := Default()

	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(*cfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(overrides)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) *Config {
	result := *c
	result.APIKeys = append([]string(nil), c.APIKeys...)

	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.RequestTimeout == 0 {
		result.RequestTimeout = defaults.RequestTimeout
	}
	if len(result.APIKeys) == 0 {
		result.APIKeys = append(result.APIKeys, defaults.APIKeys...)
	}

	// Bools cannot distinguish unset from false, so the file value wins
	return &result
}

// applyEnvOverrides layers environment variables on top of file values.
// Keys from the environment take precedence over keys from the file.
func (c *Config) applyEnvOverrides() error {
	var envKeys []string
	for _, name := range []string{EnvAPIKeyPrimary, EnvAPIKeySecondary, EnvAPIKey} {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			envKeys = append(envKeys, v)
		}
	}
	if len(envKeys) > 0 {
		c.APIKeys = append(envKeys, c.APIKeys...)
	}

	if v := strings.TrimSpace(os.Getenv(EnvModel)); v != "" {
		c.Model = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputDir)); v != "" {
		c.OutputDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRequestTimeout)); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be a whole number of seconds, got %q", EnvRequestTimeout, v)
		}
		c.RequestTimeout = secs
	}
	return nil
}

// ApplyOverrides applies command-line flag values; non-zero flags always win.
func (c *Config) ApplyOverrides(o Overrides) {
	if key := strings.TrimSpace(o.APIKey); key != "" {
		c.APIKeys = append([]string{key}, c.APIKeys...)
	}
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.WritePlanJSON {
		c.WritePlanJSON = true
	}
	if o.Verbose {
		c.Verbose = true
	}
}

// Credentials returns the configured API keys in precedence order,
// with blanks and duplicates removed.
func (c *Config) Credentials() []string {
	seen := make(map[string]bool, len(c.APIKeys))
	keys := make([]string, 0, len(c.APIKeys))
	for _, k := range c.APIKeys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys
}

// HasCredentials reports whether at least one API key is configured
func (c *Config) HasCredentials() bool {
	return len(c.Credentials()) > 0
}

// Timeout returns the request timeout, or 0 when none is configured
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("'%s' is required", fe.Field()))
		case "gte":
			msgs = append(msgs, fmt.Sprintf("'%s' must be at least %s", fe.Field(), fe.Param()))
		case "lte":
			msgs = append(msgs, fmt.Sprintf("'%s' must be at most %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("'%s' failed %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}
