package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonify/internal/errors"
)

// DefaultMarker is the literal that opens every event in the source logs.
const DefaultMarker = `{"ts":`

// DefaultSegmentDelimiter splits lines that were double-quoted upstream.
const DefaultSegmentDelimiter = `""`

// Policy decides what happens to an event whose repair pass fails
type Policy string

const (
	// PolicySkip drops the event, records a defect and keeps going.
	PolicySkip Policy = "skip"
	// PolicyAbort fails the whole run on the first unrepairable event.
	PolicyAbort Policy = "abort"
	// PolicyPassthrough keeps the unrepaired text and records a defect.
	PolicyPassthrough Policy = "passthrough"
)

var policyAliases = map[string]Policy{
	"skip":              PolicySkip,
	"skip-and-continue": PolicySkip,
	"continue":          PolicySkip,
	"abort":             PolicyAbort,
	"fail":              PolicyAbort,
	"fail-fast":         PolicyAbort,
	"passthrough":       PolicyPassthrough,
	"pass-through":      PolicyPassthrough,
	"keep":              PolicyPassthrough,
}

// ParsePolicy accepts a policy name in any casing or separator style
// ("SkipAndContinue", "skip_and_continue", "FAIL-FAST").
func ParsePolicy(s string) (Policy, error) {
	key := strcase.ToKebab(strings.TrimSpace(s))
	if p, ok := policyAliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown error policy %q: %w", s, errors.ErrInvalidConfig)
}

// UnmarshalYAML normalizes the policy name while decoding.
func (p *Policy) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParsePolicy(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = parsed
	return nil
}

// Config represents the complete configuration for jsonify
type Config struct {
	Marker           string         `yaml:"marker"`
	SegmentDelimiter string         `yaml:"segment_delimiter"`
	Substitutions    []Substitution `yaml:"substitutions"`
	Repair           RepairConfig   `yaml:"repair"`
	Progress         ProgressConfig `yaml:"progress"`
	Dev              DevConfig      `yaml:"dev"`
}

// Substitution replaces every occurrence of From with To inside an extracted event
type Substitution struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RepairConfig controls the best-effort JSON repair pass
type RepairConfig struct {
	Enabled bool   `yaml:"enabled"`
	OnError Policy `yaml:"on_error"`
}

// ProgressConfig controls the progress bar
type ProgressConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Marker:           DefaultMarker,
		SegmentDelimiter: DefaultSegmentDelimiter,
		Substitutions: []Substitution{
			// two-dot leader left behind by a bad re-encoding of ':'
			{From: "‥", To: ":"},
		},
		Repair: RepairConfig{
			Enabled: true,
			OnError: PolicySkip,
		},
		Progress: ProgressConfig{
			Enabled: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to read config file '%s'", path), err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError(fmt.Sprintf("failed to parse config file '%s'", path), err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration can drive an extraction run
func (c *Config) Validate() error {
	if c.Marker == "" {
		return errors.NewConfigError("marker must not be empty", errors.ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Marker, "{") {
		return errors.NewConfigError(fmt.Sprintf("marker %q must start with '{'", c.Marker), errors.ErrInvalidConfig)
	}
	for i, sub := range c.Substitutions {
		if sub.From == "" {
			return errors.NewConfigError(fmt.Sprintf("substitution %d has an empty 'from'", i), errors.ErrInvalidConfig)
		}
	}
	if _, err := ParsePolicy(string(c.Repair.OnError)); err != nil {
		return errors.NewConfigError("invalid repair.on_error", err)
	}
	return nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonify.yml", ".jsonify.yaml", "jsonify.yml", "jsonify.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Overrides carries the command-line flags that take precedence over the config file.
// Zero values leave the file setting alone.
type Overrides struct {
	NoRepair bool
	OnError  string
	Quiet    bool
	Debug    bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.NoRepair {
		cfg.Repair.Enabled = false
	}
	if o.OnError != "" {
		policy, err := ParsePolicy(o.OnError)
		if err != nil {
			return nil, errors.NewConfigError("invalid --on-error value", err)
		}
		cfg.Repair.OnError = policy
	}
	if o.Quiet {
		cfg.Progress.Enabled = false
	}
	if o.Debug {
		cfg.Dev.Debug = true
	}

	return cfg, nil
}
