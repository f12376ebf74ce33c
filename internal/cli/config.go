package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/seitarof/gen-builder/internal/matcher"
)

// EnvPrefix prefixes the environment variables read into Config.
const EnvPrefix = "GENBUILDER_"

var (
	// ErrMissingOutputRoot is returned when no output root was configured.
	ErrMissingOutputRoot = errors.New("output root is not configured (set --output or " + EnvPrefix + "OUTPUT)")
	// ErrInvalidDirective is returned for a marker directive that cannot
	// appear as a comment directive.
	ErrInvalidDirective = errors.New("invalid marker directive")
)

// Config stores options for a single generation run.
type Config struct {
	Patterns    []string `koanf:"patterns"`
	Output      string   `koanf:"output"`
	Directive   string   `koanf:"directive"`
	LogLevel    string   `koanf:"log_level"`
	ShowVersion bool     `koanf:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Patterns:  []string{"."},
		Directive: matcher.DefaultDirective,
		LogLevel:  "info",
	}
}

// envKeys maps environment variables, without EnvPrefix, to config keys.
var envKeys = map[string]string{
	"output":    "output",
	"directive": "directive",
	"log_level": "log_level",
}

// loadConfig layers defaults, environment and the explicitly set
// overrides, in increasing precedence.
func loadConfig(overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key string, value string) (string, any) {
			name := strings.TrimPrefix(strings.ToLower(key), strings.ToLower(EnvPrefix))
			mapped, ok := envKeys[name]
			if !ok || strings.TrimSpace(value) == "" {
				return "", nil
			}
			return mapped, value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	for key, value := range overrides {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("set %s: %w", key, err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration before any package is processed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return ErrMissingOutputRoot
	}
	if !strings.HasPrefix(c.Directive, "//") || strings.ContainsAny(c.Directive, " \t\n") || len(c.Directive) == 2 {
		return fmt.Errorf("%w: %q", ErrInvalidDirective, c.Directive)
	}
	if len(c.Patterns) == 0 {
		c.Patterns = DefaultConfig().Patterns
	}
	return nil
}
