package cli

import (
	"github.com/spf13/pflag"
)

// ParseArgs parses command line arguments into Config. Flags override the
// environment, which overrides the defaults.
func ParseArgs(args []string) (*Config, error) {
	var (
		output      string
		directive   string
		logLevel    string
		showVersion bool
	)

	fs := pflag.NewFlagSet("gen-builder", pflag.ContinueOnError)
	fs.StringVarP(&output, "output", "o", "", "output root for generated builders")
	fs.StringVar(&directive, "directive", "", "comment directive marking builder targets")
	fs.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVarP(&showVersion, "version", "v", false, "show version")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if showVersion {
		return &Config{ShowVersion: true}, nil
	}

	overrides := map[string]any{}
	if fs.Changed("output") {
		overrides["output"] = output
	}
	if fs.Changed("directive") {
		overrides["directive"] = directive
	}
	if fs.Changed("log-level") {
		overrides["log_level"] = logLevel
	}
	if fs.NArg() > 0 {
		overrides["patterns"] = fs.Args()
	}

	cfg, err := loadConfig(overrides)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
