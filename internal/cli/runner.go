package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/afero"

	"github.com/seitarof/gen-builder/internal/builderspec"
	"github.com/seitarof/gen-builder/internal/diag"
	"github.com/seitarof/gen-builder/internal/driver"
	"github.com/seitarof/gen-builder/internal/generator"
	"github.com/seitarof/gen-builder/internal/matcher"
	"github.com/seitarof/gen-builder/internal/parser"
	"github.com/seitarof/gen-builder/internal/resolver"
)

// ErrBuildersFailed is returned when at least one marked declaration could
// not get a builder.
var ErrBuildersFailed = errors.New("builder generation failed")

// Summary describes a finished run.
type Summary struct {
	Rounds    int
	Generated []string
	Errors    int
}

// Runner loads packages and drives one round per package.
type Runner interface {
	Run(ctx context.Context, cfg *Config) (*Summary, error)
}

type runnerImpl struct {
	parser parser.Parser
	driver driver.Driver
}

// NewRunner creates a runner from its layers.
func NewRunner(p parser.Parser, d driver.Driver) Runner {
	return &runnerImpl{parser: p, driver: d}
}

// NewDefaultRunner wires the default layers for cfg. Generated files are
// written through fs and diagnostics are logged to logOut. An unusable
// output root fails here, before any package is loaded.
func NewDefaultRunner(cfg *Config, fs afero.Fs, logOut io.Writer) (Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g, err := generator.New(cfg.Output, generator.NewGoimportsFormatter(), generator.NewFileWriter(fs))
	if err != nil {
		return nil, err
	}
	p := parser.New(resolver.New(), matcher.NewMarkerMatcher(cfg.Directive))
	d := driver.New(p, builderspec.New(), g, diag.NewLogSink(logOut, cfg.LogLevel))
	return NewRunner(p, d), nil
}

// Run processes every package matched by cfg.Patterns. The last package is
// the final round. Element errors do not stop the run; they are counted and
// reported through ErrBuildersFailed at the end.
func (r *runnerImpl) Run(ctx context.Context, cfg *Config) (*Summary, error) {
	pkgs, err := r.parser.Load(ctx, cfg.Patterns...)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	summary := &Summary{}
	for i, pkg := range pkgs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		res, err := r.driver.Round(driver.Round{Package: pkg, Final: i == len(pkgs)-1})
		summary.Rounds++
		if err != nil {
			return summary, fmt.Errorf("round %s: %w", pkg.PkgPath, err)
		}
		summary.Generated = append(summary.Generated, res.Generated...)
		summary.Errors += res.ErrorCount()
	}

	if summary.Errors > 0 {
		return summary, fmt.Errorf("%w: %d error(s)", ErrBuildersFailed, summary.Errors)
	}
	return summary, nil
}
