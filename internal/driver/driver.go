package driver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-builder/internal/builderspec"
	"github.com/seitarof/gen-builder/internal/diag"
	"github.com/seitarof/gen-builder/internal/generator"
	"github.com/seitarof/gen-builder/internal/parser"
)

// ErrDuplicateBuilder is returned when two marked types of one package map
// to the same builder file.
var ErrDuplicateBuilder = errors.New("builder already generated in this round")

// State is the phase of a round.
type State int

const (
	StateIdle State = iota
	StateScanning
	StateDispatching
	StateRoundComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateDispatching:
		return "dispatching"
	case StateRoundComplete:
		return "round-complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Round is one package to process. Final marks the last round of a run.
type Round struct {
	Package *packages.Package
	Final   bool
}

// Result is the outcome of one round.
type Result struct {
	Generated   []string
	Diagnostics []diag.Diagnostic
	// Claimed reports that the marked declarations were handled. A round
	// that returns without a fatal error always claims them.
	Claimed bool
	State   State
}

// ErrorCount returns the number of error diagnostics.
func (r *Result) ErrorCount() int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == diag.SeverityError {
			n++
		}
	}
	return n
}

// Driver runs the builder pipeline over the marked declarations of a round.
type Driver interface {
	Round(round Round) (*Result, error)
}

type driverImpl struct {
	parser    parser.Parser
	specs     builderspec.Builder
	generator generator.Generator
	sink      diag.Sink
}

// New creates a driver reporting diagnostics to sink.
func New(p parser.Parser, b builderspec.Builder, g generator.Generator, sink diag.Sink) Driver {
	if sink == nil {
		sink = diag.Discard
	}
	return &driverImpl{parser: p, specs: b, generator: g, sink: sink}
}

// Round processes every marked declaration of round.Package. A failure on
// one declaration becomes an error diagnostic on it and the round goes on;
// only an unusable output root stops the round.
func (d *driverImpl) Round(round Round) (*Result, error) {
	res := &Result{State: StateIdle}
	report := func(dg diag.Diagnostic) {
		res.Diagnostics = append(res.Diagnostics, dg)
		d.sink.Report(dg)
	}

	if round.Final {
		report(note("this round will not be followed by another round"))
	}
	if round.Package == nil {
		res.State, res.Claimed = StateRoundComplete, true
		return res, nil
	}

	res.State = StateScanning
	marked := d.parser.Scan(round.Package)
	if len(marked) == 0 {
		report(note(fmt.Sprintf("no marked declarations in %s", round.Package.PkgPath)))
		res.State, res.Claimed = StateRoundComplete, true
		return res, nil
	}

	res.State = StateDispatching
	seen := map[string]string{}
	for _, decl := range marked {
		if !decl.ClassLike {
			report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     diag.KindInvalidPlacement,
				Position: decl.Position,
				Element:  decl.Name,
				Message:  fmt.Sprintf("builder marker is invalid on %s: %s; place it on a struct type declaration", decl.Name, decl.Reason),
			})
			continue
		}

		path, err := d.generate(round.Package, decl, seen, report)
		if errors.Is(err, generator.ErrOutputRoot) {
			return res, err
		}
		if err != nil {
			kind := diag.KindGeneration
			if errors.Is(err, ErrDuplicateBuilder) {
				kind = diag.KindDuplicate
			}
			report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     kind,
				Position: decl.Position,
				Element:  decl.Name,
				Message:  fmt.Sprintf("cannot generate builder for %s: %v", decl.Name, err),
			})
			continue
		}
		res.Generated = append(res.Generated, path)
	}

	res.State, res.Claimed = StateRoundComplete, true
	return res, nil
}

func (d *driverImpl) generate(
	pkg *packages.Package,
	decl parser.MarkedDecl,
	seen map[string]string,
	report func(diag.Diagnostic),
) (string, error) {
	info, err := d.parser.Introspect(pkg, decl)
	if err != nil {
		return "", fmt.Errorf("introspect: %w", err)
	}
	for _, a := range info.Ambiguous {
		report(diag.Diagnostic{
			Severity: diag.SeverityWarning,
			Kind:     diag.KindAmbiguousField,
			Position: decl.Position,
			Element:  decl.Name,
			Message: fmt.Sprintf("%s.%s is ambiguous (%s) and gets no setter",
				decl.Name, a.Name, strings.Join(a.Paths, ", ")),
		})
	}

	local := samePath(d.generator.OutputDir(builderspec.Namespace(info)), info.Dir)
	spec, err := d.specs.Build(info, local)
	if err != nil {
		return "", err
	}

	path := d.generator.Path(spec)
	if prev, ok := seen[path]; ok {
		return "", fmt.Errorf("%s is also produced by %s: %w", spec.BuilderName, prev, ErrDuplicateBuilder)
	}
	seen[path] = decl.Name

	report(diag.Diagnostic{
		Severity: diag.SeverityNote,
		Kind:     diag.KindNote,
		Position: decl.Position,
		Element:  decl.Name,
		Message:  fmt.Sprintf("writing %s.%s", spec.Package, spec.BuilderName),
	})
	return d.generator.Generate(spec)
}

func note(msg string) diag.Diagnostic {
	return diag.Diagnostic{Severity: diag.SeverityNote, Kind: diag.KindNote, Message: msg}
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
