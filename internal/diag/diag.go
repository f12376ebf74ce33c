// Package diag carries generator diagnostics: notes about progress and
// errors attached to the declaration that caused them.
package diag

import (
	"fmt"
	"go/token"
	"io"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityNote Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// Kind classifies what went wrong.
type Kind string

const (
	KindNote             Kind = "note"
	KindInvalidPlacement Kind = "invalid-placement"
	KindGeneration       Kind = "generation-failed"
	KindDuplicate        Kind = "duplicate-builder"
	KindAmbiguousField   Kind = "ambiguous-field"
)

// Diagnostic is one message, optionally attached to a declaration.
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Position token.Position
	Element  string
	Message  string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Position.IsValid() {
		b.WriteString(d.Position.String())
		b.WriteString(": ")
	}
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// Sink receives diagnostics as they are reported.
type Sink interface {
	Report(d Diagnostic)
}

type logSink struct {
	logger *charmlog.Logger
}

// NewLogSink returns a sink logging to w at level ("debug", "info",
// "warn", "error"). Unknown levels fall back to info.
func NewLogSink(w io.Writer, level string) Sink {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}
	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:  lvl,
		Prefix: "gen-builder",
	})
	return &logSink{logger: logger}
}

func (s *logSink) Report(d Diagnostic) {
	keyvals := make([]any, 0, 6)
	if d.Element != "" {
		keyvals = append(keyvals, "element", d.Element)
	}
	if d.Position.IsValid() {
		keyvals = append(keyvals, "pos", d.Position.String())
	}
	if d.Kind != "" && d.Kind != KindNote {
		keyvals = append(keyvals, "kind", string(d.Kind))
	}

	switch d.Severity {
	case SeverityError:
		s.logger.Error(d.Message, keyvals...)
	case SeverityWarning:
		s.logger.Warn(d.Message, keyvals...)
	default:
		s.logger.Info(d.Message, keyvals...)
	}
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(Diagnostic) {}

// Collector keeps reported diagnostics and forwards them to another sink.
type Collector struct {
	next  Sink
	diags []Diagnostic
}

// NewCollector returns a collector forwarding to next, which may be nil.
func NewCollector(next Sink) *Collector {
	return &Collector{next: next}
}

func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
	if c.next != nil {
		c.next.Report(d)
	}
}

// Diagnostics returns everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// Count returns the number of diagnostics of severity s.
func (c *Collector) Count(s Severity) int {
	n := 0
	for _, d := range c.diags {
		if d.Severity == s {
			n++
		}
	}
	return n
}
