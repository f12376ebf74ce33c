package matcher

import (
	"go/ast"
	"strings"
)

// DefaultDirective marks a type declaration for builder generation.
const DefaultDirective = "//genbuilder:builder"

// MarkerMatcher decides whether a doc comment carries the builder marker.
type MarkerMatcher interface {
	Match(docs ...*ast.CommentGroup) bool
	Directive() string
}

type markerMatcherImpl struct {
	directive string
}

// NewMarkerMatcher returns a matcher for directive. An empty directive
// selects DefaultDirective.
func NewMarkerMatcher(directive string) MarkerMatcher {
	directive = strings.TrimSpace(directive)
	if directive == "" {
		directive = DefaultDirective
	}
	return &markerMatcherImpl{directive: directive}
}

func (m *markerMatcherImpl) Directive() string {
	return m.directive
}

// Match reports whether any comment line in docs is the directive, alone or
// followed by a space and free text.
func (m *markerMatcherImpl) Match(docs ...*ast.CommentGroup) bool {
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, c := range doc.List {
			if matchLine(c.Text, m.directive) {
				return true
			}
		}
	}
	return false
}

func matchLine(text, directive string) bool {
	rest, ok := strings.CutPrefix(strings.TrimRight(text, " \t\r"), directive)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}
