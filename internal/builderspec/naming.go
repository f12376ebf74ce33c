package builderspec

import (
	"go/token"
	"go/types"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/seitarof/gen-builder/internal/parser"
)

const (
	builderSuffix = "Builder"
	buildMethod   = "Build"
)

// BuilderName returns typeName with the builder suffix and its first rune
// upper-cased.
func BuilderName(typeName string) string {
	r, size := utf8.DecodeRuneInString(typeName)
	if size == 0 {
		return builderSuffix
	}
	return string(unicode.ToUpper(r)) + typeName[size:] + builderSuffix
}

// Namespace returns the slash-separated output subdirectory of a type: its
// package path relative to the module root, lower-cased. Packages outside
// any module use their full import path.
func Namespace(info *parser.TypeInfo) string {
	ns := info.PkgPath
	if info.ModulePath != "" {
		if ns == info.ModulePath {
			return ""
		}
		ns = strings.TrimPrefix(ns, info.ModulePath+"/")
	}
	return strings.ToLower(ns)
}

// lowerCamel turns an exported field name into a local identifier:
// "Name" -> "name", "ID" -> "id", "URLPath" -> "urlPath".
func lowerCamel(name string) string {
	runes := []rune(name)
	upper := 0
	for upper < len(runes) && unicode.IsUpper(runes[upper]) {
		upper++
	}
	switch {
	case upper == 0:
		return name
	case upper == 1 || upper == len(runes):
		// single leading capital, or an all-caps name
	default:
		// the last capital starts the next word
		upper--
	}
	for i := 0; i < upper; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// identSet hands out identifiers that are unique and shadow nothing the
// generated Build method refers to.
type identSet struct {
	used map[string]bool
}

func newIdentSet(reserved ...string) *identSet {
	s := &identSet{used: map[string]bool{}}
	for _, r := range reserved {
		s.used[r] = true
	}
	return s
}

// reserveExpr reserves every identifier in a type expression.
func (s *identSet) reserveExpr(expr string) {
	words := strings.FieldsFunc(expr, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	for _, w := range words {
		s.used[w] = true
	}
}

func (s *identSet) allocate(base string) string {
	if base == "" || base == "_" {
		base = "field"
	}
	candidate := base
	if s.blocked(candidate) {
		candidate = base + "Value"
	}
	for i := 2; s.blocked(candidate); i++ {
		candidate = base + "Value" + strconv.Itoa(i)
	}
	s.used[candidate] = true
	return candidate
}

func (s *identSet) blocked(name string) bool {
	return s.used[name] || token.IsKeyword(name) || types.Universe.Lookup(name) != nil
}
