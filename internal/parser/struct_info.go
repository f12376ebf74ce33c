package parser

import (
	"go/token"
	"go/types"
	"strings"

	"github.com/seitarof/gen-builder/internal/resolver"
)

// TypeInfo describes one marked struct and its ordered builder fields.
type TypeInfo struct {
	Name    string
	PkgName string
	PkgPath string
	// ModulePath is the path of the module holding the package, if any.
	ModulePath string
	// Dir is the directory holding the package sources.
	Dir    string
	Type   types.Type
	Fields []FieldInfo
	// Ambiguous lists promoted names left out because two embeds at the
	// same depth provide them.
	Ambiguous []Ambiguity
}

// FieldInfo is one settable field, declared or promoted.
type FieldInfo struct {
	Name string
	// Embeds lists the embedded structs the field is promoted through,
	// outermost first. Empty for fields declared on the type itself.
	Embeds []Embed
	Type   types.Type
	Ref    resolver.TypeRef
}

// Ambiguity is a promoted field name reachable through several paths.
type Ambiguity struct {
	Name  string
	Paths []string
}

// Embed is one embedded struct on a promotion path.
type Embed struct {
	Name string
	Type types.Type
}

// AccessPath returns the selector path, e.g. "Base.ID".
func (f FieldInfo) AccessPath() string {
	parts := make([]string, 0, len(f.Embeds)+1)
	for _, e := range f.Embeds {
		parts = append(parts, e.Name)
	}
	return strings.Join(append(parts, f.Name), ".")
}

// MarkedDecl is a declaration carrying the builder marker.
type MarkedDecl struct {
	Name     string
	Position token.Position
	// ClassLike is true for struct type declarations that can get a builder.
	ClassLike bool
	// Reason explains why a declaration is not class-like.
	Reason string
	Object types.Object
}
