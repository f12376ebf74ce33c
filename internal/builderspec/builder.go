package builderspec

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/seitarof/gen-builder/internal/parser"
)

var (
	// ErrNameCollision is returned when a field would shadow a generated
	// method.
	ErrNameCollision = errors.New("field name collides with a generated method")
	// ErrInaccessible is returned when a builder outside the target's
	// package cannot refer to a type it needs.
	ErrInaccessible = errors.New("type is not accessible from the builder package")
)

// Builder assembles builder specs from introspected types.
type Builder interface {
	// Build returns the spec for info. local selects emission into the
	// target's own package.
	Build(info *parser.TypeInfo, local bool) (*Spec, error)
}

type builderImpl struct{}

// New returns the default spec builder.
func New() Builder {
	return &builderImpl{}
}

func (b *builderImpl) Build(info *parser.TypeInfo, local bool) (*Spec, error) {
	if info == nil {
		return nil, errors.New("nil type info")
	}
	for _, f := range info.Fields {
		if f.Name == buildMethod {
			return nil, fmt.Errorf("%s.%s: %w", info.Name, f.AccessPath(), ErrNameCollision)
		}
	}
	if !local {
		if err := checkAccessible(info); err != nil {
			return nil, err
		}
	}

	builderName := BuilderName(info.Name)
	spec := &Spec{
		BuilderName: builderName,
		Constructor: "New" + builderName,
		Source:      info.PkgPath + "." + info.Name,
		Namespace:   Namespace(info),
		Package:     strings.ToLower(info.PkgName),
		Local:       local,
	}
	localPath := ""
	if local {
		spec.Package = info.PkgName
		localPath = info.PkgPath
	}

	// Qualify every type before naming identifiers so that import names
	// are final.
	imports := newImportSet(localPath)
	imports.add(BuildkitPath, "buildkit")
	q := imports.qualifier()

	spec.TypeName = types.TypeString(info.Type, q)
	fieldTypes := make([]string, len(info.Fields))
	for i, f := range info.Fields {
		fieldTypes[i] = types.TypeString(f.Ref.Type, q)
	}
	embedTypes := map[string]string{}
	for _, f := range info.Fields {
		for i, e := range f.Embeds {
			embedTypes[embedKey(f.Embeds[:i+1])] = types.TypeString(e.Type, q)
		}
	}
	spec.Imports = imports.list()

	idents := newIdentSet(append(imports.names(), "b", "err")...)
	idents.reserveExpr(spec.TypeName)
	for _, t := range embedTypes {
		idents.reserveExpr(t)
	}

	vars := make([]string, len(info.Fields))
	for i, f := range info.Fields {
		ident := idents.allocate(lowerCamel(f.Name))
		vars[i] = ident

		spec.Properties = append(spec.Properties, Property{Name: ident, Type: fieldTypes[i]})
		spec.Setters = append(spec.Setters, Setter{
			Name:     f.Name,
			Param:    ident,
			Property: ident,
			Type:     fieldTypes[i],
			Field:    info.Name + "." + f.AccessPath(),
			Nullable: f.Ref.Nullable,
		})
		spec.Build.Checks = append(spec.Build.Checks, Check{Var: ident, Property: ident, Field: f.Name})
	}
	spec.Build.Literal = buildLiteral(spec.TypeName, info.Fields, vars, embedTypes)
	return spec, nil
}

func buildLiteral(typeName string, fields []parser.FieldInfo, vars []string, embedTypes map[string]string) Literal {
	root := Literal{Type: typeName}
	for i, f := range fields {
		lit := &root
		for j, e := range f.Embeds {
			lit = lit.child(e.Name, embedTypes[embedKey(f.Embeds[:j+1])])
		}
		lit.Entries = append(lit.Entries, Entry{Key: f.Name, Value: vars[i]})
	}
	return root
}

func embedKey(path []parser.Embed) string {
	names := make([]string, 0, len(path))
	for _, e := range path {
		names = append(names, e.Name)
	}
	return strings.Join(names, ".")
}

func (l *Literal) child(key, typ string) *Literal {
	for i := range l.Entries {
		if l.Entries[i].Key == key && l.Entries[i].Nested != nil {
			return l.Entries[i].Nested
		}
	}
	nested := &Literal{Type: typ}
	l.Entries = append(l.Entries, Entry{Key: key, Nested: nested})
	return nested
}

func checkAccessible(info *parser.TypeInfo) error {
	if !token.IsExported(info.Name) {
		return fmt.Errorf("%s is unexported: %w", info.Name, ErrInaccessible)
	}
	for _, f := range info.Fields {
		if name, ok := unexportedType(f.Ref.Type); ok {
			return fmt.Errorf("%s.%s uses unexported type %s: %w", info.Name, f.AccessPath(), name, ErrInaccessible)
		}
		for _, e := range f.Embeds {
			if name, ok := unexportedType(e.Type); ok {
				return fmt.Errorf("%s.%s embeds unexported type %s: %w", info.Name, e.Name, name, ErrInaccessible)
			}
		}
	}
	return nil
}

// unexportedType reports the first named type in t that cannot be spelled
// outside its own package.
func unexportedType(t types.Type) (string, bool) {
	switch v := t.(type) {
	case *types.Alias:
		if obj := v.Obj(); obj.Pkg() != nil && !obj.Exported() {
			return obj.Name(), true
		}
		return unexportedTypeList(v.TypeArgs())
	case *types.Named:
		if obj := v.Obj(); obj.Pkg() != nil && !obj.Exported() {
			return obj.Name(), true
		}
		return unexportedTypeList(v.TypeArgs())
	case *types.Pointer:
		return unexportedType(v.Elem())
	case *types.Slice:
		return unexportedType(v.Elem())
	case *types.Array:
		return unexportedType(v.Elem())
	case *types.Chan:
		return unexportedType(v.Elem())
	case *types.Map:
		if name, ok := unexportedType(v.Key()); ok {
			return name, true
		}
		return unexportedType(v.Elem())
	case *types.Signature:
		if name, ok := unexportedTuple(v.Params()); ok {
			return name, true
		}
		return unexportedTuple(v.Results())
	case *types.Struct:
		for i := 0; i < v.NumFields(); i++ {
			if name, ok := unexportedType(v.Field(i).Type()); ok {
				return name, true
			}
		}
	}
	return "", false
}

func unexportedTypeList(list *types.TypeList) (string, bool) {
	for i := 0; i < list.Len(); i++ {
		if name, ok := unexportedType(list.At(i)); ok {
			return name, true
		}
	}
	return "", false
}

func unexportedTuple(tuple *types.Tuple) (string, bool) {
	for i := 0; i < tuple.Len(); i++ {
		if name, ok := unexportedType(tuple.At(i).Type()); ok {
			return name, true
		}
	}
	return "", false
}
