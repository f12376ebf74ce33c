package parser

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/seitarof/gen-builder/internal/matcher"
	"github.com/seitarof/gen-builder/internal/resolver"
)

// LoadMode is the go/packages mode needed for marker scanning and
// introspection.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule

// Parser finds marked declarations and extracts their builder fields.
type Parser interface {
	Load(ctx context.Context, patterns ...string) ([]*packages.Package, error)
	Scan(pkg *packages.Package) []MarkedDecl
	Introspect(pkg *packages.Package, decl MarkedDecl) (*TypeInfo, error)
	Parse(ctx context.Context, pkgPath string, typeName string) (*TypeInfo, error)
}

type parserImpl struct {
	resolver resolver.Resolver
	marker   matcher.MarkerMatcher
}

// New returns default parser.
func New(r resolver.Resolver, m matcher.MarkerMatcher) Parser {
	return &parserImpl{resolver: r, marker: m}
}

func (p *parserImpl) Load(ctx context.Context, patterns ...string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages %q: %w", patterns, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("packages %q have compilation errors", patterns)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("packages %q not found", patterns)
	}
	return pkgs, nil
}

// Parse loads pkgPath and introspects typeName, marked or not.
func (p *parserImpl) Parse(ctx context.Context, pkgPath string, typeName string) (*TypeInfo, error) {
	pkgs, err := p.Load(ctx, pkgPath)
	if err != nil {
		return nil, err
	}
	return p.Introspect(pkgs[0], MarkedDecl{Name: typeName, ClassLike: true})
}

// Scan returns marked declarations ordered by file name, then offset.
func (p *parserImpl) Scan(pkg *packages.Package) []MarkedDecl {
	var marked []MarkedDecl
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			marked = append(marked, p.scanDecl(pkg, decl)...)
		}
	}

	sort.SliceStable(marked, func(i, j int) bool {
		a, b := marked[i].Position, marked[j].Position
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Offset < b.Offset
	})
	return marked
}

func (p *parserImpl) scanDecl(pkg *packages.Package, decl ast.Decl) []MarkedDecl {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		if !p.marker.Match(d.Doc) {
			return nil
		}
		return []MarkedDecl{invalidDecl(pkg, d.Name.Name, d.Name.Pos(), "functions cannot have builders")}
	case *ast.GenDecl:
		if d.Tok == token.TYPE {
			return p.scanTypeDecl(pkg, d)
		}
		if !p.marker.Match(d.Doc) {
			return nil
		}
		name, pos := d.Tok.String(), d.Pos()
		if len(d.Specs) > 0 {
			if vs, ok := d.Specs[0].(*ast.ValueSpec); ok && len(vs.Names) > 0 {
				name, pos = vs.Names[0].Name, vs.Names[0].Pos()
			}
		}
		return []MarkedDecl{invalidDecl(pkg, name, pos, fmt.Sprintf("%s declarations cannot have builders", d.Tok))}
	}
	return nil
}

func (p *parserImpl) scanTypeDecl(pkg *packages.Package, d *ast.GenDecl) []MarkedDecl {
	var out []MarkedDecl
	grouped := d.Lparen.IsValid()
	if grouped && p.marker.Match(d.Doc) {
		out = append(out, invalidDecl(pkg, "type", d.Pos(), "marker must be placed on a single type, not on a type group"))
	}

	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		if grouped && !p.marker.Match(ts.Doc) {
			continue
		}
		if !grouped && !p.marker.Match(d.Doc, ts.Doc) {
			continue
		}
		out = append(out, classify(pkg, ts))
	}
	return out
}

func classify(pkg *packages.Package, ts *ast.TypeSpec) MarkedDecl {
	decl := MarkedDecl{
		Name:     ts.Name.Name,
		Position: pkg.Fset.Position(ts.Name.Pos()),
	}
	if pkg.TypesInfo != nil {
		decl.Object = pkg.TypesInfo.Defs[ts.Name]
	}

	switch {
	case ts.TypeParams != nil && ts.TypeParams.NumFields() > 0:
		decl.Reason = "generic types cannot have builders"
	case decl.Object == nil:
		// Left to Introspect, which reports the resolution failure.
		decl.ClassLike = true
	default:
		if _, ok := extractStructType(decl.Object.Type()); ok {
			decl.ClassLike = true
		} else {
			decl.Reason = fmt.Sprintf("underlying type is %s, not a struct", kindName(decl.Object.Type()))
		}
	}
	return decl
}

func invalidDecl(pkg *packages.Package, name string, pos token.Pos, reason string) MarkedDecl {
	return MarkedDecl{
		Name:     name,
		Position: pkg.Fset.Position(pos),
		Reason:   reason,
	}
}

// Introspect extracts the builder fields of a class-like declaration.
func (p *parserImpl) Introspect(pkg *packages.Package, decl MarkedDecl) (*TypeInfo, error) {
	if pkg.Types == nil || pkg.Types.Scope() == nil {
		return nil, fmt.Errorf("type info unavailable for package %q", pkg.PkgPath)
	}

	obj := pkg.Types.Scope().Lookup(decl.Name)
	if obj == nil {
		return nil, fmt.Errorf("type %q not found in package %q", decl.Name, pkg.PkgPath)
	}
	if _, ok := obj.(*types.TypeName); !ok {
		return nil, fmt.Errorf("%q in package %q is not a type", decl.Name, pkg.PkgPath)
	}

	st, ok := extractStructType(obj.Type())
	if !ok {
		return nil, fmt.Errorf("%q in package %q is not a struct type", decl.Name, pkg.PkgPath)
	}

	dir := ""
	if len(pkg.GoFiles) > 0 {
		dir = filepath.Dir(pkg.GoFiles[0])
	}

	modulePath := ""
	if pkg.Module != nil {
		modulePath = pkg.Module.Path
	}

	fields, ambiguous := flattenFields(st, p.resolver)
	return &TypeInfo{
		Name:       decl.Name,
		PkgName:    pkg.Name,
		PkgPath:    pkg.Types.Path(),
		ModulePath: modulePath,
		Dir:        dir,
		Type:       obj.Type(),
		Fields:     fields,
		Ambiguous:  ambiguous,
	}, nil
}

func extractStructType(t types.Type) (*types.Struct, bool) {
	switch v := t.(type) {
	case *types.Alias:
		return extractStructType(v.Rhs())
	case *types.Named:
		return extractStructType(v.Underlying())
	case *types.Struct:
		return v, true
	default:
		return nil, false
	}
}

func kindName(t types.Type) string {
	switch u := types.Unalias(t).Underlying().(type) {
	case *types.Basic:
		return u.Name()
	case *types.Interface:
		return "an interface"
	case *types.Signature:
		return "a func"
	case *types.Pointer:
		return "a pointer"
	case *types.Slice:
		return "a slice"
	case *types.Array:
		return "an array"
	case *types.Map:
		return "a map"
	case *types.Chan:
		return "a chan"
	default:
		return types.TypeString(u, nil)
	}
}
