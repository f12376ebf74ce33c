package resolver

import (
	"go/types"
	"strings"
	"sync"

	"golang.org/x/tools/go/packages"
)

// TypeRef is a field type in the spelling emitted into generated code.
type TypeRef struct {
	// Type is the canonical type. It is the declared type unless a
	// standard library alias was replaced by its target.
	Type types.Type
	// Name is the fully qualified spelling, e.g. "[]example.com/m.Engine".
	Name string
	// Nullable is true when nil is a valid value of Type.
	Nullable bool
}

// Resolver maps declared field types to canonical references.
type Resolver interface {
	Resolve(t types.Type) TypeRef
}

type resolverImpl struct{}

// New returns the default resolver.
func New() Resolver {
	return &resolverImpl{}
}

// Resolve never fails: types without a standard library equivalent keep
// their declared spelling.
func (r *resolverImpl) Resolve(t types.Type) TypeRef {
	canonical := canonicalize(t)
	return TypeRef{
		Type:     canonical,
		Name:     types.TypeString(canonical, nil),
		Nullable: isNilable(canonical),
	}
}

func canonicalize(t types.Type) types.Type {
	switch v := t.(type) {
	case *types.Alias:
		if !isStdObject(v.Obj()) {
			return v
		}
		return canonicalize(v.Rhs())
	case *types.Pointer:
		if elem := canonicalize(v.Elem()); elem != v.Elem() {
			return types.NewPointer(elem)
		}
	case *types.Slice:
		if elem := canonicalize(v.Elem()); elem != v.Elem() {
			return types.NewSlice(elem)
		}
	case *types.Array:
		if elem := canonicalize(v.Elem()); elem != v.Elem() {
			return types.NewArray(elem, v.Len())
		}
	case *types.Map:
		key, elem := canonicalize(v.Key()), canonicalize(v.Elem())
		if key != v.Key() || elem != v.Elem() {
			return types.NewMap(key, elem)
		}
	case *types.Chan:
		if elem := canonicalize(v.Elem()); elem != v.Elem() {
			return types.NewChan(v.Dir(), elem)
		}
	}
	return t
}

func isNilable(t types.Type) bool {
	switch u := t.Underlying().(type) {
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return true
	case *types.Basic:
		return u.Kind() == types.UnsafePointer
	default:
		return false
	}
}

func isStdObject(obj *types.TypeName) bool {
	if obj == nil || obj.Pkg() == nil {
		return false
	}
	return IsStdPackage(obj.Pkg().Path())
}

var (
	stdOnce sync.Once
	stdSet  map[string]bool
)

// stdPackages lists the standard library once per process. It returns nil
// when the go command cannot list it.
func stdPackages() map[string]bool {
	stdOnce.Do(func() {
		pkgs, err := packages.Load(&packages.Config{Mode: packages.NeedName}, "std")
		if err != nil || len(pkgs) == 0 {
			return
		}
		set := make(map[string]bool, len(pkgs))
		for _, p := range pkgs {
			set[p.PkgPath] = true
		}
		stdSet = set
	})
	return stdSet
}

// IsStdPackage reports whether pkgPath names a standard library package.
// Paths with a dot in their first element never do. Dotless paths are
// looked up in the standard library listing, so a module named "myapp"
// is not mistaken for it; without a listing they count as standard.
func IsStdPackage(pkgPath string) bool {
	if pkgPath == "" || pkgPath == "main" {
		return false
	}
	first, _, _ := strings.Cut(pkgPath, "/")
	if strings.Contains(first, ".") {
		return false
	}
	if std := stdPackages(); std != nil {
		return std[pkgPath]
	}
	return true
}
