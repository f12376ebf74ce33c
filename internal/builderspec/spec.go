package builderspec

// BuildkitPath is the import path of the runtime used by generated builders.
const BuildkitPath = "github.com/seitarof/gen-builder/buildkit"

// Spec is the blueprint of one generated builder file.
type Spec struct {
	// BuilderName is the generated type, e.g. "CarBuilder".
	BuilderName string
	// Constructor is the generated constructor, e.g. "NewCarBuilder".
	Constructor string
	// TypeName spells the target type from the generated package.
	TypeName string
	// Source is the fully qualified target, e.g. "example.com/app/car.Car".
	Source string
	// Namespace is the slash-separated output subdirectory, derived from
	// the target's package path.
	Namespace string
	// Package is the package clause of the generated file.
	Package string
	// Local is true when the builder lives in the target's own package.
	Local bool

	Imports    []Import
	Properties []Property
	Setters    []Setter
	Build      BuildMethod
}

// Import is one import line of the generated file.
type Import struct {
	Name string
	Path string
}

// Property is a private presence-tracking slot, one per field.
type Property struct {
	Name string
	// Type is the element type T of buildkit.Field[T].
	Type string
}

// Setter is the fluent method assigning one property.
type Setter struct {
	Name     string
	Param    string
	Property string
	Type     string
	// Field is the selector path of the field on the target, e.g. "Base.ID".
	Field    string
	Nullable bool
}

// BuildMethod requires every property in field order and returns the
// target as a composite literal.
type BuildMethod struct {
	Checks  []Check
	Literal Literal
}

// Check unwraps one property into a local variable.
type Check struct {
	Var      string
	Property string
	Field    string
}

// Literal is a keyed composite literal. Embedded structs become nested
// literals so promoted fields keep their declaration order.
type Literal struct {
	Type    string
	Entries []Entry
}

// Entry is either Key: Value or Key: Nested.
type Entry struct {
	Key    string
	Value  string
	Nested *Literal
}
