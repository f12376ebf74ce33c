package generator

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seitarof/gen-builder/internal/builderspec"
)

const testRoot = "/out"

func newTestGenerator(t *testing.T, fs afero.Fs) Generator {
	t.Helper()
	g, err := New(testRoot, NewGoimportsFormatter(), NewFileWriter(fs))
	require.NoError(t, err)
	return g
}

func carSpec() *builderspec.Spec {
	return &builderspec.Spec{
		BuilderName: "CarBuilder",
		Constructor: "NewCarBuilder",
		TypeName:    "Car",
		Source:      "example.com/app/car.Car",
		Namespace:   "car",
		Package:     "car",
		Local:       true,
		Imports:     []builderspec.Import{{Name: "buildkit", Path: builderspec.BuildkitPath}},
		Properties: []builderspec.Property{
			{Name: "name", Type: "string"},
			{Name: "brand", Type: "string"},
			{Name: "engine", Type: "*Engine"},
		},
		Setters: []builderspec.Setter{
			{Name: "Name", Param: "name", Property: "name", Type: "string", Field: "Car.Name"},
			{Name: "Brand", Param: "brand", Property: "brand", Type: "string", Field: "Car.Brand"},
			{Name: "Engine", Param: "engine", Property: "engine", Type: "*Engine", Field: "Car.Engine", Nullable: true},
		},
		Build: builderspec.BuildMethod{
			Checks: []builderspec.Check{
				{Var: "name", Property: "name", Field: "Name"},
				{Var: "brand", Property: "brand", Field: "Brand"},
				{Var: "engine", Property: "engine", Field: "Engine"},
			},
			Literal: builderspec.Literal{
				Type: "Car",
				Entries: []builderspec.Entry{
					{Key: "Name", Value: "name"},
					{Key: "Brand", Value: "brand"},
					{Key: "Engine", Value: "engine"},
				},
			},
		},
	}
}

func TestGenerate_WritesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(t, fs)

	path, err := g.Generate(carSpec())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(testRoot, "car", "car_builder_gen.go"), path)

	b, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	got := squash(string(b))

	checks := []string{
		"// Code generated by gen-builder. DO NOT EDIT.",
		"package car",
		`import "github.com/seitarof/gen-builder/buildkit"`,
		"type CarBuilder struct { name buildkit.Field[string] brand buildkit.Field[string] engine buildkit.Field[*Engine] }",
		"func NewCarBuilder() *CarBuilder { return &CarBuilder{} }",
		"// Name sets Car.Name. func (b *CarBuilder) Name(name string) *CarBuilder { b.name.Set(name) return b }",
		"// Engine sets Car.Engine. A nil value counts as set.",
		"func (b *CarBuilder) Build() (Car, error) {",
		`name, err := b.name.Require("CarBuilder", "Name") if err != nil { return Car{}, err }`,
		`engine, err := b.engine.Require("CarBuilder", "Engine")`,
		"return Car{ Name: name, Brand: brand, Engine: engine, }, nil }",
	}
	for _, check := range checks {
		assert.Contains(t, got, check)
	}
}

func TestGenerate_SetterOrderFollowsSpec(t *testing.T) {
	g := newTestGenerator(t, afero.NewMemMapFs())

	b, err := g.Render(carSpec())
	require.NoError(t, err)
	got := string(b)

	name := strings.Index(got, ") Name(")
	brand := strings.Index(got, ") Brand(")
	engine := strings.Index(got, ") Engine(")
	require.True(t, name > 0 && brand > 0 && engine > 0)
	assert.True(t, name < brand && brand < engine, "setters out of order:\n%s", got)
}

func TestGenerate_IsIdempotentAndAtomic(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(t, fs)

	path, err := g.Generate(carSpec())
	require.NoError(t, err)
	first, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	_, err = g.Generate(carSpec())
	require.NoError(t, err)
	second, err := afero.ReadFile(fs, path)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	entries, err := afero.ReadDir(fs, filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files must not be left behind")
	assert.Equal(t, "car_builder_gen.go", entries[0].Name())
}

func TestGenerate_OverwritesExistingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(t, fs)
	target := filepath.Join(testRoot, "car", "car_builder_gen.go")
	require.NoError(t, afero.WriteFile(fs, target, []byte("stale"), 0o644))

	_, err := g.Generate(carSpec())
	require.NoError(t, err)

	b, err := afero.ReadFile(fs, target)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "stale")
	assert.Contains(t, string(b), "type CarBuilder struct")
}

func TestRender_ExternalPackageWithNestedLiteral(t *testing.T) {
	g := newTestGenerator(t, afero.NewMemMapFs())
	spec := &builderspec.Spec{
		BuilderName: "AccountBuilder",
		Constructor: "NewAccountBuilder",
		TypeName:    "model.Account",
		Source:      "example.com/app/model.Account",
		Namespace:   "model",
		Package:     "model",
		Imports: []builderspec.Import{
			{Name: "model", Path: "example.com/app/model"},
			{Name: "buildkit", Path: builderspec.BuildkitPath},
			{Name: "model2", Path: "example.com/other/model"},
		},
		Properties: []builderspec.Property{
			{Name: "id", Type: "int"},
			{Name: "owner", Type: "model2.User"},
		},
		Setters: []builderspec.Setter{
			{Name: "ID", Param: "id", Property: "id", Type: "int", Field: "Account.Base.ID"},
			{Name: "Owner", Param: "owner", Property: "owner", Type: "model2.User", Field: "Account.Owner"},
		},
		Build: builderspec.BuildMethod{
			Checks: []builderspec.Check{
				{Var: "id", Property: "id", Field: "ID"},
				{Var: "owner", Property: "owner", Field: "Owner"},
			},
			Literal: builderspec.Literal{
				Type: "model.Account",
				Entries: []builderspec.Entry{
					{Key: "Base", Nested: &builderspec.Literal{
						Type:    "model.Base",
						Entries: []builderspec.Entry{{Key: "ID", Value: "id"}},
					}},
					{Key: "Owner", Value: "owner"},
				},
			},
		},
	}

	b, err := g.Render(spec)
	require.NoError(t, err)
	got := squash(string(b))

	assert.Contains(t, got, `model2 "example.com/other/model"`)
	assert.Contains(t, got, `"example.com/app/model"`)
	assert.Contains(t, got, "return model.Account{}, err")
	assert.Contains(t, got, "return model.Account{ Base: model.Base{ ID: id, }, Owner: owner, }, nil")
	assert.Contains(t, got, "// ID sets Account.Base.ID.")
}

func TestRender_TypeWithoutFields(t *testing.T) {
	g := newTestGenerator(t, afero.NewMemMapFs())
	spec := &builderspec.Spec{
		BuilderName: "EmptyBuilder",
		Constructor: "NewEmptyBuilder",
		TypeName:    "Empty",
		Source:      "example.com/app/empty.Empty",
		Namespace:   "empty",
		Package:     "empty",
		Local:       true,
		Imports:     []builderspec.Import{{Name: "buildkit", Path: builderspec.BuildkitPath}},
		Build:       builderspec.BuildMethod{Literal: builderspec.Literal{Type: "Empty"}},
	}

	b, err := g.Render(spec)
	require.NoError(t, err)
	got := squash(string(b))

	assert.Contains(t, got, "return Empty{}, nil")
	assert.NotContains(t, got, `"github.com/seitarof/gen-builder/buildkit"`, "unused import should be dropped")
}

func TestNew_RequiresOutputRoot(t *testing.T) {
	_, err := New("", NewGoimportsFormatter(), NewFileWriter(afero.NewMemMapFs()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputRoot))
}

func TestNew_RootIsAFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testRoot, []byte("x"), 0o644))

	_, err := New(testRoot, NewGoimportsFormatter(), NewFileWriter(fs))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputRoot))
}

func TestGenerate_RootBecomesUnavailable(t *testing.T) {
	fs := afero.NewMemMapFs()
	g := newTestGenerator(t, fs)

	require.NoError(t, fs.RemoveAll(testRoot))
	require.NoError(t, afero.WriteFile(fs, testRoot, []byte("x"), 0o644))

	_, err := g.Generate(carSpec())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutputRoot))
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"CarBuilder":        "car_builder_gen.go",
		"EngineBuilder":     "engine_builder_gen.go",
		"HTTPServerBuilder": "http_server_builder_gen.go",
		"V2Builder":         "v2_builder_gen.go",
	}
	for in, want := range tests {
		assert.Equal(t, want, FileName(in), in)
	}
}

var spaces = regexp.MustCompile(`\s+`)

func squash(s string) string {
	return spaces.ReplaceAllString(s, " ")
}
