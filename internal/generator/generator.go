package generator

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/spf13/afero"
	"golang.org/x/tools/imports"

	"github.com/seitarof/gen-builder/internal/builderspec"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// ErrOutputRoot is returned when the output root is missing or unusable.
// It is fatal for the whole run.
var ErrOutputRoot = errors.New("output root unavailable")

// Generator renders builder specs and writes one file per spec.
type Generator interface {
	// OutputDir returns the directory that receives builders of namespace.
	OutputDir(namespace string) string
	// Path returns the file Generate writes for spec.
	Path(spec *builderspec.Spec) string
	// Render returns the formatted source of spec.
	Render(spec *builderspec.Spec) ([]byte, error)
	// Generate renders spec, writes it and returns the written path.
	Generate(spec *builderspec.Spec) (string, error)
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code to disk.
type FileWriter interface {
	// EnsureRoot creates root if needed and checks that it is a directory.
	EnsureRoot(root string) error
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	root      string
	formatter Formatter
	writer    FileWriter
	tmpl      *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct {
	fs afero.Fs
}

// New creates a code generator writing below root. The root is checked
// here so that a bad configuration fails before any file is generated.
func New(root string, f Formatter, w FileWriter) (Generator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: not configured", ErrOutputRoot)
	}
	if err := w.EnsureRoot(root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOutputRoot, root, err)
	}

	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"importLine":    importLine,
		"renderLiteral": renderLiteral,
	}).ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{root: root, formatter: f, writer: w, tmpl: tmpl}, nil
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a writer on fs. Files are replaced atomically.
func NewFileWriter(fs afero.Fs) FileWriter {
	return &fileWriter{fs: fs}
}

func (g *generatorImpl) OutputDir(namespace string) string {
	return filepath.Join(g.root, filepath.FromSlash(namespace))
}

func (g *generatorImpl) Render(spec *builderspec.Spec) ([]byte, error) {
	if spec == nil {
		return nil, errors.New("nil builder spec")
	}

	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "builder.go.tmpl", spec); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}

	formatted, err := g.formatter.Format(g.Path(spec), buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	return formatted, nil
}

func (g *generatorImpl) Generate(spec *builderspec.Spec) (string, error) {
	src, err := g.Render(spec)
	if err != nil {
		return "", err
	}

	if err := g.writer.EnsureRoot(g.root); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOutputRoot, g.root, err)
	}
	filename := g.Path(spec)
	if err := g.writer.Write(filename, src); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	return filename, nil
}

func (g *generatorImpl) Path(spec *builderspec.Spec) string {
	return filepath.Join(g.OutputDir(spec.Namespace), FileName(spec.BuilderName))
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) EnsureRoot(root string) error {
	if err := w.fs.MkdirAll(root, 0o755); err != nil {
		return err
	}
	info, err := w.fs.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}
	return nil
}

// Write replaces filename through a temporary file in the same directory,
// so readers never observe a partial file.
func (w *fileWriter) Write(filename string, data []byte) error {
	dir := filepath.Dir(filename)
	if err := w.fs.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(w.fs, dir, "."+filepath.Base(filename)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = w.fs.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName)
		return err
	}
	if err := w.fs.Chmod(tmpName, os.FileMode(0o644)); err != nil {
		_ = w.fs.Remove(tmpName)
		return err
	}
	if err := w.fs.Rename(tmpName, filename); err != nil {
		_ = w.fs.Remove(tmpName)
		return err
	}
	return nil
}

// FileName returns the snake_case file name for a builder, e.g.
// "CarBuilder" -> "car_builder_gen.go".
func FileName(builderName string) string {
	runes := []rune(builderName)
	var b strings.Builder
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			b.WriteRune(r)
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String() + "_gen.go"
}

func importLine(imp builderspec.Import) string {
	if imp.Name == path.Base(imp.Path) {
		return fmt.Sprintf("%q", imp.Path)
	}
	return fmt.Sprintf("%s %q", imp.Name, imp.Path)
}

func renderLiteral(lit builderspec.Literal) string {
	var b strings.Builder
	writeLiteral(&b, lit, 1)
	return b.String()
}

func writeLiteral(b *strings.Builder, lit builderspec.Literal, depth int) {
	if len(lit.Entries) == 0 {
		b.WriteString(lit.Type + "{}")
		return
	}
	indent := strings.Repeat("\t", depth+1)
	b.WriteString(lit.Type + "{\n")
	for _, e := range lit.Entries {
		b.WriteString(indent + e.Key + ": ")
		if e.Nested != nil {
			writeLiteral(b, *e.Nested, depth+1)
		} else {
			b.WriteString(e.Value)
		}
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat("\t", depth) + "}")
}
