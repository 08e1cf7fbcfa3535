// Package generator provides template-based code generation.
package generator

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"structscan/internal/config"
	"structscan/internal/model"
)

//go:embed templates/*.tmpl
var builtinFS embed.FS

// ErrNoTemplate is returned by Generate before a template is loaded.
var ErrNoTemplate = errors.New("no template loaded")

// Generator executes templates against parsed records.
type Generator struct {
	config   *config.Config
	template *template.Template
}

// New creates a new Generator.
func New(cfg *config.Config) *Generator {
	return &Generator{
		config: cfg,
	}
}

// LoadTemplate loads a template from file.
func (g *Generator) LoadTemplate(path string) error {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(templateFuncs(g.config)).
		ParseFiles(path)
	if err != nil {
		return fmt.Errorf("loading template: %w", err)
	}
	g.template = tmpl
	return nil
}

// LoadBuiltin loads one of the templates shipped with the binary.
func (g *Generator) LoadBuiltin(name string) error {
	file := name + ".tmpl"
	tmpl, err := template.New(file).
		Funcs(templateFuncs(g.config)).
		ParseFS(builtinFS, "templates/"+file)
	if err != nil {
		return fmt.Errorf("loading builtin template %q (have %s): %w",
			name, strings.Join(Builtins(), ", "), err)
	}
	g.template = tmpl
	return nil
}

// Builtins lists the names accepted by LoadBuiltin.
func Builtins() []string {
	entries, err := builtinFS.ReadDir("templates")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	sort.Strings(names)
	return names
}

// TemplateData represents data passed to templates.
type TemplateData struct {
	Registry     *model.Registry   // The full parse result
	Records      []*model.Record   // Records to generate (filtered)
	Record       *model.Record     // Current record (for per-type mode)
	Config       *config.Config    // Configuration
	TypeMappings map[string]string // Type mappings for convenience
}

// Generate generates output for all included records.
func (g *Generator) Generate(reg *model.Registry, w io.Writer) error {
	if g.template == nil {
		return ErrNoTemplate
	}

	records := g.filterRecords(reg)

	if g.config.Options.PerType {
		// Execute template once per record
		for _, rec := range records {
			data := &TemplateData{
				Registry:     reg,
				Records:      records,
				Record:       rec,
				Config:       g.config,
				TypeMappings: g.config.TypeMappings,
			}
			if err := g.template.Execute(w, data); err != nil {
				return fmt.Errorf("executing template for %s: %w", rec.Name, err)
			}
		}
	} else {
		// Execute template once for all records
		data := &TemplateData{
			Registry:     reg,
			Records:      records,
			Config:       g.config,
			TypeMappings: g.config.TypeMappings,
		}
		if err := g.template.Execute(w, data); err != nil {
			return fmt.Errorf("executing template: %w", err)
		}
	}

	return nil
}

// filterRecords filters records based on configuration.
func (g *Generator) filterRecords(reg *model.Registry) []*model.Record {
	var result []*model.Record

	for _, rec := range reg.Records() {
		if g.config.ShouldIncludeType(rec.Name, rec.IsNested()) {
			result = append(result, rec)
		}
	}

	return result
}

// nestedRecords returns the records declared directly inside parent.
func nestedRecords(reg *model.Registry, parent string) []*model.Record {
	var result []*model.Record
	for _, rec := range reg.Records() {
		if rec.Parent == parent {
			result = append(result, rec)
		}
	}
	return result
}
