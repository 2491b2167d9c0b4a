package templates

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
)

// DescriptionTemplate is the template name every description template must define.
const DescriptionTemplate = "description"

//go:embed description.gohtml
var builtinFS embed.FS

// Description renders work item descriptions. Output is HTML; all data is escaped by html/template.
type Description struct {
	tmpl *template.Template
}

// NewDescription parses the description template at path, or the built-in
// template when path is empty.
func NewDescription(path string) (*Description, error) {
	tmpl := template.New("").Funcs(TemplateFuncMap())

	var err error
	if strings.TrimSpace(path) == "" {
		tmpl, err = tmpl.ParseFS(builtinFS, "description.gohtml")
	} else {
		var raw []byte
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read template: %w", err)
		}
		tmpl, err = tmpl.New(filepath.Base(path)).Parse(string(raw))
	}
	if err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	if tmpl.Lookup(DescriptionTemplate) == nil {
		return nil, fmt.Errorf("template %q must define %q", path, DescriptionTemplate)
	}
	return &Description{tmpl: tmpl}, nil
}

// Render executes the description template with data.
func (d *Description) Render(data any) (string, error) {
	var buf bytes.Buffer
	if err := d.tmpl.ExecuteTemplate(&buf, DescriptionTemplate, data); err != nil {
		return "", fmt.Errorf("render description: %w", err)
	}
	return buf.String(), nil
}
