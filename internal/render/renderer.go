// Package render turns invoices and contracts into printable documents. The
// core only decides when to render and what data to pass; the template and
// output format live here.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
)

// DocumentRenderer renders a named template with the given data.
type DocumentRenderer interface {
	Render(templateKey string, data any) ([]byte, error)
}

// TemplateRenderer renders HTML documents from a template directory. Each
// template key maps to <dir>/<key>.html.
type TemplateRenderer struct {
	templateDir string
}

func NewTemplateRenderer(templateDir string) *TemplateRenderer {
	return &TemplateRenderer{templateDir: templateDir}
}

func (r *TemplateRenderer) Render(templateKey string, data any) ([]byte, error) {
	path := filepath.Join(r.templateDir, templateKey+".html")
	tmpl, err := template.ParseFiles(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %q: %w", templateKey, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render template %q: %w", templateKey, err)
	}
	return buf.Bytes(), nil
}
