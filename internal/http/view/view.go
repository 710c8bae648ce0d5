// Package view renders the server-side HTML pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	PageStorefront  = "storefront"
	PageProducts    = "products"
	PageProductEdit = "product_edit"
)

// Renderer holds the parsed page templates.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{PageStorefront, PageProducts, PageProductEdit} {
		tmpl, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render executes a page into w. The page is rendered to a buffer first so a
// template error never leaves a partial response.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("execute %s template: %w", page, err)
	}

	_, err := buf.WriteTo(w)
	return err
}
