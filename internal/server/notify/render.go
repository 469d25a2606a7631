package notify

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.html
var embedded embed.FS

// Renderer executes the HTML templates. Output is autoescaped.
type Renderer struct {
	set *pongo2.TemplateSet
}

// NewRenderer loads templates from fsys, or from the embedded set when fsys
// is nil.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	if fsys == nil {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, err
		}
		fsys = sub
	}
	return &Renderer{set: pongo2.NewSet("notify", pongo2.NewFSLoader(fsys))}, nil
}

// Render executes the named template with params.
func (r *Renderer) Render(name string, params map[string]any) (string, error) {
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return "", fmt.Errorf("template %s: %w", name, err)
	}
	out, err := tpl.Execute(pongo2.Context(params))
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}
