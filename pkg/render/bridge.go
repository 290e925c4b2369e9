// Package render bridges the \render directive to a template engine. A path
// is split into its directory and file name; the whole directory becomes the
// engine's template root and the file is rendered against the store bindings.
package render

import (
	"errors"
	"path/filepath"

	"github.com/goliatone/go-literal/pkg/render/template"
)

// Bridge renders template files through engines built by a Factory.
type Bridge struct {
	factory template.Factory
}

// NewBridge returns a Bridge using factory to load template directories.
func NewBridge(factory template.Factory) *Bridge {
	return &Bridge{factory: factory}
}

// Render loads the directory holding path and renders its file component with
// bindings. The engine output is returned unmodified.
func (b *Bridge) Render(path string, bindings map[string]any) (string, error) {
	dir, name := Split(path)

	if b == nil || b.factory == nil {
		return "", &TemplateLoadError{Dir: dir, Err: errors.New("render: no template factory configured")}
	}

	engine, err := b.factory(dir)
	if err != nil {
		return "", &TemplateLoadError{Dir: dir, Err: err}
	}

	rendered, err := engine.RenderTemplate(name, bindings)
	if err != nil {
		return "", &TemplateRenderError{Name: name, Err: err}
	}
	return rendered, nil
}

// Split separates a template path into its directory and file name. A bare
// file name resolves against ".".
func Split(path string) (dir, name string) {
	dir, name = filepath.Split(filepath.Clean(path))
	if dir == "" {
		return ".", name
	}
	return filepath.Clean(dir), name
}
