package template

import (
	"io"
)

// TemplateRenderer is the contract the render bridge relies on. An engine is
// rooted at one template directory; every file in it is addressable by its
// base name.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	Templates() []string
}

// Factory builds a TemplateRenderer rooted at dir. Failures are load failures:
// the directory could not be read or one of its files did not parse.
type Factory func(dir string) (TemplateRenderer, error)
