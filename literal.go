// Package literal preprocesses line-oriented text. Lines starting with a
// backslash are directives that define, update and check typed variables or
// render pongo2 templates against them; all other lines pass through with a
// trailing newline. See the interpreter package for the directive reference.
package literal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-literal/internal/loader"
	"github.com/goliatone/go-literal/pkg/directive"
	"github.com/goliatone/go-literal/pkg/interpreter"
	"github.com/goliatone/go-literal/pkg/render"
	"github.com/goliatone/go-literal/pkg/render/template"
	"github.com/goliatone/go-literal/pkg/render/template/gotemplate"
	"github.com/goliatone/go-literal/pkg/source"
	"github.com/goliatone/go-literal/pkg/store"
)

// Aliases so callers can match failures with errors.As without importing
// every subpackage.
type (
	UnknownDirectiveError   = directive.UnknownDirectiveError
	MalformedDirectiveError = directive.MalformedDirectiveError
	DuplicateVariableError  = store.DuplicateVariableError
	UndefinedVariableError  = store.UndefinedVariableError
	ParseError              = store.ParseError
	OverflowError           = store.OverflowError
	AssertionFailedError    = interpreter.AssertionFailedError
	IOError                 = interpreter.IOError
	LineError               = interpreter.LineError
	TemplateLoadError       = render.TemplateLoadError
	TemplateRenderError     = render.TemplateRenderError
)

// FilterFunc is a template filter registered through WithFilters.
type FilterFunc = gotemplate.FilterFunc

// Render loads src and runs one render pass over it.
func Render(ctx context.Context, src source.Source, options ...Option) (string, error) {
	cfg := newConfig(options...)

	l := loader.New(source.NewLoaderOptions(source.WithFileSystem(cfg.files)))
	rc, err := l.Open(ctx, src)
	if err != nil {
		return "", &interpreter.IOError{Err: err}
	}
	defer func() {
		_ = rc.Close()
	}()

	return run(rc, cfg)
}

// RenderFile renders the document at path on the local filesystem.
func RenderFile(ctx context.Context, path string, options ...Option) (string, error) {
	return Render(ctx, source.FromFile(path), options...)
}

// RenderString renders an in-memory document.
func RenderString(input string, options ...Option) (string, error) {
	return RenderReader(strings.NewReader(input), options...)
}

// RenderReader renders everything read from r.
func RenderReader(r io.Reader, options ...Option) (string, error) {
	return run(r, newConfig(options...))
}

func run(r io.Reader, cfg *config) (string, error) {
	vars, err := seedStore(cfg)
	if err != nil {
		return "", err
	}

	opts := []interpreter.Option{
		interpreter.WithStore(vars),
		interpreter.WithRenderer(render.NewBridge(cfg.templateFactory())),
	}
	if cfg.logger != nil {
		opts = append(opts, interpreter.WithLogger(cfg.logger))
	}

	return interpreter.New(opts...).Run(r)
}

func seedStore(cfg *config) (*store.Store, error) {
	vars := store.New()

	for _, path := range cfg.variablesFiles {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &interpreter.IOError{Err: fmt.Errorf("literal: read variables file: %w", err)}
		}
		values, err := store.ParseSeed(data, path)
		if err != nil {
			return nil, err
		}
		if err := vars.Seed(values); err != nil {
			return nil, err
		}
	}

	if err := vars.Seed(cfg.variables); err != nil {
		return nil, err
	}

	for _, pair := range cfg.pairs {
		if err := vars.Init(pair[0], pair[1]); err != nil {
			return nil, err
		}
	}

	return vars, nil
}

// ParseVariable splits a "name=value" assignment. The value may contain
// further "=" characters and spaces.
func ParseVariable(raw string) (name, value string, err error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("literal: variable %q must be in name=value form", raw)
	}
	return name, value, nil
}

func (c *config) templateFactory() template.Factory {
	if c.factory != nil {
		return c.factory
	}
	var opts []gotemplate.Option
	if len(c.filters) > 0 {
		opts = append(opts, gotemplate.WithFilters(c.filters))
	}
	if c.files != nil {
		return gotemplate.NewFSFactory(c.files, opts...)
	}
	return gotemplate.NewFactory(opts...)
}
