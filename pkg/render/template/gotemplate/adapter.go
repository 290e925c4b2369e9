package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-literal/pkg/render/template"
)

// FilterFunc is the engine-neutral shape of a template filter.
type FilterFunc func(input any, param any) (any, error)

// Option configures the pongo2 adapter before construction.
type Option func(*config)

type config struct {
	baseDir   string
	templates fs.FS
	filters   map[string]FilterFunc
}

// ErrUndefinedVariable is returned when a template reads a name that is not
// bound when it renders.
var ErrUndefinedVariable = errors.New("gotemplate: variable not found in context")

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from the root of an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithFilters registers filters when the engine loads. pongo2 keeps filters
// process wide: a name registered through this package is replaced by the
// latest function for every engine, and a name pongo2 or another package
// already owns fails construction.
func WithFilters(filters map[string]FilterFunc) Option {
	return func(cfg *config) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]FilterFunc, len(filters))
		}
		for name, fn := range filters {
			cfg.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
// Every regular, non-hidden file at the root of the configured source is
// parsed when the engine is built, so a syntax error in any sibling fails
// construction and templates can include or extend each other.
//
// Rendering fails with ErrUndefinedVariable when a template reads a name
// that is neither bound nor defined by the template itself. Output is HTML
// escaped only for .html, .htm and .xml templates.
type Engine struct {
	mu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	names       map[string]templateNames
}

// Ensure Engine implements the TemplateRenderer interface.
var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine and loads every template in its source.
func New(options ...Option) (*Engine, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var (
		loaders []pongo2.TemplateLoader
		sources []fs.FS
	)
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
		sources = append(sources, os.DirFS(cfg.baseDir))
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
		sources = append(sources, cfg.templates)
	}

	engine := &Engine{
		templateSet: pongo2.NewSet("literal", loaders...),
		templates:   make(map[string]*pongo2.Template),
		names:       make(map[string]templateNames),
	}
	registerDefaultFilters()

	for name, fn := range cfg.filters {
		if err := engine.RegisterFilter(name, fn); err != nil {
			return nil, err
		}
	}

	entries, err := listTemplates(sources)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		tmpl, err := engine.templateSet.FromFile(entry.name)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: load template %q: %w", entry.name, err)
		}
		content, err := fs.ReadFile(entry.source, entry.name)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: read template %q: %w", entry.name, err)
		}
		engine.templates[entry.name] = tmpl
		engine.names[entry.name] = scanNames(string(content))
	}

	return engine, nil
}

// NewFactory returns a template.Factory that builds an on-disk Engine per
// directory with the supplied extra options.
func NewFactory(options ...Option) template.Factory {
	return func(dir string) (template.TemplateRenderer, error) {
		opts := append([]Option{WithBaseDir(dir)}, options...)
		return New(opts...)
	}
}

// NewFSFactory returns a template.Factory that resolves directories inside
// files.
func NewFSFactory(files fs.FS, options ...Option) template.Factory {
	return func(dir string) (template.TemplateRenderer, error) {
		if files == nil {
			return nil, errors.New("gotemplate: filesystem is not configured")
		}
		sub, err := fs.Sub(files, dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: open template dir %q: %w", dir, err)
		}
		opts := append([]Option{WithFS(sub)}, options...)
		return New(opts...)
	}
}

// RenderTemplate renders one of the loaded templates.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	e.mu.RLock()
	tmpl, ok := e.templates[name]
	names := e.names[name]
	e.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("gotemplate: template %q not found", name)
	}

	ctx := toContext(data)
	if err := e.checkBound(name, names, ctx); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := execute(tmpl, ctx, escapesHTML(name), &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", name, err)
	}

	return writeRendered(buf.String(), out)
}

// RenderString parses and renders templateContent. Includes resolve against
// the engine's loaded directory.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}

	ctx := toContext(data)
	if err := e.checkBound("string", scanNames(templateContent), ctx); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := execute(tmpl, ctx, false, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template string: %w", err)
	}

	return writeRendered(buf.String(), out)
}

// RegisterFilter registers a template filter. Filters are process wide: a
// name first registered through this package is replaced, any other existing
// name is rejected.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	return installFilter(name, filter)
}

// checkBound fails when the template, or a sibling it includes, extends or
// imports, reads a name missing from ctx.
func (e *Engine) checkBound(name string, names templateNames, ctx pongo2.Context) error {
	e.mu.RLock()
	missing := unboundNames(names, e.names, ctx)
	e.mu.RUnlock()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s while rendering %q", ErrUndefinedVariable, strings.Join(missing, ", "), name)
}

// Templates lists the loaded template names in sorted order.
func (e *Engine) Templates() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.templates))
	for name := range e.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeRendered(rendered string, out []io.Writer) (string, error) {
	for _, w := range out {
		if _, err := w.Write([]byte(rendered)); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

var (
	// pongo2 reads its autoescape flag when execution starts, so the flag is
	// only changed while this lock is held.
	autoescapeMu sync.Mutex

	filtersMu    sync.Mutex
	ownedFilters = make(map[string]struct{})
)

func execute(tmpl *pongo2.Template, ctx pongo2.Context, escape bool, w io.Writer) error {
	autoescapeMu.Lock()
	defer autoescapeMu.Unlock()

	pongo2.SetAutoescape(escape)
	defer pongo2.SetAutoescape(true)

	return tmpl.ExecuteWriter(ctx, w)
}

// escapesHTML reports whether name is a markup template, the only kind that
// is autoescaped.
func escapesHTML(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm", ".xml":
		return true
	default:
		return false
	}
}

func installFilter(name string, filter pongo2.FilterFunction) error {
	filtersMu.Lock()
	defer filtersMu.Unlock()

	if _, owned := ownedFilters[name]; owned {
		return pongo2.ReplaceFilter(name, filter)
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	if err := pongo2.RegisterFilter(name, filter); err != nil {
		return fmt.Errorf("gotemplate: register filter %q: %w", name, err)
	}
	ownedFilters[name] = struct{}{}
	return nil
}

type templateEntry struct {
	name   string
	source fs.FS
}

func listTemplates(sources []fs.FS) ([]templateEntry, error) {
	seen := make(map[string]struct{})
	var entries []templateEntry
	for _, src := range sources {
		dirEntries, err := fs.ReadDir(src, ".")
		if err != nil {
			return nil, fmt.Errorf("gotemplate: read template dir: %w", err)
		}
		for _, entry := range dirEntries {
			name := entry.Name()
			if entry.IsDir() || strings.HasPrefix(name, ".") {
				continue
			}
			if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			entries = append(entries, templateEntry{name: name, source: src})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries, nil
}

func toContext(data any) pongo2.Context {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}
	case pongo2.Context:
		return v
	case map[string]any:
		out := make(pongo2.Context, len(v))
		for key, value := range v {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			out[key] = value
		}
		return out
	default:
		return pongo2.Context{"data": v}
	}
}

var (
	sanitizePolicyOnce sync.Once
	sanitizePolicy     *bluemonday.Policy

	defaultFiltersOnce sync.Once
)

func registerDefaultFilters() {
	defaultFiltersOnce.Do(func() {
		_ = installFilter("trim", filterTrim)
		_ = installFilter("lowerfirst", filterLowerFirst)
		_ = installFilter("sanitize", filterSanitize)
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	t := in.String()

	var (
		firstNonWhitespaceIndex int
		firstRune               rune
		firstRuneSize           int
	)

	for i, r := range t {
		if !strings.ContainsRune(" \t\n\r", r) {
			firstNonWhitespaceIndex = i
			firstRune = r
			firstRuneSize = utf8.RuneLen(r)
			break
		}
	}

	if firstRune == 0 {
		return pongo2.AsValue(t), nil
	}

	prefix := t[:firstNonWhitespaceIndex]
	loweredRune := strings.ToLower(string(firstRune))
	rest := t[firstNonWhitespaceIndex+firstRuneSize:]

	return pongo2.AsValue(prefix + loweredRune + rest), nil
}

// filterSanitize strips markup outside the bluemonday UGC allow-list. The
// result is marked safe so autoescaping does not re-encode the kept markup.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	sanitizePolicyOnce.Do(func() {
		sanitizePolicy = bluemonday.UGCPolicy()
	})
	return pongo2.AsSafeValue(sanitizePolicy.Sanitize(in.String())), nil
}
