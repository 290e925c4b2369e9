package literal

import (
	"io/fs"
	"log"
	"strings"

	"github.com/goliatone/go-literal/pkg/render/template"
)

// Option configures a render pass.
type Option func(*config)

type config struct {
	files          fs.FS
	variables      map[string]any
	variablesFiles []string
	pairs          [][2]string
	logger         *log.Logger
	factory        template.Factory
	filters        map[string]FilterFunc
}

func newConfig(options ...Option) *config {
	cfg := &config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	return cfg
}

// WithFS resolves both fs-backed input sources and \render paths inside
// files instead of the local filesystem.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithVariables seeds the store before the first line. Values must be
// integers or strings.
func WithVariables(values map[string]any) Option {
	return func(cfg *config) {
		if len(values) == 0 {
			return
		}
		if cfg.variables == nil {
			cfg.variables = make(map[string]any, len(values))
		}
		for name, value := range values {
			cfg.variables[name] = value
		}
	}
}

// WithVariable seeds one variable using the \init literal rule.
func WithVariable(name, literal string) Option {
	return func(cfg *config) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		cfg.pairs = append(cfg.pairs, [2]string{name, literal})
	}
}

// WithVariablesFile seeds the store from a JSON or YAML mapping on disk.
func WithVariablesFile(path string) Option {
	return func(cfg *config) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		cfg.variablesFiles = append(cfg.variablesFiles, path)
	}
}

// WithLogger traces executed directives.
func WithLogger(logger *log.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithTemplateFactory swaps the engine used by \render.
func WithTemplateFactory(factory template.Factory) Option {
	return func(cfg *config) {
		cfg.factory = factory
	}
}

// WithFilters registers extra template filters on the default engine. pongo2
// filters are process wide, so the latest function registered under a name
// serves every render; names of pongo2's built-in filters make \render fail
// with a TemplateLoadError.
func WithFilters(filters map[string]FilterFunc) Option {
	return func(cfg *config) {
		if len(filters) == 0 {
			return
		}
		if cfg.filters == nil {
			cfg.filters = make(map[string]FilterFunc, len(filters))
		}
		for name, fn := range filters {
			cfg.filters[name] = fn
		}
	}
}
