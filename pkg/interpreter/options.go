package interpreter

import (
	"log"

	"github.com/goliatone/go-literal/pkg/store"
)

// Renderer renders a template file against a set of bindings.
type Renderer interface {
	Render(path string, bindings map[string]any) (string, error)
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithRenderer replaces the template bridge used by \render.
func WithRenderer(r Renderer) Option {
	return func(i *Interpreter) {
		if r != nil {
			i.renderer = r
		}
	}
}

// WithStore starts the pass from a pre-populated store instead of an empty
// one. The interpreter takes ownership of s.
func WithStore(s *store.Store) Option {
	return func(i *Interpreter) {
		if s != nil {
			i.store = s
		}
	}
}

// WithLogger traces every executed directive to logger.
func WithLogger(logger *log.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}
