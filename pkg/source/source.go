// Package source identifies where a document to preprocess comes from.
package source

import (
	"context"
	"io"
	"io/fs"
	"path/filepath"
)

// Kind distinguishes source strategies.
type Kind string

const (
	// KindFile is a path on the local filesystem.
	KindFile Kind = "file"
	// KindFS is a path inside an fs.FS supplied to the loader.
	KindFS Kind = "fs"
)

// Source locates an input document.
type Source interface {
	Location() string
	Kind() Kind
}

// Loader opens a Source for reading.
type Loader interface {
	Open(ctx context.Context, src Source) (io.ReadCloser, error)
}

// LoaderOptions configures how a Loader resolves sources.
type LoaderOptions struct {
	// FileSystem backs KindFS sources.
	FileSystem fs.FS
}

// LoaderOption mutates LoaderOptions prior to construction.
type LoaderOption func(*LoaderOptions)

// WithFileSystem injects an fs.FS for KindFS sources.
func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) {
		opts.FileSystem = files
	}
}

// NewLoaderOptions applies a set of LoaderOption values and returns the
// resulting configuration.
func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	cfg := LoaderOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() Kind {
	return KindFile
}

// FromFile returns a Source pointing to a file path.
func FromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() Kind {
	return KindFS
}

// FromFS returns a Source identifying a file inside the loader's fs.FS.
func FromFS(name string) Source {
	return fsSource{name: name}
}
