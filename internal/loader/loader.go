package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"

	"github.com/goliatone/go-literal/pkg/source"
)

// Loader implements source.Loader for file and fs.FS sources.
type Loader struct {
	fs fs.FS
}

// Ensure the implementation satisfies the public interface.
var _ source.Loader = (*Loader)(nil)

// New constructs a Loader from pre-resolved options.
func New(options source.LoaderOptions) *Loader {
	return &Loader{fs: options.FileSystem}
}

// Open returns a reader for src. The caller closes it.
func (l *Loader) Open(ctx context.Context, src source.Source) (io.ReadCloser, error) {
	if src == nil {
		return nil, errors.New("loader: source is nil")
	}

	switch src.Kind() {
	case source.KindFile:
		return openFile(ctx, src.Location())
	case source.KindFS:
		return openFromFS(ctx, l.fs, src.Location())
	default:
		return nil, errors.New("loader: unsupported source kind")
	}
}
