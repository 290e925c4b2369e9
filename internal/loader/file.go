package loader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

func openFile(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == "" {
		return nil, errors.New("loader: file path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	return os.Open(abs)
}
