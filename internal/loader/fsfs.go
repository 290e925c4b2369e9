package loader

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

func openFromFS(ctx context.Context, filesystem fs.FS, name string) (io.ReadCloser, error) {
	if filesystem == nil {
		return nil, errors.New("loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("loader: fs path is required")
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return filesystem.Open(name)
}
