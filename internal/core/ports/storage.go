package ports

import (
	"context"
	"io"
)

// FileStorage persists uploaded files and returns the public path to them.
type FileStorage interface {
	Save(ctx context.Context, r io.Reader, size int64, contentType, ext string) (string, error)
}
