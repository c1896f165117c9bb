package ports

import (
	"context"
	"io"
)

// ImageUploader stores an image with the third-party image host and
// returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, image io.Reader) (string, error)
}
