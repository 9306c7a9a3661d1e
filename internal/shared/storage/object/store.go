package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving uploaded files.
// Resume text lives in the database; the store only keeps the original upload
// so it can be re-examined later.
type ObjectStore interface {
	Save(ctx context.Context, userId string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
