package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a storage key has no object behind it.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
// Keys are slash-separated paths such as "resume/<id>.pdf".
type ObjectStore interface {
	Save(ctx context.Context, storageKey string, r io.Reader) (sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	Delete(ctx context.Context, storageKey string) error
}
