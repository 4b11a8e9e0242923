package files

import "context"

// Repo persists resume metadata.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	Get(ctx context.Context, fileID string) (Resume, error)
	List(ctx context.Context) ([]Resume, error)
	Delete(ctx context.Context, fileID string) error
}
