package letters

import "context"

// Repo persists letter metadata.
type Repo interface {
	Create(ctx context.Context, letter Letter) error
	Get(ctx context.Context, letterID string) (Letter, error)
	ListByResume(ctx context.Context, resumeID string) ([]Letter, error)
	Delete(ctx context.Context, letterID string) error
	DeleteByResume(ctx context.Context, resumeID string) ([]Letter, error)
}
