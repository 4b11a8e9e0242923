package entities

import "context"

// Repo persists extracted entities and user selections per resume.
type Repo interface {
	SaveEntities(ctx context.Context, fileID string, ents map[string][]Entity) error
	GetEntities(ctx context.Context, fileID string) (map[string][]Entity, error)
	SaveSelection(ctx context.Context, fileID string, sel Selection) error
	GetSelection(ctx context.Context, fileID string) (Selection, error)
	DeleteByResume(ctx context.Context, fileID string) error
}
