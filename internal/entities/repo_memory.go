package entities

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu         sync.RWMutex
	entities   map[string]map[string][]Entity
	selections map[string]Selection
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		entities:   make(map[string]map[string][]Entity),
		selections: make(map[string]Selection),
	}
}

// SaveEntities caches the extraction result for a resume.
func (r *MemoryRepo) SaveEntities(ctx context.Context, fileID string, ents map[string][]Entity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[fileID] = ents
	return nil
}

// GetEntities returns cached extraction results for a resume.
func (r *MemoryRepo) GetEntities(ctx context.Context, fileID string) (map[string][]Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ents, ok := r.entities[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	return ents, nil
}

// SaveSelection replaces the stored selection for a resume.
func (r *MemoryRepo) SaveSelection(ctx context.Context, fileID string, sel Selection) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections[fileID] = sel
	return nil
}

// GetSelection returns the stored selection, empty when none saved.
func (r *MemoryRepo) GetSelection(ctx context.Context, fileID string) (Selection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	sel, ok := r.selections[fileID]
	if !ok {
		return Selection{}, nil
	}
	return sel, nil
}

// DeleteByResume drops entities and selection for a resume.
func (r *MemoryRepo) DeleteByResume(ctx context.Context, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entities, fileID)
	delete(r.selections, fileID)
	return nil
}
