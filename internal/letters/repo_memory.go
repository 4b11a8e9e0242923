package letters

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Letter
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Letter)}
}

// Create stores a letter record.
func (r *MemoryRepo) Create(ctx context.Context, letter Letter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[letter.LetterID] = letter
	return nil
}

// Get returns one letter by id.
func (r *MemoryRepo) Get(ctx context.Context, letterID string) (Letter, error) {
	if err := ctx.Err(); err != nil {
		return Letter{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	letter, ok := r.data[letterID]
	if !ok {
		return Letter{}, ErrNotFound
	}
	return letter, nil
}

// ListByResume returns the letters of a grantee resume, newest first.
func (r *MemoryRepo) ListByResume(ctx context.Context, resumeID string) ([]Letter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Letter
	for _, letter := range r.data {
		if letter.ResumeID == resumeID {
			out = append(out, letter)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes one letter record.
func (r *MemoryRepo) Delete(ctx context.Context, letterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[letterID]; !ok {
		return ErrNotFound
	}
	delete(r.data, letterID)
	return nil
}

// DeleteByResume removes all letters of a resume and returns them so
// the caller can clean up stored objects.
func (r *MemoryRepo) DeleteByResume(ctx context.Context, resumeID string) ([]Letter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed []Letter
	for id, letter := range r.data {
		if letter.ResumeID == resumeID {
			removed = append(removed, letter)
			delete(r.data, id)
		}
	}
	return removed, nil
}
