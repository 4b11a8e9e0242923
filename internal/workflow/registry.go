package workflow

import (
	"context"
	"fmt"
	"sync"

	"letterdesk/internal/client"
)

// Registry holds the known resumes and, for the currently selected
// resume, its letters. The resume list is cached for the session;
// letters are re-fetched whenever the selected resume changes. A
// letters response that resolves after the selection has moved on is
// discarded by comparing its resume id against the current selection.
type Registry struct {
	mu  sync.Mutex
	api API

	resumes  []client.Resume
	fetched  bool
	selected string
	letters  []client.Letter
}

// NewRegistry constructs a Registry backed by the given API.
func NewRegistry(api API) *Registry {
	return &Registry{api: api}
}

// Resumes returns the cached resume list, fetching it on first use.
func (r *Registry) Resumes(ctx context.Context) ([]client.Resume, error) {
	r.mu.Lock()
	if r.fetched {
		out := append([]client.Resume(nil), r.resumes...)
		r.mu.Unlock()
		return out, nil
	}
	r.mu.Unlock()
	return r.Refresh(ctx)
}

// Refresh re-fetches the resume list from the store. On failure the
// prior cache is left untouched.
func (r *Registry) Refresh(ctx context.Context) ([]client.Resume, error) {
	resumes, err := r.api.ListResumes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}
	r.mu.Lock()
	r.resumes = resumes
	r.fetched = true
	out := append([]client.Resume(nil), r.resumes...)
	r.mu.Unlock()
	return out, nil
}

// Find returns the cached resume with the given id, if present.
func (r *Registry) Find(resumeID string) (client.Resume, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.resumes {
		if res.FileID == resumeID {
			return res, true
		}
	}
	return client.Resume{}, false
}

// SelectResume makes resumeID the current letters scope and fetches its
// letters. The previous letter list is cleared up front. If the
// selection changes again while the fetch is outstanding, the stale
// response is dropped on arrival; the id on the response, not request
// completion order, decides what is current.
func (r *Registry) SelectResume(ctx context.Context, resumeID string) error {
	r.mu.Lock()
	r.selected = resumeID
	r.letters = nil
	r.mu.Unlock()

	letters, err := r.api.LettersForResume(ctx, resumeID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.selected != resumeID {
		// Superseded by a newer selection; ignore this response.
		return nil
	}
	if err != nil {
		return fmt.Errorf("list letters resume=%s: %w", resumeID, err)
	}
	r.letters = letters
	return nil
}

// SelectedResume returns the resume id the letter list is scoped to.
func (r *Registry) SelectedResume() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.selected
}

// Letters returns the letters of the currently selected resume.
func (r *Registry) Letters() []client.Letter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]client.Letter(nil), r.letters...)
}

// FindLetter returns the cached letter with the given id, if present.
func (r *Registry) FindLetter(letterID string) (client.Letter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.letters {
		if l.LetterID == letterID {
			return l, true
		}
	}
	return client.Letter{}, false
}

// removeResume drops a resume from the cache after a confirmed delete.
func (r *Registry) removeResume(resumeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.resumes[:0]
	for _, res := range r.resumes {
		if res.FileID != resumeID {
			kept = append(kept, res)
		}
	}
	r.resumes = kept
	if r.selected == resumeID {
		r.selected = ""
		r.letters = nil
	}
}

// removeLetter drops a letter from the cache after a confirmed delete.
func (r *Registry) removeLetter(letterID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.letters[:0]
	for _, l := range r.letters {
		if l.LetterID != letterID {
			kept = append(kept, l)
		}
	}
	r.letters = kept
}
