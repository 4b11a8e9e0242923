package selection

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Store persists selections and runs research for a resume. The HTTP
// client satisfies it in production; tests use fakes.
type Store interface {
	SaveSelection(ctx context.Context, resumeID string, sel Selection) error
	Research(ctx context.Context, resumeID string) (map[string]string, error)
}

var (
	// ErrNotDirty is returned by Save when the draft already matches the
	// persisted selection.
	ErrNotDirty = errors.New("selection has no unsaved changes")
	// ErrDirty is returned by Research while unsaved edits exist.
	ErrDirty = errors.New("selection has unsaved changes")
	// ErrBusy is returned while a save or research is already in flight.
	ErrBusy = errors.New("selection operation already in flight")
)

// User-visible status messages, matching the workflow's vocabulary.
const (
	msgSaved          = "Entities saved successfully."
	msgSaveFailed     = "Submission failed."
	msgResearchDone   = "Research completed successfully."
	msgResearchFailed = "Research failed."
)

// Engine tracks the draft and persisted entity selections for one
// resume and gates save/research on the dirty state. Save requires a
// dirty draft; research requires a clean one. At most one of the two
// may be in flight at a time.
type Engine struct {
	mu       sync.Mutex
	store    Store
	resumeID string

	entities  map[string][]Entity
	draft     Selection
	persisted Selection

	saving      bool
	researching bool
	results     map[string]string
	message     string
}

// NewEngine seeds both the draft and persisted snapshots from the last
// saved selection (empty when nothing was ever saved).
func NewEngine(store Store, resumeID string, entities map[string][]Entity, saved Selection) *Engine {
	return &Engine{
		store:     store,
		resumeID:  resumeID,
		entities:  entities,
		draft:     saved.Clone(),
		persisted: saved.Clone(),
	}
}

// ResumeID returns the resume this engine curates.
func (e *Engine) ResumeID() string { return e.resumeID }

// Entities returns the extracted entities grouped by label.
func (e *Engine) Entities() map[string][]Entity {
	return e.entities
}

// Toggle adds the entity to the draft under label, or removes it if its
// text is already selected. persisted is never touched. Toggling is
// allowed while a save or research is outstanding; a later save always
// sends the draft as it stands when Save is called.
func (e *Engine) Toggle(label string, ent Entity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = e.draft.toggle(label, ent)
}

// Dirty reports whether the draft differs structurally from the last
// persisted selection.
func (e *Engine) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.draft.Equal(e.persisted)
}

// Draft returns a copy of the current draft selection.
func (e *Engine) Draft() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Clone()
}

// Persisted returns a copy of the last saved selection.
func (e *Engine) Persisted() Selection {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persisted.Clone()
}

// Results returns the summaries from the last successful research run.
func (e *Engine) Results() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.results))
	for k, v := range e.results {
		out[k] = v
	}
	return out
}

// Message returns the latest user-visible status message.
func (e *Engine) Message() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.message
}

// CanSave reports whether Save is currently permitted.
func (e *Engine) CanSave() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.draft.Equal(e.persisted) && !e.saving && !e.researching
}

// CanResearch reports whether Research is currently permitted.
func (e *Engine) CanResearch() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft.Equal(e.persisted) && !e.saving && !e.researching
}

// Saving reports whether a save is in flight.
func (e *Engine) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// Researching reports whether a research run is in flight.
func (e *Engine) Researching() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.researching
}

// Save sends the draft to the store. On success the snapshot that was
// sent becomes the persisted selection; edits made while the request
// was outstanding keep the engine dirty. On failure the persisted
// selection and the draft are both left untouched so no edits are lost.
func (e *Engine) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.saving || e.researching {
		e.mu.Unlock()
		return ErrBusy
	}
	if e.draft.Equal(e.persisted) {
		e.mu.Unlock()
		return ErrNotDirty
	}
	snapshot := e.draft.Clone()
	e.saving = true
	e.mu.Unlock()

	err := e.store.SaveSelection(ctx, e.resumeID, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	if err != nil {
		e.message = msgSaveFailed
		return fmt.Errorf("save selection resume=%s: %w", e.resumeID, err)
	}
	e.persisted = snapshot
	e.message = msgSaved
	return nil
}

// Research runs research over the persisted selection. The previous
// results are cleared before the request is issued so stale summaries
// are never shown alongside new ones. On failure the result set stays
// empty.
func (e *Engine) Research(ctx context.Context) error {
	e.mu.Lock()
	if e.saving || e.researching {
		e.mu.Unlock()
		return ErrBusy
	}
	if !e.draft.Equal(e.persisted) {
		e.mu.Unlock()
		return ErrDirty
	}
	e.researching = true
	e.results = nil
	e.message = ""
	e.mu.Unlock()

	data, err := e.store.Research(ctx, e.resumeID)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.researching = false
	if err != nil {
		e.message = msgResearchFailed
		return fmt.Errorf("research resume=%s: %w", e.resumeID, err)
	}
	e.results = data
	e.message = msgResearchDone
	return nil
}
