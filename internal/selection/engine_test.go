package selection_test

import (
	"context"
	"errors"
	"testing"

	"letterdesk/internal/selection"
)

// fakeStore records calls and returns scripted results.
type fakeStore struct {
	saveErr     error
	saved       []selection.Selection
	researchErr error
	researchOut map[string]string
	researched  int

	// optional hooks to coordinate concurrent tests
	onSave     func()
	onResearch func()
}

func (f *fakeStore) SaveSelection(ctx context.Context, resumeID string, sel selection.Selection) error {
	if f.onSave != nil {
		f.onSave()
	}
	f.saved = append(f.saved, sel)
	return f.saveErr
}

func (f *fakeStore) Research(ctx context.Context, resumeID string) (map[string]string, error) {
	if f.onResearch != nil {
		f.onResearch()
	}
	f.researched++
	if f.researchErr != nil {
		return nil, f.researchErr
	}
	return f.researchOut, nil
}

func newEngine(store selection.Store) *selection.Engine {
	entities := map[string][]selection.Entity{
		"skill":    {ent("skill", "Go"), ent("skill", "SQL")},
		"location": {ent("location", "Berlin")},
	}
	return selection.NewEngine(store, "resume-1", entities, selection.Selection{})
}

func TestEngineToggleMakesDirty(t *testing.T) {
	eng := newEngine(&fakeStore{})

	if eng.Dirty() {
		t.Fatalf("fresh engine should be clean")
	}
	eng.Toggle("skill", ent("skill", "Go"))
	if !eng.Dirty() {
		t.Fatalf("toggling an entity on should make the draft dirty")
	}
	if !eng.CanSave() || eng.CanResearch() {
		t.Fatalf("dirty draft must enable save and disable research")
	}
}

func TestEngineDoubleToggleRestoresCleanState(t *testing.T) {
	eng := newEngine(&fakeStore{})

	eng.Toggle("skill", ent("skill", "Go"))
	eng.Toggle("skill", ent("skill", "Go"))

	if eng.Dirty() {
		t.Fatalf("toggling the same entity twice should restore the clean state")
	}
	if len(eng.Draft()) != 0 {
		t.Fatalf("expected empty draft, got %v", eng.Draft())
	}
}

func TestEngineToggleRemovalKeepsOrder(t *testing.T) {
	eng := newEngine(&fakeStore{})

	eng.Toggle("skill", ent("skill", "Go"))
	eng.Toggle("skill", ent("skill", "SQL"))
	eng.Toggle("skill", ent("skill", "Go"))

	draft := eng.Draft()
	if len(draft["skill"]) != 1 || draft["skill"][0].Text != "SQL" {
		t.Fatalf("expected only SQL to remain, got %v", draft["skill"])
	}
}

func TestEngineSaveSuccess(t *testing.T) {
	store := &fakeStore{}
	eng := newEngine(store)
	eng.Toggle("skill", ent("skill", "Go"))

	if err := eng.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if eng.Dirty() {
		t.Fatalf("engine should be clean after a successful save")
	}
	if len(store.saved) != 1 || !store.saved[0].Contains("skill", "Go") {
		t.Fatalf("store received wrong selection: %v", store.saved)
	}
	if eng.Message() != "Entities saved successfully." {
		t.Fatalf("unexpected message %q", eng.Message())
	}
}

func TestEngineSaveFailureKeepsDraft(t *testing.T) {
	store := &fakeStore{saveErr: errors.New("boom")}
	eng := newEngine(store)
	eng.Toggle("skill", ent("skill", "Go"))

	if err := eng.Save(context.Background()); err == nil {
		t.Fatalf("expected save to fail")
	}
	if !eng.Dirty() {
		t.Fatalf("failed save must leave the draft dirty")
	}
	if !eng.Draft().Contains("skill", "Go") {
		t.Fatalf("failed save must not revert the draft")
	}
	if eng.Message() != "Submission failed." {
		t.Fatalf("unexpected message %q", eng.Message())
	}
}

func TestEngineSaveCleanReturnsNotDirty(t *testing.T) {
	store := &fakeStore{}
	eng := newEngine(store)

	if err := eng.Save(context.Background()); !errors.Is(err, selection.ErrNotDirty) {
		t.Fatalf("expected ErrNotDirty, got %v", err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("clean save must not issue a request")
	}
}

func TestEngineResearchRequiresCleanDraft(t *testing.T) {
	store := &fakeStore{researchOut: map[string]string{"Go": "a language"}}
	eng := newEngine(store)
	eng.Toggle("skill", ent("skill", "Go"))

	if err := eng.Research(context.Background()); !errors.Is(err, selection.ErrDirty) {
		t.Fatalf("expected ErrDirty, got %v", err)
	}
	if store.researched != 0 {
		t.Fatalf("dirty research must not issue a request")
	}

	if err := eng.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := eng.Research(context.Background()); err != nil {
		t.Fatalf("research: %v", err)
	}
	if got := eng.Results()["Go"]; got != "a language" {
		t.Fatalf("expected research result, got %q", got)
	}
	if eng.Message() != "Research completed successfully." {
		t.Fatalf("unexpected message %q", eng.Message())
	}
}

func TestEngineResearchFailureClearsResults(t *testing.T) {
	store := &fakeStore{researchOut: map[string]string{"Go": "a language"}}
	eng := newEngine(store)

	if err := eng.Research(context.Background()); err != nil {
		t.Fatalf("research: %v", err)
	}
	store.researchErr = errors.New("boom")

	if err := eng.Research(context.Background()); err == nil {
		t.Fatalf("expected research to fail")
	}
	if len(eng.Results()) != 0 {
		t.Fatalf("stale results must be cleared on failure, got %v", eng.Results())
	}
	if eng.Message() != "Research failed." {
		t.Fatalf("unexpected message %q", eng.Message())
	}
}

func TestEngineRejectsConcurrentOperations(t *testing.T) {
	store := &fakeStore{}
	eng := newEngine(store)
	eng.Toggle("skill", ent("skill", "Go"))

	inSave := make(chan struct{})
	release := make(chan struct{})
	store.onSave = func() {
		close(inSave)
		<-release
	}

	done := make(chan error, 1)
	go func() { done <- eng.Save(context.Background()) }()
	<-inSave

	if !eng.Saving() {
		t.Fatalf("expected save to be in flight")
	}
	if err := eng.Save(context.Background()); !errors.Is(err, selection.ErrBusy) {
		t.Fatalf("expected ErrBusy from second save, got %v", err)
	}
	if err := eng.Research(context.Background()); !errors.Is(err, selection.ErrBusy) {
		t.Fatalf("expected ErrBusy from research during save, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestEngineEditDuringSaveStaysDirty(t *testing.T) {
	store := &fakeStore{}
	eng := newEngine(store)
	eng.Toggle("skill", ent("skill", "Go"))

	inSave := make(chan struct{})
	release := make(chan struct{})
	store.onSave = func() {
		close(inSave)
		<-release
	}

	done := make(chan error, 1)
	go func() { done <- eng.Save(context.Background()) }()
	<-inSave

	// Edit while the save is outstanding.
	eng.Toggle("location", ent("location", "Berlin"))
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}

	if !eng.Dirty() {
		t.Fatalf("edits made during the save must keep the engine dirty")
	}
	persisted := eng.Persisted()
	if persisted.Contains("location", "Berlin") {
		t.Fatalf("persisted snapshot must not include edits made after the save started")
	}
	if !persisted.Contains("skill", "Go") {
		t.Fatalf("persisted snapshot must match what was sent")
	}
}
