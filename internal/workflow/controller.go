// Package workflow coordinates the resume → letter stages on the client
// side: browsing resumes, curating extracted entities, running
// research, generating letters, and managing the results.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"letterdesk/internal/client"
	"letterdesk/internal/pairing"
	"letterdesk/internal/selection"
	"letterdesk/internal/shared/telemetry"
)

// API is the slice of the HTTP client the workflow consumes.
// *client.Client satisfies it; tests use fakes.
type API interface {
	ListResumes(ctx context.Context) ([]client.Resume, error)
	DeleteResume(ctx context.Context, resumeID string) error
	ResumeEntities(ctx context.Context, resumeID string) (client.EntitiesPayload, error)
	SaveSelection(ctx context.Context, resumeID string, sel selection.Selection) error
	Research(ctx context.Context, resumeID string) (map[string]string, error)
	GenerateLetter(ctx context.Context, req client.LetterRequest) (string, error)
	LettersForResume(ctx context.Context, resumeID string) ([]client.Letter, error)
	DownloadLetter(ctx context.Context, letterID string, w io.Writer) (int64, error)
	DeleteLetter(ctx context.Context, letterID string) error
}

var (
	// ErrInvalidPairing blocks generation while the principal/grantee
	// pair is incomplete or conflicting. No request is issued.
	ErrInvalidPairing = errors.New("principal and grantee must be distinct resumes")
	// ErrBusy is returned when a transient stage is already in flight.
	ErrBusy = errors.New("operation already in flight")
	// ErrNoPendingDelete is returned by Confirm/Cancel without a pending
	// confirmation.
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	// ErrNoEntities is returned when a curation action runs before a
	// resume's entities were loaded.
	ErrNoEntities = errors.New("no entities loaded")
)

// DeleteTarget is a pending deletion awaiting user confirmation. Name
// is the human-readable label shown in the confirmation step.
type DeleteTarget struct {
	Kind string // "resume" or "letter"
	ID   string
	Name string
}

// Controller owns the workflow state machine. The curation flow
// (browse → entities loaded → saving/researching) and the generation
// flow (form → generating → letter ready) are independent; each is
// keyed by its own resume id.
type Controller struct {
	mu  sync.Mutex
	api API

	registry *Registry

	// Curation sub-machine.
	curationStage Stage
	engine        *selection.Engine

	// Generation sub-machine.
	validator       pairing.Validator
	form            client.LetterRequest
	generationStage Stage
	lastLetterID    string

	// Per-letter transients.
	downloading map[string]bool
	pendingDel  *DeleteTarget
}

// NewController constructs a Controller over the given API.
func NewController(api API) *Controller {
	return &Controller{
		api:             api,
		registry:        NewRegistry(api),
		curationStage:   StageBrowsing,
		generationStage: StageGenerationForm,
		downloading:     map[string]bool{},
	}
}

// Registry exposes the resume/letter registry.
func (c *Controller) Registry() *Registry { return c.registry }

// CurationStage returns the current stage of the curation flow.
func (c *Controller) CurationStage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.curationStage
}

// GenerationStage returns the current stage of the generation flow.
func (c *Controller) GenerationStage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generationStage
}

// Engine returns the selection engine of the loaded resume, or nil
// while no entity view is open.
func (c *Controller) Engine() *selection.Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// Init performs the initial load: the resume list, plus — when
// deepLinkResumeID is set (a letters view opened from a URL query
// parameter) — the same letters fetch a manual selection triggers.
func (c *Controller) Init(ctx context.Context, deepLinkResumeID string) error {
	if _, err := c.registry.Resumes(ctx); err != nil {
		return err
	}
	if deepLinkResumeID == "" {
		return nil
	}
	if _, ok := c.registry.Find(deepLinkResumeID); !ok {
		return fmt.Errorf("resume %s not found", deepLinkResumeID)
	}
	return c.registry.SelectResume(ctx, deepLinkResumeID)
}

// OpenEntities fetches the entities and saved selection for a resume
// and enters EntitiesLoaded. On a failed fetch the stage is left where
// it was and no partial entity view exists.
func (c *Controller) OpenEntities(ctx context.Context, resumeID string) error {
	payload, err := c.api.ResumeEntities(ctx, resumeID)
	if err != nil {
		telemetry.Error("workflow.entities.fetch", map[string]any{"id": resumeID, "error": err.Error()})
		return fmt.Errorf("load entities resume=%s: %w", resumeID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.engine = selection.NewEngine(c.api, resumeID, payload.Entities, payload.Selected)
	c.curationStage = StageEntitiesLoaded
	return nil
}

// SaveSelection drives the engine's save through the Saving transient.
// The stage returns to EntitiesLoaded whether the save succeeded or
// not; only the engine's dirty state records the outcome.
func (c *Controller) SaveSelection(ctx context.Context) error {
	eng, err := c.enterTransient(StageSaving)
	if err != nil {
		return err
	}
	saveErr := eng.Save(ctx)
	c.leaveTransient()
	if saveErr != nil && !errors.Is(saveErr, selection.ErrNotDirty) && !errors.Is(saveErr, selection.ErrBusy) {
		telemetry.Error("workflow.selection.save", map[string]any{"id": eng.ResumeID(), "error": saveErr.Error()})
	}
	return saveErr
}

// Research drives the engine's research through the Researching
// transient.
func (c *Controller) Research(ctx context.Context) error {
	eng, err := c.enterTransient(StageResearching)
	if err != nil {
		return err
	}
	resErr := eng.Research(ctx)
	c.leaveTransient()
	if resErr != nil && !errors.Is(resErr, selection.ErrDirty) && !errors.Is(resErr, selection.ErrBusy) {
		telemetry.Error("workflow.research", map[string]any{"id": eng.ResumeID(), "error": resErr.Error()})
	}
	return resErr
}

func (c *Controller) enterTransient(stage Stage) (*selection.Engine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.engine == nil {
		return nil, ErrNoEntities
	}
	if c.curationStage == StageSaving || c.curationStage == StageResearching {
		return nil, ErrBusy
	}
	c.curationStage = stage
	return c.engine, nil
}

func (c *Controller) leaveTransient() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.curationStage = StageEntitiesLoaded
}

// SetPrincipal records the principal resume for generation;
// revalidation against the grantee happens immediately.
func (c *Controller) SetPrincipal(resumeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validator.SetPrincipal(resumeID)
	c.form.PrincipalResumeID = resumeID
}

// SetGrantee records the grantee resume for generation.
func (c *Controller) SetGrantee(resumeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.validator.SetGrantee(resumeID)
	c.form.GranteeResumeID = resumeID
}

// SetLetterDetails records circumstances, type, and directives.
func (c *Controller) SetLetterDetails(circumstances, recommendationType, directives string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.form.Circumstances = circumstances
	c.form.RecommendationType = recommendationType
	c.form.Directives = directives
}

// PairingError returns the validator's current error message.
func (c *Controller) PairingError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validator.ErrorMessage()
}

// CanGenerate reports whether the pairing permits generation.
func (c *Controller) CanGenerate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.validator.Valid() && c.generationStage != StageGenerating
}

// Generate submits the letter request. It is entered only when the
// pairing is valid; otherwise no request goes out. On success the flow
// lands in LetterReady and the letters view is switched to the grantee
// so the new artifact is immediately visible.
func (c *Controller) Generate(ctx context.Context) (string, error) {
	c.mu.Lock()
	if !c.validator.Valid() {
		c.mu.Unlock()
		return "", ErrInvalidPairing
	}
	if c.generationStage == StageGenerating {
		c.mu.Unlock()
		return "", ErrBusy
	}
	c.generationStage = StageGenerating
	req := c.form
	c.mu.Unlock()

	letterID, err := c.api.GenerateLetter(ctx, req)

	c.mu.Lock()
	if err != nil {
		c.generationStage = StageGenerationForm
		c.mu.Unlock()
		telemetry.Error("workflow.generate", map[string]any{"id": req.GranteeResumeID, "error": err.Error()})
		return "", fmt.Errorf("generate letter: %w", err)
	}
	c.generationStage = StageLetterReady
	c.lastLetterID = letterID
	c.mu.Unlock()

	// Navigate to the letters view scoped to the grantee.
	if err := c.registry.SelectResume(ctx, req.GranteeResumeID); err != nil {
		telemetry.Error("workflow.letters.fetch", map[string]any{"id": req.GranteeResumeID, "error": err.Error()})
	}
	return letterID, nil
}

// LastLetterID returns the id of the most recently generated letter.
func (c *Controller) LastLetterID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastLetterID
}

// RequestDeleteResume stages a resume deletion pending confirmation,
// carrying the resume's filename for the confirmation prompt.
func (c *Controller) RequestDeleteResume(resumeID string) (DeleteTarget, error) {
	res, ok := c.registry.Find(resumeID)
	if !ok {
		return DeleteTarget{}, fmt.Errorf("resume %s not found", resumeID)
	}
	target := DeleteTarget{Kind: "resume", ID: res.FileID, Name: res.Filename}
	c.mu.Lock()
	c.pendingDel = &target
	c.mu.Unlock()
	return target, nil
}

// RequestDeleteLetter stages a letter deletion pending confirmation.
func (c *Controller) RequestDeleteLetter(letterID string) (DeleteTarget, error) {
	letter, ok := c.registry.FindLetter(letterID)
	if !ok {
		return DeleteTarget{}, fmt.Errorf("letter %s not found", letterID)
	}
	target := DeleteTarget{Kind: "letter", ID: letter.LetterID, Name: letter.Filename}
	c.mu.Lock()
	c.pendingDel = &target
	c.mu.Unlock()
	return target, nil
}

// PendingDelete returns the deletion awaiting confirmation, if any.
func (c *Controller) PendingDelete() *DeleteTarget {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingDel == nil {
		return nil
	}
	copied := *c.pendingDel
	return &copied
}

// CancelDelete discards the pending confirmation.
func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDel = nil
}

// ConfirmDelete issues the staged delete. The item leaves the
// in-memory list only after the remote delete succeeds; on failure the
// item stays and the error is surfaced.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	target := c.pendingDel
	c.pendingDel = nil
	c.mu.Unlock()
	if target == nil {
		return ErrNoPendingDelete
	}

	switch target.Kind {
	case "resume":
		if err := c.api.DeleteResume(ctx, target.ID); err != nil {
			telemetry.Error("workflow.resume.delete", map[string]any{"id": target.ID, "error": err.Error()})
			return fmt.Errorf("delete resume %q: %w", target.Name, err)
		}
		c.registry.removeResume(target.ID)
		c.mu.Lock()
		if c.engine != nil && c.engine.ResumeID() == target.ID {
			// The entity view references a resume that no longer exists.
			c.engine = nil
			c.curationStage = StageBrowsing
		}
		c.mu.Unlock()
	case "letter":
		if err := c.api.DeleteLetter(ctx, target.ID); err != nil {
			telemetry.Error("workflow.letter.delete", map[string]any{"id": target.ID, "error": err.Error()})
			return fmt.Errorf("delete letter %q: %w", target.Name, err)
		}
		c.registry.removeLetter(target.ID)
	default:
		return fmt.Errorf("unknown delete kind %q", target.Kind)
	}
	return nil
}

// DownloadLetter streams one letter to w, guarding against concurrent
// downloads of the same letter. The in-flight flag is always cleared.
func (c *Controller) DownloadLetter(ctx context.Context, letterID string, w io.Writer) error {
	c.mu.Lock()
	if c.downloading[letterID] {
		c.mu.Unlock()
		return ErrBusy
	}
	c.downloading[letterID] = true
	c.mu.Unlock()

	_, err := c.api.DownloadLetter(ctx, letterID, w)

	c.mu.Lock()
	delete(c.downloading, letterID)
	c.mu.Unlock()

	if err != nil {
		telemetry.Error("workflow.letter.download", map[string]any{"id": letterID, "error": err.Error()})
		return fmt.Errorf("download letter %s: %w", letterID, err)
	}
	return nil
}
