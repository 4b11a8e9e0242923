package letters

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"letterdesk/internal/files"
	"letterdesk/internal/shared/storage/object"
)

const docxMime = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// GenerateInput is one letter generation request, already flattened
// from the wire shape.
type GenerateInput struct {
	PrincipalResumeID  string
	GranteeResumeID    string
	Circumstances      string
	RecommendationType string
	Directives         string
}

// Service contains business logic for letter generation and storage.
type Service struct {
	Store  object.ObjectStore
	Repo   Repo
	Files  *files.Service
	Writer Writer
}

// Generate composes a letter from the principal and grantee resumes,
// renders it to DOCX, stores it, and records the metadata under the
// grantee resume.
func (s *Service) Generate(ctx context.Context, in GenerateInput) (Letter, error) {
	if in.PrincipalResumeID == "" || in.GranteeResumeID == "" {
		return Letter{}, ErrInvalidInput
	}
	if in.PrincipalResumeID == in.GranteeResumeID {
		return Letter{}, ErrSamePair
	}
	if !ValidType(in.RecommendationType) {
		return Letter{}, fmt.Errorf("%w: unknown recommendation type %q", ErrInvalidInput, in.RecommendationType)
	}

	principalText, err := s.Files.Text(ctx, in.PrincipalResumeID)
	if err != nil {
		return Letter{}, fmt.Errorf("principal resume: %w", err)
	}
	granteeText, err := s.Files.Text(ctx, in.GranteeResumeID)
	if err != nil {
		return Letter{}, fmt.Errorf("grantee resume: %w", err)
	}

	text, err := s.Writer.Compose(ctx, ComposeInput{
		PrincipalText:      principalText,
		GranteeText:        granteeText,
		Circumstances:      in.Circumstances,
		RecommendationType: in.RecommendationType,
		Directives:         in.Directives,
	})
	if err != nil {
		return Letter{}, err
	}

	doc, err := renderDocx(text)
	if err != nil {
		return Letter{}, err
	}

	letterID := uuid.NewString()
	storageKey := "letter/" + letterID + ".docx"
	size, _, err := s.Store.Save(ctx, storageKey, bytes.NewReader(doc))
	if err != nil {
		return Letter{}, fmt.Errorf("store letter: %w", err)
	}

	letter := Letter{
		LetterID:      letterID,
		ResumeID:      in.GranteeResumeID,
		Filename:      "Recommendation Letter for " + titleCase(in.RecommendationType),
		FileExtension: "docx",
		SizeBytes:     size,
		StorageKey:    storageKey,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, letter); err != nil {
		return Letter{}, err
	}
	return letter, nil
}

// ListByResume returns the letters generated for a grantee resume.
func (s *Service) ListByResume(ctx context.Context, resumeID string) ([]Letter, error) {
	return s.Repo.ListByResume(ctx, resumeID)
}

// Open returns a letter's metadata together with its binary stream.
func (s *Service) Open(ctx context.Context, letterID string) (Letter, io.ReadCloser, error) {
	letter, err := s.Repo.Get(ctx, letterID)
	if err != nil {
		return Letter{}, nil, err
	}
	body, err := s.Store.Open(ctx, letter.StorageKey)
	if err != nil {
		return Letter{}, nil, fmt.Errorf("open letter object: %w", err)
	}
	return letter, body, nil
}

// Delete removes one letter and its stored document.
func (s *Service) Delete(ctx context.Context, letterID string) error {
	letter, err := s.Repo.Get(ctx, letterID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, letterID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, letter.StorageKey); err != nil {
		return fmt.Errorf("delete letter object: %w", err)
	}
	return nil
}

// ResumeDeleted removes every letter generated for a deleted resume.
func (s *Service) ResumeDeleted(ctx context.Context, resumeID string) error {
	removed, err := s.Repo.DeleteByResume(ctx, resumeID)
	if err != nil {
		return err
	}
	for _, letter := range removed {
		if err := s.Store.Delete(ctx, letter.StorageKey); err != nil {
			return fmt.Errorf("delete letter object: %w", err)
		}
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
