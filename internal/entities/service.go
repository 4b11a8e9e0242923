package entities

import (
	"context"
	"errors"
	"fmt"

	"letterdesk/internal/files"
)

// Service contains business logic for entity extraction and selection.
type Service struct {
	Repo      Repo
	Files     *files.Service
	Extractor Extractor
}

// ForResume returns the extracted entities plus the previously saved
// selection for a resume. Extraction runs on the first request and is
// cached; subsequent requests serve the cached result.
func (s *Service) ForResume(ctx context.Context, fileID string) (map[string][]Entity, Selection, error) {
	ents, err := s.Repo.GetEntities(ctx, fileID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, nil, err
		}
		ents, err = s.extract(ctx, fileID)
		if err != nil {
			return nil, nil, err
		}
	}

	sel, err := s.Repo.GetSelection(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	return ents, sel, nil
}

// SaveSelection replaces the saved selection for a resume. An empty
// selection is rejected.
func (s *Service) SaveSelection(ctx context.Context, fileID string, sel Selection) error {
	if sel.Count() == 0 {
		return ErrInvalidInput
	}
	if _, err := s.Files.Get(ctx, fileID); err != nil {
		return err
	}
	return s.Repo.SaveSelection(ctx, fileID, sel)
}

// Selection returns the saved selection for a resume.
func (s *Service) Selection(ctx context.Context, fileID string) (Selection, error) {
	if _, err := s.Files.Get(ctx, fileID); err != nil {
		return nil, err
	}
	return s.Repo.GetSelection(ctx, fileID)
}

// ResumeDeleted drops everything derived from a deleted resume.
func (s *Service) ResumeDeleted(ctx context.Context, fileID string) error {
	return s.Repo.DeleteByResume(ctx, fileID)
}

func (s *Service) extract(ctx context.Context, fileID string) (map[string][]Entity, error) {
	text, err := s.Files.Text(ctx, fileID)
	if err != nil {
		return nil, err
	}
	ents, err := s.Extractor.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("extract entities resume=%s: %w", fileID, err)
	}
	if err := s.Repo.SaveEntities(ctx, fileID, ents); err != nil {
		return nil, err
	}
	return ents, nil
}
