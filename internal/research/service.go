package research

import (
	"context"
	"errors"
	"fmt"

	"letterdesk/internal/entities"
)

// ErrNoSelection is returned when research is requested for a resume
// with no saved entity selection.
var ErrNoSelection = errors.New("no entities selected for research")

// Service runs research over a resume's saved selection.
type Service struct {
	Entities   *entities.Service
	Researcher Researcher
}

// Run researches every entity in the saved selection and returns the
// summaries keyed by entity text.
func (s *Service) Run(ctx context.Context, fileID string) (map[string]string, error) {
	sel, err := s.Entities.Selection(ctx, fileID)
	if err != nil {
		return nil, err
	}
	flat := sel.Flatten()
	if len(flat) == 0 {
		return nil, ErrNoSelection
	}

	data, err := s.Researcher.Research(ctx, flat)
	if err != nil {
		return nil, fmt.Errorf("research resume=%s: %w", fileID, err)
	}
	return data, nil
}
