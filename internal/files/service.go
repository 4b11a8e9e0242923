package files

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"letterdesk/internal/extract"
	"letterdesk/internal/shared/storage/object"
)

// resumeNamespace is the UUIDv5 namespace for content-addressed file
// ids; uploading identical bytes always yields the same id.
var resumeNamespace = uuid.MustParse("8f2a4f9e-64da-5a1b-9c07-2f6e6f1d4b11")

// Cleanup lets dependent stores react when a resume is deleted.
// Entities and letters services implement it.
type Cleanup interface {
	ResumeDeleted(ctx context.Context, fileID string) error
}

// Service contains business logic for resume files.
type Service struct {
	Store    object.ObjectStore
	Repo     Repo
	MaxBytes int64
	Cleanups []Cleanup
}

// Upload validates and stores a resume. Returns the stored record plus
// whether it was newly created; re-uploading identical content returns
// the existing record.
func (s *Service) Upload(ctx context.Context, fileName string, content []byte) (Resume, bool, error) {
	if strings.TrimSpace(fileName) == "" {
		return Resume{}, false, ErrInvalidInput
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if ext != "pdf" && ext != "docx" {
		return Resume{}, false, ErrFileType
	}
	if s.MaxBytes > 0 && int64(len(content)) > s.MaxBytes {
		return Resume{}, false, ErrTooLarge
	}
	if len(content) == 0 {
		return Resume{}, false, ErrInvalidInput
	}

	fileID := uuid.NewSHA1(resumeNamespace, content).String()
	if existing, err := s.Repo.Get(ctx, fileID); err == nil {
		return existing, false, nil
	}

	storageKey := "resume/" + fileID + "." + ext
	size, mimeType, err := s.Store.Save(ctx, storageKey, bytes.NewReader(content))
	if err != nil {
		return Resume{}, false, fmt.Errorf("store resume: %w", err)
	}

	resume := Resume{
		FileID:        fileID,
		Filename:      strings.TrimSuffix(path.Base(fileName), path.Ext(fileName)),
		FileExtension: ext,
		MimeType:      mimeType,
		SizeBytes:     size,
		StorageKey:    storageKey,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, resume); err != nil {
		return Resume{}, false, err
	}
	return resume, true, nil
}

// List returns all stored resumes.
func (s *Service) List(ctx context.Context) ([]Resume, error) {
	return s.Repo.List(ctx)
}

// Get returns one resume's metadata.
func (s *Service) Get(ctx context.Context, fileID string) (Resume, error) {
	return s.Repo.Get(ctx, fileID)
}

// Open returns a resume's metadata together with its binary stream.
func (s *Service) Open(ctx context.Context, fileID string) (Resume, io.ReadCloser, error) {
	resume, err := s.Repo.Get(ctx, fileID)
	if err != nil {
		return Resume{}, nil, err
	}
	body, err := s.Store.Open(ctx, resume.StorageKey)
	if err != nil {
		return Resume{}, nil, fmt.Errorf("open resume object: %w", err)
	}
	return resume, body, nil
}

// Text extracts the plain text of a stored resume.
func (s *Service) Text(ctx context.Context, fileID string) (string, error) {
	resume, body, err := s.Open(ctx, fileID)
	if err != nil {
		return "", err
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read resume object: %w", err)
	}
	text, err := extract.TextFromBytes(ctx, raw, resume.MimeType, resume.Filename+"."+resume.FileExtension)
	if err != nil {
		return "", fmt.Errorf("extract resume text id=%s: %w", fileID, err)
	}
	return text, nil
}

// Delete removes the resume, its stored binary, and everything derived
// from it (entities, selection, letters) via the registered cleanups.
func (s *Service) Delete(ctx context.Context, fileID string) error {
	resume, err := s.Repo.Get(ctx, fileID)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, fileID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, resume.StorageKey); err != nil {
		return fmt.Errorf("delete resume object: %w", err)
	}
	for _, cleanup := range s.Cleanups {
		if err := cleanup.ResumeDeleted(ctx, fileID); err != nil {
			return fmt.Errorf("cascade delete resume=%s: %w", fileID, err)
		}
	}
	return nil
}
