package local

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"letterdesk/internal/shared/storage/object"
)

func TestStoreRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	ctx := context.Background()

	size, mimeType, err := store.Save(ctx, "resume/abc.pdf", strings.NewReader("%PDF-1.4 test body"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len("%PDF-1.4 test body")) {
		t.Fatalf("unexpected size %d", size)
	}
	if mimeType != "application/pdf" {
		t.Fatalf("expected sniffed pdf mime, got %q", mimeType)
	}

	rc, err := store.Open(ctx, "resume/abc.pdf")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 test body" {
		t.Fatalf("unexpected body %q", data)
	}

	if err := store.Delete(ctx, "resume/abc.pdf"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Open(ctx, "resume/abc.pdf"); !errors.Is(err, object.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreDeleteMissingIsNoError(t *testing.T) {
	store := New(t.TempDir())
	if err := store.Delete(context.Background(), "resume/ghost.pdf"); err != nil {
		t.Fatalf("deleting a missing object must not fail, got %v", err)
	}
}

func TestStoreRejectsTraversalKeys(t *testing.T) {
	store := New(t.TempDir())
	if _, _, err := store.Save(context.Background(), "../escape.txt", strings.NewReader("x")); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
	if _, err := store.Open(context.Background(), "a/../../b"); err == nil {
		t.Fatalf("expected traversal key to be rejected")
	}
}
