package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"letterdesk/internal/client"
	"letterdesk/internal/selection"
)

func TestUploadResumeRejectsUnsupportedTypeLocally(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.UploadResume(context.Background(), "notes.txt", strings.NewReader("hello"))
	if !errors.Is(err, client.ErrUnsupportedFileType) {
		t.Fatalf("expected ErrUnsupportedFileType, got %v", err)
	}
	if requests != 0 {
		t.Fatalf("rejected upload must not reach the server, got %d requests", requests)
	}
}

func TestUploadResumeSendsMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/files/resume" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "cv.pdf" {
			t.Errorf("unexpected filename %q", header.Filename)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"file_id": "f1"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	fileID, err := c.UploadResume(context.Background(), "cv.pdf", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if fileID != "f1" {
		t.Fatalf("expected file id f1, got %q", fileID)
	}
}

func TestResumeEntitiesDefaultsEmptyMaps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	payload, err := c.ResumeEntities(context.Background(), "f1")
	if err != nil {
		t.Fatalf("entities: %v", err)
	}
	if payload.Entities == nil || payload.Selected == nil {
		t.Fatalf("missing fields must decode to empty maps, got %+v", payload)
	}
}

func TestGenerateLetterBuildsNestedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Personalities struct {
				Principal struct {
					Resume struct {
						FileID string `json:"file_id"`
					} `json:"resume"`
				} `json:"principal"`
				Grantee struct {
					Resume struct {
						FileID string `json:"file_id"`
					} `json:"resume"`
				} `json:"grantee"`
				Circumstances string `json:"circumstances"`
			} `json:"personalities"`
			Recommendation struct {
				Type       string `json:"type"`
				Directives string `json:"directives"`
			} `json:"recommendation"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body.Personalities.Principal.Resume.FileID != "p1" ||
			body.Personalities.Grantee.Resume.FileID != "g1" ||
			body.Recommendation.Type != client.TypeJob {
			t.Errorf("unexpected payload %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"letter_id": "l1"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	letterID, err := c.GenerateLetter(context.Background(), client.LetterRequest{
		PrincipalResumeID:  "p1",
		GranteeResumeID:    "g1",
		Circumstances:      "colleagues",
		RecommendationType: client.TypeJob,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if letterID != "l1" {
		t.Fatalf("expected letter id l1, got %q", letterID)
	}
}

func TestDecodeErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"code":    "validation_error",
				"message": "Entity list cannot be empty.",
			},
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	err := c.SaveSelection(context.Background(), "f1", selection.Selection{})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "Entity list cannot be empty." {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestDownloadLetterStreamsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/recommendation/letter/l1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte("PK\x03\x04letter-bytes"))
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	var out strings.Builder
	n, err := c.DownloadLetter(context.Background(), "l1", &out)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if n != int64(out.Len()) || !strings.HasPrefix(out.String(), "PK") {
		t.Fatalf("unexpected download result n=%d body=%q", n, out.String())
	}
}
