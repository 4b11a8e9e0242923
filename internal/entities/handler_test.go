package entities_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"letterdesk/internal/bootstrap"
	"letterdesk/internal/shared/config"
)

func buildApp(t *testing.T) *bootstrap.App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		Port:            "0",
		CORSAllowOrigin: []string{"http://localhost:5173"},
		LocalStoreDir:   t.TempDir(),
		ObjectStoreType: "local",
		LLMProvider:     "offline",
		MaxUploadMB:     10,
		Env:             "dev",
	}
	app, err := bootstrap.Build(cfg)
	if err != nil {
		t.Fatalf("bootstrap build: %v", err)
	}
	return app
}

func uploadDocx(t *testing.T, router *gin.Engine, lines ...string) string {
	t.Helper()
	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, line := range lines {
		doc.WriteString(`<w:p><w:r><w:t>` + line + `</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(doc.String())); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "cv.docx")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(buf.Bytes())
	if err := writer.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/files/resume", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var out struct {
		FileID string `json:"file_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	return out.FileID
}

func postJSON(t *testing.T, router *gin.Engine, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestSelectRoundTrip(t *testing.T) {
	app := buildApp(t)
	fileID := uploadDocx(t, app.Router, "Alice", "Skills: Go, Docker")

	sel := map[string]any{
		"skill": []map[string]string{
			{"label": "skill", "text": "Go"},
			{"label": "skill", "text": "Docker"},
		},
	}
	resp := postJSON(t, app.Router, "/api/v1/entities/resume/"+fileID+"/select", sel)
	if resp.Code != http.StatusOK {
		t.Fatalf("select: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Entities selected.") {
		t.Fatalf("unexpected select body %s", resp.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entities/resume/"+fileID+"/selected", nil)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("selected: expected 200, got %d", rec.Code)
	}
	var out struct {
		Data map[string][]struct {
			Text string `json:"text"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode selected: %v", err)
	}
	if len(out.Data["skill"]) != 2 || out.Data["skill"][0].Text != "Go" {
		t.Fatalf("selection order must survive the round trip, got %v", out.Data)
	}
}

func TestSelectRejectsEmptySelection(t *testing.T) {
	app := buildApp(t)
	fileID := uploadDocx(t, app.Router, "Alice", "Skills: Go")

	resp := postJSON(t, app.Router, "/api/v1/entities/resume/"+fileID+"/select", map[string]any{})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Entity list cannot be empty.") {
		t.Fatalf("unexpected error body %s", resp.Body.String())
	}
}

func TestSelectUnknownResume(t *testing.T) {
	app := buildApp(t)

	sel := map[string]any{"skill": []map[string]string{{"label": "skill", "text": "Go"}}}
	resp := postJSON(t, app.Router, "/api/v1/entities/resume/missing/select", sel)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestEntitiesExtractionIsCached(t *testing.T) {
	app := buildApp(t)
	fileID := uploadDocx(t, app.Router, "Alice", "Skills: Go")

	fetch := func() string {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/files/resume/"+fileID+"/entities", nil)
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("entities fetch: expected 200, got %d", rec.Code)
		}
		var out struct {
			Entities map[string]json.RawMessage `json:"entities"`
		}
		if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
			t.Fatalf("decode entities: %v", err)
		}
		return string(out.Entities["skill"])
	}

	if fetch() != fetch() {
		t.Fatalf("cached extraction must be stable across fetches")
	}
}
