package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
)

// makeDocx builds a minimal DOCX archive with one paragraph per line.
func makeDocx(t *testing.T, lines ...string) []byte {
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
	return buf.Bytes()
}

func TestTextFromBytesDocxParagraphs(t *testing.T) {
	data := makeDocx(t, "Alice Example", "Senior Engineer at Acme Corp")

	text, err := TextFromBytes(context.Background(), data, mimeDOCX, "cv.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(text, "Alice Example\n") {
		t.Fatalf("expected paragraph boundary newline, got %q", text)
	}
	if !strings.Contains(text, "Acme Corp") {
		t.Fatalf("expected body text, got %q", text)
	}
}

func TestTextFromBytesSniffsDocxFromUnknownMime(t *testing.T) {
	data := makeDocx(t, "hello")

	if _, err := TextFromBytes(context.Background(), data, "application/octet-stream", "cv.docx"); err != nil {
		t.Fatalf("expected docx to extract via extension fallback, got %v", err)
	}
}

func TestTextFromBytesRejectsUnknownType(t *testing.T) {
	_, err := TextFromBytes(context.Background(), []byte("plain text"), "text/plain", "notes.txt")
	if err == nil {
		t.Fatal("expected unsupported mime error")
	}
	if !strings.Contains(err.Error(), "unsupported mime type") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTextFromBytesDocxMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/styles.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	w.Write([]byte("<w:styles/>"))
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	if _, err := TextFromBytes(context.Background(), buf.Bytes(), mimeDOCX, "cv.docx"); err == nil {
		t.Fatal("expected error for archive without document.xml")
	}
}
