// Package client is the typed HTTP client for the letterdesk API. It is
// the only way the workflow core talks to the backend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"
	"time"

	"letterdesk/internal/selection"
)

// ErrUnsupportedFileType is returned before any request is issued when
// an upload is not a PDF or DOCX file.
var ErrUnsupportedFileType = errors.New("only PDF or DOCX files are allowed")

// Resume is the client-side snapshot of an uploaded resume.
type Resume struct {
	FileID        string    `json:"file_id"`
	Filename      string    `json:"filename"`
	FileExtension string    `json:"file_extension"`
	CreatedAt     time.Time `json:"created_at"`
}

// Letter is the client-side snapshot of a generated letter.
type Letter struct {
	LetterID      string    `json:"letter_id"`
	Filename      string    `json:"filename"`
	FileExtension string    `json:"file_extension"`
	CreatedAt     time.Time `json:"created_at"`
}

// EntitiesPayload is the response of the resume entities endpoint.
type EntitiesPayload struct {
	Entities map[string][]selection.Entity `json:"entities"`
	Selected selection.Selection           `json:"selected"`
}

// Recommendation types accepted by the generation endpoint.
const (
	TypeJob        = "job"
	TypeEnrollment = "enrollment"
	TypeVisa       = "visa"
)

// LetterRequest describes one letter generation request.
type LetterRequest struct {
	PrincipalResumeID  string
	GranteeResumeID    string
	Circumstances      string
	RecommendationType string
	Directives         string
}

// APIError is a decoded error envelope from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

// Client calls the letterdesk REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a client for the given base URL, e.g.
// "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewWithHTTPClient constructs a client with a caller-provided
// http.Client, mainly for tests.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	c := New(baseURL)
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// ListResumes fetches all uploaded resumes.
func (c *Client) ListResumes(ctx context.Context) ([]Resume, error) {
	var out []Resume
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/files/resume", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadResume uploads a resume file. The file type gate runs locally:
// anything that is not a .pdf or .docx is rejected without a request.
func (c *Client) UploadResume(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext != "pdf" && ext != "docx" {
		return "", ErrUnsupportedFileType
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/files/resume", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}

	var payload struct {
		FileID string `json:"file_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	return payload.FileID, nil
}

// DeleteResume deletes a resume and everything derived from it.
func (c *Client) DeleteResume(ctx context.Context, resumeID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/files/resume/"+resumeID, nil, nil)
}

// ResumeEntities fetches the extracted entities and the previously
// saved selection for a resume.
func (c *Client) ResumeEntities(ctx context.Context, resumeID string) (EntitiesPayload, error) {
	var out EntitiesPayload
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/files/resume/"+resumeID+"/entities", nil, &out); err != nil {
		return EntitiesPayload{}, err
	}
	if out.Entities == nil {
		out.Entities = map[string][]selection.Entity{}
	}
	if out.Selected == nil {
		out.Selected = selection.Selection{}
	}
	return out, nil
}

// SaveSelection persists the user's entity selection for a resume.
func (c *Client) SaveSelection(ctx context.Context, resumeID string, sel selection.Selection) error {
	return c.doJSON(ctx, http.MethodPost, "/api/v1/entities/resume/"+resumeID+"/select", sel, nil)
}

// Research runs research over the saved selection of a resume and
// returns per-entity summaries keyed by entity text.
func (c *Client) Research(ctx context.Context, resumeID string) (map[string]string, error) {
	var out struct {
		Data map[string]string `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/research/resume/"+resumeID, nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = map[string]string{}
	}
	return out.Data, nil
}

// GenerateLetter requests a recommendation letter and returns the new
// letter id.
func (c *Client) GenerateLetter(ctx context.Context, req LetterRequest) (string, error) {
	payload := generatePayload{}
	payload.Personalities.Principal.Resume.FileID = req.PrincipalResumeID
	payload.Personalities.Grantee.Resume.FileID = req.GranteeResumeID
	payload.Personalities.Circumstances = req.Circumstances
	payload.Recommendation.Type = req.RecommendationType
	payload.Recommendation.Directives = req.Directives

	var out struct {
		LetterID string `json:"letter_id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/recommendation", payload, &out); err != nil {
		return "", err
	}
	return out.LetterID, nil
}

// LettersForResume lists the letters generated for a grantee resume.
func (c *Client) LettersForResume(ctx context.Context, resumeID string) ([]Letter, error) {
	var out struct {
		Letters []Letter `json:"letters"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/recommendation/resume/"+resumeID+"/letters", nil, &out); err != nil {
		return nil, err
	}
	return out.Letters, nil
}

// DownloadLetter streams the letter document into w and returns the
// number of bytes written.
func (c *Client) DownloadLetter(ctx context.Context, letterID string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/recommendation/letter/"+letterID, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, decodeError(resp)
	}
	return io.Copy(w, resp.Body)
}

// DeleteLetter deletes a generated letter.
func (c *Client) DeleteLetter(ctx context.Context, letterID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/v1/recommendation/letter/"+letterID, nil, nil)
}

type generatePayload struct {
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
		Circumstances string `json:"circumstances,omitempty"`
	} `json:"personalities"`
	Recommendation struct {
		Type       string `json:"type"`
		Directives string `json:"directives,omitempty"`
	} `json:"recommendation"`
}

func (c *Client) doJSON(ctx context.Context, method, route string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+route, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	return apiErr
}
