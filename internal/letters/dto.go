package letters

import "time"

type letterResponse struct {
	LetterID      string    `json:"letter_id"`
	Filename      string    `json:"filename"`
	FileExtension string    `json:"file_extension"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(l Letter) letterResponse {
	return letterResponse{
		LetterID:      l.LetterID,
		Filename:      l.Filename,
		FileExtension: l.FileExtension,
		CreatedAt:     l.CreatedAt,
	}
}

type generateRequest struct {
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
