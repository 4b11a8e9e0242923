package files

import "time"

type resumeResponse struct {
	FileID        string    `json:"file_id"`
	Filename      string    `json:"filename"`
	FileExtension string    `json:"file_extension"`
	CreatedAt     time.Time `json:"created_at"`
}

func toResponse(r Resume) resumeResponse {
	return resumeResponse{
		FileID:        r.FileID,
		Filename:      r.Filename,
		FileExtension: r.FileExtension,
		CreatedAt:     r.CreatedAt,
	}
}
