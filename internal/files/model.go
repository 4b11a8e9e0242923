package files

import "time"

// Resume is the stored metadata of one uploaded resume. The binary
// lives in the object store under StorageKey.
type Resume struct {
	FileID        string
	Filename      string
	FileExtension string
	MimeType      string
	SizeBytes     int64
	StorageKey    string
	CreatedAt     time.Time
}
