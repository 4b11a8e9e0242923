package letters

import "time"

// Letter is the stored metadata of one generated recommendation
// letter, associated with the grantee resume it was generated for.
type Letter struct {
	LetterID      string
	ResumeID      string
	Filename      string
	FileExtension string
	SizeBytes     int64
	StorageKey    string
	CreatedAt     time.Time
}

// Recommendation types accepted by the generation endpoint.
const (
	TypeJob        = "job"
	TypeEnrollment = "enrollment"
	TypeVisa       = "visa"
)

// ValidType reports whether t is a known recommendation type.
func ValidType(t string) bool {
	switch t {
	case TypeJob, TypeEnrollment, TypeVisa:
		return true
	}
	return false
}
