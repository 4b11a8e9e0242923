package files

import "errors"

var (
	ErrNotFound     = errors.New("resume not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrFileType     = errors.New("invalid file type, only pdf and docx are allowed")
	ErrTooLarge     = errors.New("file exceeds the maximum allowed size")
)
