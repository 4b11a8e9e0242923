package letters

import "errors"

var (
	ErrNotFound     = errors.New("letter not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrSamePair     = errors.New("principal and grantee must be distinct resumes")
)
