package entities

import "errors"

var (
	ErrNotFound     = errors.New("entities not found")
	ErrInvalidInput = errors.New("invalid input")
)
