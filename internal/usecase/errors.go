package usecase

import "errors"

var (
	ErrNotFound     = errors.New("record not found")
	ErrForbidden    = errors.New("access denied")
	ErrInvalidInput = errors.New("invalid input")
)
