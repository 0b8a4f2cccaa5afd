package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrAlreadyExists       = errors.New("already exists")
	ErrProviderFailure     = errors.New("provider failure")
	ErrNotCancelable       = errors.New("not cancelable")
)
