package service

import "errors"

// Sentinel errors mapped to HTTP status codes in the handler layer.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("dependency unavailable")
)
