package models

import "errors"

// Error kinds returned by the store. Every store error wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	ErrValidation = errors.New("invalid input")
	ErrNotFound   = errors.New("not found")
	ErrStorage    = errors.New("storage failure")
)
