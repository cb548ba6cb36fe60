package services

import "errors"

// Domain errors. Controllers map them to HTTP status codes with errors.Is;
// anything else is reported as an opaque 500.
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("bad request")
	ErrUnprocessable = errors.New("unprocessable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrUpstream      = errors.New("ai service error")
)
