package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed search request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrSearchUnavailable signals that no search source could answer.
	ErrSearchUnavailable = errors.New("search unavailable")
	// ErrEngineDisabled signals that no search engine is configured.
	ErrEngineDisabled = errors.New("search engine disabled")
)
