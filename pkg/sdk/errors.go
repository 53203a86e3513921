package transcripts

import "github.com/kailas-cloud/transcripts/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidRequest    = domain.ErrInvalidRequest
	ErrEngineDisabled    = domain.ErrEngineDisabled
	ErrSearchUnavailable = domain.ErrSearchUnavailable
)
