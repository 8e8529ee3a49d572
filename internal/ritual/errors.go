package ritual

import "errors"

// Error kinds surfaced to the transport layer. A ritual owned by someone
// else reports ErrNotFound, never a distinct unauthorized error, so callers
// cannot probe for foreign resource existence.
var (
	ErrNotFound               = errors.New("ritual not found")
	ErrRitualInactive         = errors.New("ritual is not active")
	ErrInvalidStepReference   = errors.New("step does not belong to this ritual")
	ErrConflictRetryExhausted = errors.New("concurrent update conflict, retry")

	errVersionConflict = errors.New("version conflict")
)
