package domain

import "errors"

var (
	// ErrValidation is the parent of every rejected-input error. Nothing is written.
	ErrValidation = errors.New("validation failed")

	ErrFolderDepth     = newValidationError("folders nest at most two levels deep")
	ErrFolderFanOut    = newValidationError("parent folder has reached its sub-folder limit")
	ErrInvalidName     = newValidationError("folder name must be 1-50 characters")
	ErrUnknownParent   = newValidationError("parent folder does not exist")
	ErrUnknownFolder   = newValidationError("folder does not exist")
	ErrInvalidPlatform = newValidationError("unknown platform")
	ErrInvalidSettings = newValidationError("invalid settings value")

	// ErrInvalidSnapshot rejects an import whose shape does not match the export format.
	ErrInvalidSnapshot = newValidationError("invalid snapshot")

	// ErrQuotaExceeded reports a durable write that would not fit the storage quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrNotHydrated is returned by mutations issued before the first load completed.
	ErrNotHydrated = errors.New("store not hydrated")

	// ErrCancelled reports a bulk action declined at its confirmation step.
	ErrCancelled = errors.New("operation cancelled")
)

// validationError keeps a specific message while matching ErrValidation.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(msg string) error {
	return &validationError{msg: msg}
}
