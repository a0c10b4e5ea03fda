package services

import "errors"

// Domain errors returned by the services layer.
// Callers wrap them with context via fmt.Errorf("%w: ...") and classify with errors.Is.
var (
	// ErrUnauthenticated means the session principal has no user record
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound represents a missing user, room, item, membership or claim
	ErrNotFound = errors.New("not found")

	// ErrForbidden represents a failed role or participation check
	ErrForbidden = errors.New("forbidden")

	// ErrValidation represents missing or malformed input
	ErrValidation = errors.New("validation error")

	// ErrLastOwner is returned when an operation would leave a room without an OWNER
	ErrLastOwner = errors.New("room must have at least one owner")

	// ErrConflict represents a uniqueness violation such as a duplicate membership
	ErrConflict = errors.New("conflict")
)

// IsNotFoundError checks if an error is a not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbiddenError checks if an error is a permission error
func IsForbiddenError(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflictError checks if an error is a conflict, including the last-owner rule
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrLastOwner)
}

// IsUnauthenticatedError checks if an error means the caller has no user record
func IsUnauthenticatedError(err error) bool {
	return errors.Is(err, ErrUnauthenticated)
}
