package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrOutOfStock         = errors.New("no copies available")
	ErrDuplicateISBN      = errors.New("book with this ISBN already exists")
	ErrDuplicateRequest   = errors.New("pending request already exists")
	ErrAlreadyIssued      = errors.New("book already issued to member")
	ErrAlreadyPaid        = errors.New("fine already paid")
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrIntegrity marks an invariant breach (e.g. a release that would push
	// available_copies past total_copies). Logged distinctly, never repaired.
	ErrIntegrity = errors.New("integrity violation")
)

// IsConflict reports whether err is one of the expected, caller-recoverable
// conflict kinds.
func IsConflict(err error) bool {
	return errors.Is(err, ErrOutOfStock) ||
		errors.Is(err, ErrDuplicateISBN) ||
		errors.Is(err, ErrDuplicateRequest) ||
		errors.Is(err, ErrAlreadyIssued) ||
		errors.Is(err, ErrAlreadyPaid) ||
		errors.Is(err, ErrDuplicateEmail)
}
