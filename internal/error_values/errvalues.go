package errorvalues

import "errors"

var (
	ErrUserExists       = errors.New("user with such email already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("invalid credentials")
	ErrInvalidToken     = errors.New("invalid token")
	ErrUnauthenticated  = errors.New("unauthenticated")

	ErrGoalNotFound    = errors.New("goal not found")
	ErrTaskNotFound    = errors.New("task not found")
	ErrJournalNotFound = errors.New("journal entry not found")

	ErrValidation   = errors.New("validation error")
	ErrStoreFailure = errors.New("store failure")
)

// IsNotFound reports whether err is any of the record-level not found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGoalNotFound) ||
		errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrJournalNotFound) ||
		errors.Is(err, ErrUserNotFound)
}
