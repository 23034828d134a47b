package domain

import "errors"

var (
	// ErrInvalidArgument is the kind of every business validation failure
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound is returned by repository lookups that match nothing
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a unique field is already taken
	ErrAlreadyExists = errors.New("already exists")
)

// ArgumentError carries the human readable reason a call was rejected
type ArgumentError struct {
	Message string
}

func (e *ArgumentError) Error() string {
	return e.Message
}

func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// InvalidArgument returns an ArgumentError with the given message
func InvalidArgument(msg string) error {
	return &ArgumentError{Message: msg}
}
