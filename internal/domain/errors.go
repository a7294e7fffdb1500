package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means no API key is configured. Callers print
	// guidance instead of calling the API.
	ErrMissingCredential = errors.New(CredentialEnvVar + " is not set")
	// ErrEmptyCredential rejects storing an empty API key.
	ErrEmptyCredential = errors.New("api key cannot be empty")
	// ErrInvalidCredential rejects keys that cannot be stored on one line.
	ErrInvalidCredential = errors.New("api key cannot contain line breaks")
	// ErrEmptyCommitMessage is returned when nothing is left to commit after
	// the generated content has been cleaned.
	ErrEmptyCommitMessage = errors.New("generated commit message is empty")
)

// StatusError is returned when the remote service answers with a non-2xx
// status.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Status)
}
