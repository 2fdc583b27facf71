package reversaar

import (
	"errors"
	"fmt"
)

// Sentinel errors for client operations.
var (
	ErrNotAuthenticated  = errors.New("reversaar: not authenticated")
	ErrByteRange         = errors.New("reversaar: byte value out of range [0,255]")
	ErrDecode            = errors.New("reversaar: payload decode failed")
	ErrInvalidDraft      = errors.New("reversaar: draft is not valid")
	ErrWrongKind         = errors.New("reversaar: input does not match form kind")
	ErrIndexOutOfRange   = errors.New("reversaar: index out of range")
	ErrDiscarded         = errors.New("reversaar: view discarded")
	ErrMalformedResponse = errors.New("reversaar: malformed server response")
)

// AuthError is returned when the server rejects login credentials.
type AuthError struct {
	Status string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("could not login (%s)", e.Status)
}

// SubmissionError is returned when the server rejects a write.
type SubmissionError struct {
	Kind   Kind
	Status string
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("error reversing %s (%s)", e.Kind, e.Status)
}

// FetchError is returned when the server cannot serve a kind/index pair.
// Either Status (server refused) or Err (transport failure) is set.
type FetchError struct {
	Kind   Kind
	Index  int
	Status string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("error loading %s %d: %v", e.Kind, e.Index, e.Err)
	}
	return fmt.Sprintf("error loading %s %d (%s)", e.Kind, e.Index, e.Status)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsAuthError checks if err is or wraps an *AuthError.
func IsAuthError(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsSubmissionError checks if err is or wraps a *SubmissionError.
func IsSubmissionError(err error) bool {
	var target *SubmissionError
	return errors.As(err, &target)
}

// IsFetchError checks if err is or wraps a *FetchError.
func IsFetchError(err error) bool {
	var target *FetchError
	return errors.As(err, &target)
}

// IsDecodeError checks if err is a codec decode failure.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}
