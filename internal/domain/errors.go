package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	// ErrMissingTarget is returned when the relay is called without a target URL.
	ErrMissingTarget = errors.New("missing target URL")

	// ErrNoBody is returned when a 2xx stream response has no readable body.
	ErrNoBody = errors.New("upstream response has no body")

	// ErrUpstreamHTTP is returned when the upstream answers with a non-2xx status.
	ErrUpstreamHTTP = errors.New("upstream returned an error status")

	// ErrUpstreamMalformed is returned when a 2xx upstream body cannot be used.
	ErrUpstreamMalformed = errors.New("upstream response is malformed")

	// ErrNetworkFailure is returned for transport-level failures.
	ErrNetworkFailure = errors.New("network failure")

	// ErrNotFound is returned when a resolver finds no usable media.
	ErrNotFound = errors.New("media not found")

	// ErrInvalidInput is returned when the user text contains no URL.
	ErrInvalidInput = errors.New("no URL in input")

	// ErrUnknownPlatform is returned for an unsupported platform ID.
	ErrUnknownPlatform = errors.New("unknown platform")

	// ErrNotEntitled is returned when resolution is attempted without entitlement.
	ErrNotEntitled = errors.New("not entitled")

	// ErrDownloadBusy is returned when a download is requested while one is active.
	ErrDownloadBusy = errors.New("download already in progress")

	// ErrDownloadFailed is returned when the relay refuses the download.
	ErrDownloadFailed = errors.New("download failed")

	// ErrDownloadStreamFailure is returned when the body breaks mid-transfer.
	ErrDownloadStreamFailure = errors.New("download interrupted")
)

// UpstreamError carries the status and raw body of a non-2xx upstream response.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d", e.Status)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstreamHTTP
}

// UpstreamMessageError is a not-found result carrying the upstream's own
// explanation (an "error" or "msg" field).
type UpstreamMessageError struct {
	Message string
}

func (e *UpstreamMessageError) Error() string {
	return e.Message
}

func (e *UpstreamMessageError) Unwrap() error {
	return ErrNotFound
}

// SearchErrorKind classifies a failed search for the user.
type SearchErrorKind string

const (
	SearchNotFound      SearchErrorKind = "not_found"
	SearchNetworkError  SearchErrorKind = "network_error"
	SearchNotEntitled   SearchErrorKind = "not_entitled"
	SearchInvalidTarget SearchErrorKind = "invalid_platform"
)

// SearchError is the user-facing outcome of a failed search.
type SearchError struct {
	Kind    SearchErrorKind
	Message string
	Err     error
}

func (e *SearchError) Error() string {
	return e.Message
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// NewSearchError creates a new SearchError.
func NewSearchError(kind SearchErrorKind, message string, err error) *SearchError {
	return &SearchError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}
