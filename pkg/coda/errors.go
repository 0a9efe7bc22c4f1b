package coda

import (
	"errors"
	"fmt"
	"net/http"
)

// RequestFailedError is returned when the service answers with a non-2xx status.
// The body is kept verbatim so callers can inspect the service's error message.
type RequestFailedError struct {
	Status int    `json:"status" yaml:"status"`
	Body   string `json:"body"   yaml:"body"`
}

// Error implements the error interface.
func (e *RequestFailedError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}

	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Body)
}

// UnknownResourceTypeError is returned when a JSON object carries a type
// discriminator outside the recognized set.
type UnknownResourceTypeError struct {
	Type string
}

// Error implements the error interface.
func (e *UnknownResourceTypeError) Error() string {
	return fmt.Sprintf("unknown resource type: %q", e.Type)
}

// Static errors for err113 compliance.
var (
	// ErrMalformedResponse is returned when a body cannot be read as the expected structure.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrInvalidPaginationState is the parent of all pagination misuse errors.
	ErrInvalidPaginationState = errors.New("invalid pagination state")

	// ErrNoNextPage is returned by FetchNextPage on the last page.
	ErrNoNextPage = fmt.Errorf("%w: no next page", ErrInvalidPaginationState)

	// ErrNoMoreItems is returned by PageIterator.Next once every page is drained.
	ErrNoMoreItems = fmt.Errorf("%w: no more items", ErrInvalidPaginationState)

	// ErrMissingRequiredOption is returned when mandatory context (client, doc, table) is absent.
	ErrMissingRequiredOption = errors.New("missing required option")

	// ErrUnsupportedFilter is returned when a list filter is not accepted by the endpoint.
	ErrUnsupportedFilter = errors.New("unsupported list filter")

	// ErrForeignPageLink is returned when a continuation link points outside the API base URL.
	ErrForeignPageLink = errors.New("page link does not belong to the API base URL")

	// ErrConfigRequired is returned when no config is supplied.
	ErrConfigRequired = errors.New("config is required")

	// ErrAPITokenRequired is returned when the config carries no API token.
	ErrAPITokenRequired = errors.New("API token is required")

	// ErrInvalidBaseURL is returned when the base URL cannot be parsed.
	ErrInvalidBaseURL = errors.New("invalid base URL")
)

// statusOf extracts the HTTP status from a RequestFailedError anywhere in the chain.
func statusOf(err error) (int, bool) {
	reqErr := &RequestFailedError{}
	if errors.As(err, &reqErr) {
		return reqErr.Status, true
	}

	return 0, false
}

// IsNotFound checks if the error is a 404 from the service.
func IsNotFound(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 from the service.
func IsUnauthorized(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusUnauthorized
}

// IsForbidden checks if the error is a 403 from the service.
func IsForbidden(err error) bool {
	status, ok := statusOf(err)

	return ok && status == http.StatusForbidden
}

// IsUnknownResourceType reports whether err is an UnknownResourceTypeError.
func IsUnknownResourceType(err error) bool {
	typeErr := &UnknownResourceTypeError{}

	return errors.As(err, &typeErr)
}

func missingOption(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingRequiredOption, name)
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}
