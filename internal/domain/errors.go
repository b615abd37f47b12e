package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for cross-provider error classification.
// Providers should wrap these so the CLI can handle error categories
// uniformly without importing provider-specific packages.
//
//	return fmt.Errorf("failed to delete server: %w", domain.ErrNotFound)
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrUnauthorized indicates the request was rejected due to
	// invalid, expired, or missing credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = errors.New("rate limited")

	// ErrConflict indicates a state or uniqueness conflict, such as
	// a duplicate zone or a record that already exists.
	ErrConflict = errors.New("conflict")
)

// ProviderError is returned when a provider API rejects a request.
//
// Kind is the error category the response was classified into (one of the
// sentinels above, or a resource-specific kind such as a missing zone). It is
// nil for errors the provider reported but that carry no recognised category,
// in which case callers can still inspect StatusCode and Code.
type ProviderError struct {
	// StatusCode is the HTTP status returned by the provider.
	StatusCode int

	// Code is the provider's machine-readable error token, e.g. "domain_not_found".
	Code string

	// Message is a human-readable description, when the provider sent one.
	Message string

	// Kind is the classified error category. May be nil.
	Kind error
}

func (e *ProviderError) Error() string {
	msg := e.Code
	if msg == "" {
		msg = e.Message
	}
	if msg == "" {
		msg = "provider error"
	}
	if e.Kind != nil {
		return fmt.Sprintf("%s: %s (http %d)", e.Kind, msg, e.StatusCode)
	}
	return fmt.Sprintf("%s (http %d)", msg, e.StatusCode)
}

// Unwrap exposes Kind so callers can use errors.Is against the sentinels.
func (e *ProviderError) Unwrap() error {
	return e.Kind
}

// Kind is an error category that also matches one or more broader
// categories with errors.Is. For example a missing zone is both a zone
// error and a not-found error.
type Kind struct {
	msg     string
	parents []error
}

// NewKind returns an error category named msg that matches each of parents.
func NewKind(msg string, parents ...error) *Kind {
	return &Kind{msg: msg, parents: parents}
}

func (k *Kind) Error() string { return k.msg }

// Unwrap returns the broader categories this kind belongs to.
func (k *Kind) Unwrap() []error { return k.parents }
