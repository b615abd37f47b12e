package domain

import "thebits/vscale/internal/domain"

// Re-export shared sentinel errors so DNS callers do not need to import
// the cross-domain package directly.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = domain.ErrNotFound

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = domain.ErrUnauthorized

	// ErrRateLimited indicates the provider throttled the request.
	ErrRateLimited = domain.ErrRateLimited

	// ErrConflict indicates a state or uniqueness conflict.
	ErrConflict = domain.ErrConflict
)

// DNS error categories. The narrower kinds also match their broader
// categories with errors.Is, so a missing zone satisfies ErrZone and
// ErrNotFound as well as ErrZoneDoesNotExist.
var (
	// ErrZone is a zone-level error with no narrower category.
	ErrZone = domain.NewKind("zone error")

	// ErrRecord is a record-level error with no narrower category.
	ErrRecord = domain.NewKind("record error")

	ErrZoneDoesNotExist    = domain.NewKind("zone does not exist", ErrZone, domain.ErrNotFound)
	ErrRecordDoesNotExist  = domain.NewKind("record does not exist", ErrRecord, domain.ErrNotFound)
	ErrRecordAlreadyExists = domain.NewKind("record already exists", ErrRecord, domain.ErrConflict)
)
