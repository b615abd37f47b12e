package auditlog

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"thebits/vscale/internal/domain"
)

// Annotation marks a cobra command as mutating. Commands carrying it are
// written to the audit log when they finish.
const Annotation = "audit"

// NewEntry builds the audit entry for a finished command. Resource details
// come from metadata attached to ctx with WithMetadata; args are sanitized.
func NewEntry(ctx context.Context, command string, args []string, start time.Time, err error) *AuditEntry {
	meta := MetadataFromContext(ctx)
	entry := &AuditEntry{
		Timestamp:    start.UTC(),
		Command:      command,
		Args:         strings.Join(SanitizeArgs(args), " "),
		Provider:     meta.Provider,
		ResourceType: meta.ResourceType,
		ResourceID:   meta.ResourceID,
		ResourceName: meta.ResourceName,
		Zone:         meta.Zone,
		DurationMs:   time.Since(start).Milliseconds(),
		Outcome:      OutcomeSuccess,
	}
	if err != nil {
		entry.Outcome = OutcomeError
		entry.Detail = err.Error()
		entry.ErrorCode = ErrorCode(err)
	}
	return entry
}

// ErrorCode returns the vendor error token carried by err, "http_<status>"
// for an API error without one, and "" for errors that never reached the API.
func ErrorCode(err error) string {
	var perr *domain.ProviderError
	if !errors.As(err, &perr) {
		return ""
	}
	if perr.Code != "" {
		return perr.Code
	}
	return "http_" + strconv.Itoa(perr.StatusCode)
}

// Record saves a best-effort entry for a finished command. Errors opening the
// repository or saving the entry are returned for the caller to log; they
// must never fail the command itself.
func Record(ctx context.Context, command string, args []string, start time.Time, cmdErr error) error {
	repo, err := Open()
	if err != nil {
		return err
	}
	defer repo.Close()

	return repo.Save(NewEntry(ctx, command, args, start, cmdErr))
}
