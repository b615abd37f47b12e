package auditlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// AuditEntry represents a persisted audit event.
type AuditEntry struct {
	ID           int64     `json:"id" yaml:"id"`
	Timestamp    time.Time `json:"timestamp" yaml:"timestamp"`
	Command      string    `json:"command" yaml:"command"`
	Args         string    `json:"args,omitempty" yaml:"args,omitempty"`
	Provider     string    `json:"provider,omitempty" yaml:"provider,omitempty"`
	ResourceType string    `json:"resource_type,omitempty" yaml:"resource_type,omitempty"`
	ResourceID   string    `json:"resource_id,omitempty" yaml:"resource_id,omitempty"`
	ResourceName string    `json:"resource_name,omitempty" yaml:"resource_name,omitempty"`
	Zone         string    `json:"zone,omitempty" yaml:"zone,omitempty"`
	Outcome      string    `json:"outcome" yaml:"outcome"`
	Detail       string    `json:"detail,omitempty" yaml:"detail,omitempty"`

	// ErrorCode is the vendor error token of a failed API call, e.g.
	// "record_already_exists", or the HTTP status when the API sent none.
	ErrorCode  string `json:"error_code,omitempty" yaml:"error_code,omitempty"`
	DurationMs int64  `json:"duration_ms" yaml:"duration_ms"`
}
