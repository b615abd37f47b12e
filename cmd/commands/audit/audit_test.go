package audit

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/database"

	"github.com/google/go-cmp/cmp"
)

// setupTestDB points the audit log at a temp database seeded with entries.
func setupTestDB(t *testing.T, entries ...auditlog.AuditEntry) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vscale.db")
	database.SetPath(path)
	t.Cleanup(database.ResetPath)

	repo, err := auditlog.OpenAt(path)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	defer repo.Close()
	for i := range entries {
		if err := repo.Save(&entries[i]); err != nil {
			t.Fatalf("failed to save entry: %v", err)
		}
	}
}

func execAudit(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return outBuf.String(), err
}

func testEntries() []auditlog.AuditEntry {
	now := time.Now().UTC()
	return []auditlog.AuditEntry{
		{
			Timestamp:    now.Add(-48 * time.Hour),
			Command:      "vscale server create",
			Provider:     "vscale",
			ResourceType: "server",
			ResourceID:   "1001",
			ResourceName: "web-1",
			Outcome:      auditlog.OutcomeSuccess,
			DurationMs:   1500,
		},
		{
			Timestamp:    now.Add(-time.Minute),
			Command:      "vscale dns zone delete",
			Provider:     "vscale",
			ResourceType: auditlog.ResourceZone,
			ResourceName: "cloudsea.ru",
			Outcome:      auditlog.OutcomeError,
			Detail:       "zone does not exist: domain_not_found (http 404)",
			ErrorCode:    "domain_not_found",
			DurationMs:   80,
		},
		{
			Timestamp:    now.Add(-30 * time.Second),
			Command:      "vscale dns record create",
			Provider:     "vscale",
			ResourceType: auditlog.ResourceRecord,
			ResourceName: "api.example.com",
			Zone:         "example.com",
			Outcome:      auditlog.OutcomeError,
			Detail:       "record error: cname_record_conflict (http 400)",
			ErrorCode:    "cname_record_conflict",
			DurationMs:   95,
		},
	}
}

func TestList_Table(t *testing.T) {
	setupTestDB(t, testEntries()...)

	stdout, err := execAudit(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{
		"COMMAND", "OUTCOME",
		"vscale server create", "success", "1.5s", "server:1001 (web-1)",
		"vscale dns zone delete", "error", "80ms", "domain_not_found",
		"ERROR", "dns-record (api.example.com) in example.com", "cname_record_conflict",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestList_FilterJSON(t *testing.T) {
	setupTestDB(t, testEntries()...)

	stdout, err := execAudit(t, "list", "--command", "vscale server create", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var entries []auditlog.AuditEntry
	if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(entries) != 1 || entries[0].ResourceID != "1001" {
		t.Errorf("unexpected entries: %+v", entries)
	}
}

func TestList_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"resource type", []string{"--resource", "dns-zone"}, []string{"vscale dns zone delete"}},
		{"zone", []string{"--zone", "Example.com."}, []string{"vscale dns record create"}},
		{"error token", []string{"--error-code", "domain_not_found"}, []string{"vscale dns zone delete"}},
		{"outcome", []string{"--outcome", "success"}, []string{"vscale server create"}},
		{"since", []string{"--since", "1h"}, []string{"vscale dns record create", "vscale dns zone delete"}},
		{"provider and resource id", []string{"--provider", "vscale", "--resource-id", "1001"}, []string{"vscale server create"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupTestDB(t, testEntries()...)

			stdout, err := execAudit(t, append([]string{"list", "-o", "json"}, tt.args...)...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var entries []auditlog.AuditEntry
			if err := json.Unmarshal([]byte(stdout), &entries); err != nil {
				t.Fatalf("invalid JSON: %v\n%s", err, stdout)
			}
			got := make([]string, len(entries))
			for i, e := range entries {
				got[i] = e.Command
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestList_InvalidFilters(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--resource", "droplet"}, `unknown resource type "droplet"`},
		{[]string{"--outcome", "maybe"}, "outcome must be"},
		{[]string{"--since", "soon"}, "invalid --since"},
	}
	for _, tt := range tests {
		setupTestDB(t)
		_, err := execAudit(t, append([]string{"list"}, tt.args...)...)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("list %v: expected error containing %q, got %v", tt.args, tt.want, err)
		}
	}
}

func TestList_Empty(t *testing.T) {
	setupTestDB(t)

	stdout, err := execAudit(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No audit entries found.") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestList_InvalidLimit(t *testing.T) {
	setupTestDB(t)

	if _, err := execAudit(t, "list", "--limit", "0"); err == nil {
		t.Fatal("expected error for zero limit")
	}
}

func TestPrune(t *testing.T) {
	setupTestDB(t, testEntries()...)

	stdout, err := execAudit(t, "prune", "--older-than", "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Removed 1 audit entry.") {
		t.Errorf("unexpected output: %s", stdout)
	}

	stdout, _ = execAudit(t, "list")
	if strings.Contains(stdout, "vscale server create") {
		t.Errorf("expected old entry to be pruned:\n%s", stdout)
	}
}

func TestPrune_RequiresDuration(t *testing.T) {
	setupTestDB(t)

	_, err := execAudit(t, "prune")
	if err == nil || !strings.Contains(err.Error(), "--older-than is required") {
		t.Fatalf("expected missing flag error, got %v", err)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30d", 30 * 24 * time.Hour, false},
		{"72h", 72 * time.Hour, false},
		{"90m", 90 * time.Minute, false},
		{"-1d", 0, true},
		{"xd", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseDuration(%q) error = %v, wantErr %t", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatResource(t *testing.T) {
	tests := []struct {
		entry auditlog.AuditEntry
		want  string
	}{
		{auditlog.AuditEntry{}, "-"},
		{auditlog.AuditEntry{ResourceID: "7"}, "7"},
		{auditlog.AuditEntry{ResourceName: "laptop"}, "laptop"},
		{auditlog.AuditEntry{ResourceType: "ssh-key", ResourceID: "7", ResourceName: "laptop"}, "ssh-key:7 (laptop)"},
		{auditlog.AuditEntry{ResourceType: "dns-record", ResourceID: "3", Zone: "cloudsea.ru"}, "dns-record:3 in cloudsea.ru"},
		{auditlog.AuditEntry{ResourceType: "dns-zone", ResourceName: "cloudsea.ru", Zone: "cloudsea.ru"}, "dns-zone (cloudsea.ru)"},
		{auditlog.AuditEntry{Zone: "cloudsea.ru"}, "cloudsea.ru"},
	}
	for _, tt := range tests {
		if got := formatResource(tt.entry); got != tt.want {
			t.Errorf("formatResource(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}
