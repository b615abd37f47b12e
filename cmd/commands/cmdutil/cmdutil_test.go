package cmdutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/config"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

func setupTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	config.SetPath(path)
	t.Cleanup(config.ResetPath)
	if cfg != nil {
		if err := cfg.Save(); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}
	}
}

func newProviderCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("provider", "", "")
	return cmd
}

func TestResolveProvider_FlagWins(t *testing.T) {
	setupTestConfig(t, &config.Config{DefaultProvider: "vscale"})
	cmd := newProviderCmd()
	_ = cmd.Flags().Set("provider", "other")

	if err := ResolveProvider(cmd, "default-provider", func(c *config.Config) string { return c.DefaultProvider }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cmd.Flag("provider").Value.String(); got != "other" {
		t.Errorf("provider = %q, want %q", got, "other")
	}
}

func TestResolveProvider_FallsBackInOrder(t *testing.T) {
	setupTestConfig(t, &config.Config{DefaultProvider: "vscale"})
	cmd := newProviderCmd()

	err := ResolveProvider(cmd, "dns-provider",
		func(c *config.Config) string { return c.DNSProvider },
		func(c *config.Config) string { return c.DefaultProvider },
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cmd.Flag("provider").Value.String(); got != "vscale" {
		t.Errorf("provider = %q, want %q", got, "vscale")
	}
}

func TestResolveProvider_NothingConfigured(t *testing.T) {
	setupTestConfig(t, nil)
	cmd := newProviderCmd()

	err := ResolveProvider(cmd, "dns-provider", func(c *config.Config) string { return c.DNSProvider })
	if err == nil || !strings.Contains(err.Error(), "vscale config set dns-provider") {
		t.Fatalf("expected hint about dns-provider, got %v", err)
	}
}

func TestConfirm(t *testing.T) {
	cmd := &cobra.Command{Use: "delete"}
	AddYesFlag(cmd)

	_ = cmd.Flags().Set("yes", "true")
	if err := Confirm(cmd, "Delete?", ""); err != nil {
		t.Errorf("expected --yes to skip confirmation, got %v", err)
	}
}

func TestConfirm_NonInteractive(t *testing.T) {
	cmd := &cobra.Command{Use: "delete"}
	AddYesFlag(cmd)
	cmd.SetIn(strings.NewReader(""))

	err := Confirm(cmd, "Delete?", "")
	if err == nil || !strings.Contains(err.Error(), "--yes") {
		t.Fatalf("expected --yes hint, got %v", err)
	}
}

func TestAuditedAndMetadata(t *testing.T) {
	cmd := Audited(newProviderCmd())
	if cmd.Annotations[auditlog.Annotation] != "true" {
		t.Fatalf("expected audit annotation, got %v", cmd.Annotations)
	}

	_ = cmd.Flags().Set("provider", "vscale")
	cmd.SetContext(context.Background())
	SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: "node", ResourceID: "42"})

	want := auditlog.Metadata{Provider: "vscale", ResourceType: "node", ResourceID: "42"}
	if diff := cmp.Diff(want, auditlog.MetadataFromContext(cmd.Context())); diff != "" {
		t.Errorf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList([]string{"1, 2", "", "laptop,", " work "})
	want := []string{"1", "2", "laptop", "work"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("SplitList mismatch (-want +got):\n%s", diff)
	}
}
