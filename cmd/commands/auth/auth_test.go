package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"thebits/vscale/internal/auditlog"
	providernames "thebits/vscale/internal/platform/providers/names"
	"thebits/vscale/internal/services/auth"

	"github.com/google/go-cmp/cmp"
)

// useStore swaps the command store for store for the duration of the test.
func useStore(t *testing.T, store auth.Store) {
	t.Helper()
	orig := newStore
	newStore = func() auth.Store { return store }
	t.Cleanup(func() { newStore = orig })
}

func execAuth(t *testing.T, stdin string, args ...string) (stdout string, err error) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return outBuf.String(), err
}

func TestLogin_TokenFlag(t *testing.T) {
	store := auth.NewMockStore()
	useStore(t, store)

	stdout, err := execAuth(t, "", "login", "Vscale", "--token", "  secret-token  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := store.GetToken("vscale"); got != "secret-token" {
		t.Errorf("stored token = %q, want %q", got, "secret-token")
	}
	if !strings.Contains(stdout, "Saved token for provider vscale") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestLogin_ReadsStdin(t *testing.T) {
	store := auth.NewMockStore()
	useStore(t, store)

	if _, err := execAuth(t, "piped-token\n", "login", "vscale"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, _ := store.GetToken("vscale"); got != "piped-token" {
		t.Errorf("stored token = %q, want %q", got, "piped-token")
	}
}

func TestLogin_EmptyToken(t *testing.T) {
	store := auth.NewMockStore()
	useStore(t, store)

	_, err := execAuth(t, "", "login", "vscale")
	if err == nil || !strings.Contains(err.Error(), "token cannot be empty") {
		t.Fatalf("expected empty token error, got %v", err)
	}
	if _, err := store.GetToken("vscale"); !errors.Is(err, auth.ErrTokenNotFound) {
		t.Error("expected nothing to be stored")
	}
}

func TestLogin_UnknownProvider(t *testing.T) {
	useStore(t, auth.NewMockStore())

	_, err := execAuth(t, "", "login", "acme", "--token", "x")
	if err == nil || !strings.Contains(err.Error(), `unknown provider "acme"`) {
		t.Fatalf("expected unknown provider error, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	store := auth.NewMockStore()
	_ = store.SetToken("vscale", "secret")
	useStore(t, store)

	stdout, err := execAuth(t, "", "logout", "vscale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "Removed token") {
		t.Errorf("unexpected output: %s", stdout)
	}

	stdout, err = execAuth(t, "", "logout", "vscale")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "No stored token") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestStatus(t *testing.T) {
	providernames.Reset()
	t.Cleanup(providernames.Reset)
	providernames.Register("vscale")
	providernames.Register("other")

	keychain := auth.NewMockStore()
	_ = keychain.SetToken("vscale", "from-keychain")
	useStore(t, keychain)

	stdout, err := execAuth(t, "", "status")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got:\n%s", stdout)
	}
	if !strings.HasPrefix(lines[1], "other") || !strings.Contains(lines[1], "not logged in") {
		t.Errorf("unexpected row for other: %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "vscale") || !strings.Contains(lines[2], "keychain") {
		t.Errorf("unexpected row for vscale: %q", lines[2])
	}
}

func TestCollectStatus_EnvironmentSource(t *testing.T) {
	env := map[string]string{"VSCALE_TOKEN": "from-env"}
	store := auth.NewEnvStore(auth.NewMockStore(), func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	got := collectStatus(store, []string{"vscale"})
	want := []ProviderStatus{{Provider: "vscale", LoggedIn: true, Source: "VSCALE_TOKEN"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestStatus_JSON(t *testing.T) {
	providernames.Reset()
	t.Cleanup(providernames.Reset)
	providernames.Register("vscale")
	useStore(t, auth.NewMockStore())

	stdout, err := execAuth(t, "", "status", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []ProviderStatus
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if diff := cmp.Diff([]ProviderStatus{{Provider: "vscale"}}, got); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}

func TestLoginAndLogoutAreAudited(t *testing.T) {
	for _, c := range NewCommand().Commands() {
		want := c.Name() != "status"
		if got := c.Annotations[auditlog.Annotation] != ""; got != want {
			t.Errorf("%s: audited = %t, want %t", c.Name(), got, want)
		}
	}
}

func TestStatus_KeychainUnavailable(t *testing.T) {
	providernames.Reset()
	t.Cleanup(providernames.Reset)
	providernames.Register("vscale")

	keychain := auth.NewMockStore()
	keychain.Err = auth.ErrKeychainUnavailable
	useStore(t, keychain)

	stdout, err := execAuth(t, "", "status", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []ProviderStatus
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	want := []ProviderStatus{{Provider: "vscale", Error: auth.ErrKeychainUnavailable.Error()}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("status mismatch (-want +got):\n%s", diff)
	}
}
