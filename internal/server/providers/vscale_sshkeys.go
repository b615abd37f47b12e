package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	sshkeydomain "thebits/vscale/internal/sshkey/domain"
	"thebits/vscale/internal/sshkeys"
)

type vscaleSSHKey struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Key  string `json:"key"`
}

// toDomainKeyPair keeps only the numeric id as Extra. A key the API
// returns but that fails to parse gets an empty fingerprint.
func toDomainKeyPair(k vscaleSSHKey) sshkeydomain.KeyPair {
	fingerprint, _ := sshkeys.Fingerprint(k.Key)
	return sshkeydomain.KeyPair{
		Name:        k.Name,
		PublicKey:   k.Key,
		Fingerprint: fingerprint,
		Extra:       map[string]any{"id": k.ID},
	}
}

// ListKeyPairs returns every SSH key registered with the account.
func (v *VscaleProvider) ListKeyPairs(ctx context.Context) ([]sshkeydomain.KeyPair, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, "/v1/sshkeys", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list SSH keys: %w", err)
	}

	var out []vscaleSSHKey
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to list SSH keys: %w", err)
	}

	keys := make([]sshkeydomain.KeyPair, 0, len(out))
	for _, k := range out {
		keys = append(keys, toDomainKeyPair(k))
	}
	return keys, nil
}

// GetKeyPair scans the full key list for an exact name match; the API has
// no lookup by name.
func (v *VscaleProvider) GetKeyPair(ctx context.Context, name string) (*sshkeydomain.KeyPair, bool, error) {
	keys, err := v.ListKeyPairs(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range keys {
		if keys[i].Name == name {
			return &keys[i], true, nil
		}
	}
	return nil, false, nil
}

// CreateKeyPair uploads publicKey under name.
func (v *VscaleProvider) CreateKeyPair(ctx context.Context, name, publicKey string) (*sshkeydomain.KeyPair, error) {
	publicKey, err := sshkeys.ValidatePublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	body := map[string]string{"name": name, "key": publicKey}
	resp, err := v.conn.Request(ctx, http.MethodPost, "/v1/sshkeys", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSH key %q: %w", name, err)
	}

	var out vscaleSSHKey
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to create SSH key %q: %w", name, err)
	}

	kp := toDomainKeyPair(out)
	return &kp, nil
}

// DeleteKeyPair deletes kp by the numeric id in kp.Extra. It returns true
// only when the API answers 204 No Content.
func (v *VscaleProvider) DeleteKeyPair(ctx context.Context, kp sshkeydomain.KeyPair) (bool, error) {
	id, err := keyPairID(kp)
	if err != nil {
		return false, err
	}

	resp, err := v.conn.Request(ctx, http.MethodDelete, "/v1/sshkeys/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return false, fmt.Errorf("failed to delete SSH key %q: %w", kp.Name, err)
	}
	return resp.NoContent(), nil
}

func keyPairID(kp sshkeydomain.KeyPair) (int64, error) {
	switch id := kp.Extra["id"].(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case float64:
		return int64(id), nil
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("SSH key %q: invalid id %q", kp.Name, id)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("SSH key %q has no provider id", kp.Name)
	}
}
