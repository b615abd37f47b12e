package sshkey

import (
	"fmt"

	"thebits/vscale/internal/output"
	"thebits/vscale/internal/sshkey/domain"
)

func keyTable(keys []domain.KeyPair) output.Table {
	t := output.Table{
		Headers: []string{"ID", "NAME", "FINGERPRINT"},
		Empty:   "No SSH keys found.",
	}
	for _, k := range keys {
		t.Rows = append(t.Rows, []string{keyID(k), k.Name, orDash(k.Fingerprint)})
	}
	return t
}

func keyDetail(k *domain.KeyPair) output.Table {
	return output.Table{
		Vertical: true,
		Rows: [][]string{
			{"ID", keyID(*k)},
			{"Name", k.Name},
			{"Fingerprint", orDash(k.Fingerprint)},
			{"Public Key", k.PublicKey},
		},
	}
}

func keyID(k domain.KeyPair) string {
	if id, ok := k.Extra["id"]; ok {
		return fmt.Sprint(id)
	}
	return "-"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
