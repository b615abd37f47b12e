package sshkey

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/sshkeys"

	"github.com/spf13/cobra"
)

func AddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [path]",
		Short: "Upload an SSH public key",
		Long: `Upload a local SSH public key to your account.

Provide a path argument or use --public-key to paste the key directly.
Without either, the default key (~/.ssh/id_ed25519.pub) is used.
When --name is omitted the name is derived from the file name, or from
the hostname for the standard id_* keys.

Examples:
  vscale ssh-key add
  vscale ssh-key add ~/.ssh/work_laptop.pub --name work-laptop
  vscale ssh-key add --public-key "ssh-ed25519 AAAA..." --name laptop`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runAdd,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Name for the SSH key")
	cmd.Flags().String("public-key", "", "Public SSH key content (paste instead of providing a path)")
	cmdutil.AddOutputFlag(cmd)

	return cmdutil.Audited(cmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	provider, err := newProvider(cmd)
	if err != nil {
		return err
	}

	publicKeyProvided := cmd.Flags().Changed("public-key")
	if publicKeyProvided && len(args) > 0 {
		return errors.New("provide a path or --public-key, not both")
	}

	keyName, _ := cmd.Flags().GetString("name")
	keyName = strings.TrimSpace(keyName)

	var publicKey string
	if publicKeyProvided {
		input, _ := cmd.Flags().GetString("public-key")
		if publicKey, err = sshkeys.ValidatePublicKey(input); err != nil {
			return err
		}
		if keyName == "" {
			keyName = sshkeys.DefaultKeyName()
		}
	} else {
		keyPath := sshkeys.DefaultPath()
		if len(args) > 0 {
			keyPath = args[0]
		}
		if publicKey, err = readKeyFile(cmd, keyPath); err != nil {
			return err
		}
		if keyName == "" {
			keyName = sshkeys.SuggestKeyName(keyPath)
		}
	}

	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceSSHKey, ResourceName: keyName})

	fmt.Fprintf(cmd.ErrOrStderr(), "Uploading SSH key %q to %s...", keyName, provider.GetDisplayName())
	kp, err := provider.CreateKeyPair(cmd.Context(), keyName, publicKey)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr())
		return fmt.Errorf("failed to add SSH key: %w", err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), " done")

	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceID: keyID(*kp)})

	return cmdutil.Print(cmd, kp, keyDetail(kp))
}

func readKeyFile(cmd *cobra.Command, path string) (string, error) {
	expanded, err := sshkeys.ExpandHomePath(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(expanded); errors.Is(err, os.ErrNotExist) {
		printCommonSSHKeyPaths(cmd)
		return "", fmt.Errorf("SSH key file not found: %s", expanded)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Reading key from %s\n", expanded)
	return sshkeys.ReadAndValidatePublicKey(expanded)
}

func printCommonSSHKeyPaths(cmd *cobra.Command) {
	fmt.Fprintln(cmd.ErrOrStderr(), "Common SSH key paths:")
	for _, path := range sshkeys.CommonPaths() {
		fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", path)
	}
}
