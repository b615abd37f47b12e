package server

import (
	"context"
	"fmt"
	"strconv"

	"thebits/vscale/cmd/commands/cmdutil"
	"thebits/vscale/internal/auditlog"
	"thebits/vscale/internal/config"
	"thebits/vscale/internal/server/domain"
	"thebits/vscale/internal/services/auth"
	sshkeyproviders "thebits/vscale/internal/sshkey/providers"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new server",
		Long: `Create a new server from an image and a plan.

SSH keys may be given by numeric ID or by name. When --location is omitted
the default-location config key is used, and the provider picks one when
that is unset too.

Examples:
  vscale server create --name web-1 --image ubuntu_22.04_64_001_master --size small
  vscale server create --name web-1 --image ubuntu_22.04_64_001_master --size small \
      --location spb0 --ssh-key laptop --wait`,
		Args:         cobra.NoArgs,
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Server name (RFC 1123 hostname) [required]")
	cmd.Flags().String("image", "", "Image ID to build from [required]")
	cmd.Flags().String("size", "", "Plan ID [required]")
	cmd.Flags().String("location", "", "Location to create the server in")
	cmd.Flags().StringSlice("ssh-key", nil, "SSH key ID or name to install (repeatable)")
	cmd.Flags().String("password", "", "Root password")
	cmd.Flags().Bool("no-start", false, "Create the server without starting it")
	cmd.Flags().Bool("wait", false, "Wait until the server is running")
	cmdutil.AddOutputFlag(cmd)

	return cmdutil.Audited(cmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd)
	if err != nil {
		return err
	}

	opts, err := buildCreateOpts(cmd)
	if err != nil {
		return err
	}
	if err := svc.ValidateCreateOpts(opts); err != nil {
		return err
	}

	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceType: auditlog.ResourceServer, ResourceName: opts.Name})

	fmt.Fprintf(cmd.ErrOrStderr(), "Creating server %q...\n", opts.Name)
	node, err := svc.CreateNode(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	cmdutil.SetAuditMetadata(cmd, auditlog.Metadata{ResourceID: node.ID})

	if wait, _ := cmd.Flags().GetBool("wait"); wait {
		fmt.Fprintf(cmd.ErrOrStderr(), "Waiting for server %s to start...\n", node.ID)
		ready, err := svc.WaitForState(cmd.Context(), node.ID, domain.NodeStateRunning, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if ready.Image == nil {
			ready.Image = node.Image
		}
		node = ready
	}

	return cmdutil.Print(cmd, node, nodeDetail(node))
}

func buildCreateOpts(cmd *cobra.Command) (domain.CreateNodeOpts, error) {
	name, _ := cmd.Flags().GetString("name")
	image, _ := cmd.Flags().GetString("image")
	size, _ := cmd.Flags().GetString("size")
	location, _ := cmd.Flags().GetString("location")
	password, _ := cmd.Flags().GetString("password")
	keyRefs, _ := cmd.Flags().GetStringSlice("ssh-key")
	noStart, _ := cmd.Flags().GetBool("no-start")

	if location == "" {
		cfg, err := config.Load()
		if err != nil {
			return domain.CreateNodeOpts{}, fmt.Errorf("failed to load config: %w", err)
		}
		location = cfg.DefaultLocation
	}

	keyIDs, err := resolveKeyIDs(cmd.Context(), cmd.Flag("provider").Value.String(), cmdutil.SplitList(keyRefs))
	if err != nil {
		return domain.CreateNodeOpts{}, err
	}

	opts := domain.CreateNodeOpts{
		Name:      name,
		Image:     image,
		Size:      size,
		Location:  location,
		SSHKeyIDs: keyIDs,
		Password:  password,
	}
	if noStart {
		start := false
		opts.StartAfterCreate = &start
	}
	return opts, nil
}

// resolveKeyIDs turns SSH key references into provider key IDs. Numeric
// references are used as-is; anything else is looked up by name.
func resolveKeyIDs(ctx context.Context, providerName string, refs []string) ([]int64, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(refs))
	var names []string
	for _, ref := range refs {
		if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
			ids = append(ids, id)
			continue
		}
		names = append(names, ref)
	}
	if len(names) == 0 {
		return ids, nil
	}

	keys, err := sshkeyproviders.Get(providerName, auth.DefaultStore())
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		kp, found, err := keys.GetKeyPair(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to look up SSH key %q: %w", name, err)
		}
		if !found {
			return nil, fmt.Errorf("SSH key %q not found", name)
		}
		id, ok := kp.Extra["id"].(int64)
		if !ok {
			return nil, fmt.Errorf("SSH key %q has no numeric ID", name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
