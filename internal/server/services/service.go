// Package services provides the compute service layer.
//
// The Service type wraps a domain.Provider, validating create requests and
// turning the provider's fire-and-forget power actions into operations that
// can optionally block until the node reaches the expected state.
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"thebits/vscale/internal/retry"
	"thebits/vscale/internal/server/domain"

	"github.com/go-playground/validator/v10"
)

// PollInterval is the delay between successive node status requests.
// Exported as a variable so tests can override it for speed.
var PollInterval = 3 * time.Second

// WaitTimeout caps how long WaitForState polls before giving up.
var WaitTimeout = 5 * time.Minute

// MaxTransientErrors is the number of consecutive failed status requests
// tolerated before WaitForState gives up.
var MaxTransientErrors = 3

// Service is the compute business logic layer.
type Service struct {
	provider domain.Provider
	validate *validator.Validate
}

// New returns a Service backed by the given provider.
func New(provider domain.Provider) *Service {
	return &Service{
		provider: provider,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Provider returns the underlying provider.
func (s *Service) Provider() domain.Provider {
	return s.provider
}

func (s *Service) ListLocations(ctx context.Context) ([]domain.Location, error) {
	return s.provider.ListLocations(ctx)
}

func (s *Service) ListImages(ctx context.Context) ([]domain.Image, error) {
	return s.provider.ListImages(ctx)
}

func (s *Service) ListSizes(ctx context.Context, location string) ([]domain.Size, error) {
	return s.provider.ListSizes(ctx, strings.TrimSpace(location))
}

func (s *Service) ListNodes(ctx context.Context) ([]domain.Node, error) {
	return s.provider.ListNodes(ctx)
}

// GetNode returns a node by id.
func (s *Service) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	return s.provider.GetNode(ctx, id)
}

// ValidateCreateOpts checks opts against the field rules of CreateNodeOpts
// and returns a single error naming every failing field.
func (s *Service) ValidateCreateOpts(opts domain.CreateNodeOpts) error {
	err := s.validate.Struct(opts)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid node options: %s", strings.Join(msgs, "; "))
}

// CreateNode validates opts and creates the node.
func (s *Service) CreateNode(ctx context.Context, opts domain.CreateNodeOpts) (*domain.Node, error) {
	opts.Name = strings.TrimSpace(opts.Name)
	opts.Image = strings.TrimSpace(opts.Image)
	opts.Size = strings.TrimSpace(opts.Size)
	opts.Location = strings.TrimSpace(opts.Location)

	if err := s.ValidateCreateOpts(opts); err != nil {
		return nil, err
	}
	return s.provider.CreateNode(ctx, opts)
}

// StartNode powers a node on.
func (s *Service) StartNode(ctx context.Context, id string) error {
	return s.action(ctx, id, s.provider.StartNode)
}

// StopNode powers a node off.
func (s *Service) StopNode(ctx context.Context, id string) error {
	return s.action(ctx, id, s.provider.StopNode)
}

// RebootNode restarts a node.
func (s *Service) RebootNode(ctx context.Context, id string) error {
	return s.action(ctx, id, s.provider.RebootNode)
}

// DestroyNode deletes a node.
func (s *Service) DestroyNode(ctx context.Context, id string) error {
	return s.action(ctx, id, s.provider.DestroyNode)
}

func (s *Service) action(ctx context.Context, id string, fn func(context.Context, string) error) error {
	id, err := requireID(id)
	if err != nil {
		return err
	}
	return fn(ctx, id)
}

// WaitForState polls GetNode until the node reports target. Status changes
// are written to w (typically cmd.ErrOrStderr()).
//
// Rate-limit responses stop polling immediately. Other transient failures
// are tolerated up to MaxTransientErrors in a row.
func (s *Service) WaitForState(ctx context.Context, id string, target domain.NodeState, w io.Writer) (*domain.Node, error) {
	id, err := requireID(id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = io.Discard
	}

	var (
		node              *domain.Node
		lastState         domain.NodeState
		consecutiveErrors int
	)

	err = retry.Poll(ctx, PollInterval, WaitTimeout, func(ctx context.Context) (bool, error) {
		n, err := s.provider.GetNode(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrRateLimited) {
				return false, retry.Permanent(fmt.Errorf("polling stopped: %w", err))
			}
			consecutiveErrors++
			if consecutiveErrors >= MaxTransientErrors {
				return false, retry.Permanent(fmt.Errorf("error polling node status (after %d consecutive failures): %w", consecutiveErrors, err))
			}
			fmt.Fprintf(w, "  Transient error, retrying... (%d/%d)\n", consecutiveErrors, MaxTransientErrors)
			return false, nil
		}
		consecutiveErrors = 0

		if n == nil {
			return false, retry.Permanent(fmt.Errorf("node %q disappeared while polling", id))
		}
		node = n

		if n.State == target {
			return true, nil
		}
		if n.State != lastState {
			fmt.Fprintf(w, "  Status: %s\n", n.State)
			lastState = n.State
		}
		return false, nil
	})
	if errors.Is(err, retry.ErrPollTimeout) {
		return node, fmt.Errorf("timed out waiting for node %s to reach %q status: %w", id, target, err)
	}
	if err != nil {
		return node, err
	}
	return node, nil
}

func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("node ID is required")
	}
	return id, nil
}

var fieldLabels = map[string]string{
	"Name":      "name",
	"Image":     "image",
	"Size":      "size",
	"SSHKeyIDs": "ssh key id",
}

func fieldMessage(fe validator.FieldError) string {
	field, _, _ := strings.Cut(fe.StructField(), "[")
	label, ok := fieldLabels[field]
	if !ok {
		label = strings.ToLower(field)
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "hostname_rfc1123":
		return fmt.Sprintf("%s %q is not a valid hostname", label, fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be a positive number, got %v", label, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", label, fe.Tag())
	}
}
