package domain

import "context"

// Provider is the interface compute providers must implement.
type Provider interface {
	// GetDisplayName returns the human-readable provider name (e.g. "Vscale").
	GetDisplayName() string

	ListLocations(ctx context.Context) ([]Location, error)
	ListImages(ctx context.Context) ([]Image, error)

	// ListSizes returns all plans, or only those offered in location when it
	// is non-empty.
	ListSizes(ctx context.Context, location string) ([]Size, error)

	ListNodes(ctx context.Context) ([]Node, error)
	GetNode(ctx context.Context, id string) (*Node, error)
	CreateNode(ctx context.Context, opts CreateNodeOpts) (*Node, error)

	StartNode(ctx context.Context, id string) error
	StopNode(ctx context.Context, id string) error
	RebootNode(ctx context.Context, id string) error
	DestroyNode(ctx context.Context, id string) error
}
