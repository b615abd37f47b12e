package domain

import "time"

// NodeState is the lifecycle state of a node, normalised across providers.
type NodeState string

const (
	NodeStatePending   NodeState = "pending"
	NodeStateRunning   NodeState = "running"
	NodeStateStopped   NodeState = "stopped"
	NodeStateSuspended NodeState = "suspended"
	NodeStateUnknown   NodeState = "unknown"
)

// Node represents a virtual server instance.
type Node struct {
	// ID is the provider-assigned identifier. It never changes after creation.
	ID string `json:"id" yaml:"id"`

	Name  string    `json:"name" yaml:"name"`
	State NodeState `json:"state" yaml:"state"`

	PublicIPs  []string `json:"public_ips" yaml:"public_ips"`
	PrivateIPs []string `json:"private_ips" yaml:"private_ips"`

	// CreatedAt is zero when the provider did not report a creation time.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// Image is the image the node was built from, when known.
	Image *Image `json:"image,omitempty" yaml:"image,omitempty"`

	Provider string `json:"provider" yaml:"provider"`

	// Extra holds the provider fields not mapped onto the attributes above.
	Extra map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}
