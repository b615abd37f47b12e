package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	shared "thebits/vscale/internal/domain"
	"thebits/vscale/internal/platform/vscale"
	"thebits/vscale/internal/server/domain"
)

// vscaleTimeLayout is the scalet "created" format, e.g. "20.03.2021 05:25:10".
const vscaleTimeLayout = "02.01.2006 15:04:05"

// vscaleNodeStates maps scalet statuses to node states. Anything else is
// NodeStateUnknown.
var vscaleNodeStates = map[string]domain.NodeState{
	"started": domain.NodeStateRunning,
	"stopped": domain.NodeStateStopped,
	"billing": domain.NodeStateSuspended,
	"queued":  domain.NodeStatePending,
}

type vscaleAddress struct {
	Address string `json:"address"`
}

type vscaleScalet struct {
	CTID           vscale.ID      `json:"ctid"`
	Name           string         `json:"name"`
	Status         string         `json:"status"`
	Created        string         `json:"created"`
	MadeFrom       string         `json:"made_from"`
	PublicAddress  *vscaleAddress `json:"public_address"`
	PrivateAddress *vscaleAddress `json:"private_address"`
}

// vscaleScaletMapped lists the scalet fields that become Node attributes.
var vscaleScaletMapped = []string{
	"ctid", "name", "status", "created", "made_from", "public_address", "private_address",
}

type vscaleCreateScaletRequest struct {
	MakeFrom string  `json:"make_from"`
	RPlan    string  `json:"rplan"`
	DoStart  bool    `json:"do_start"`
	Name     string  `json:"name"`
	Keys     []int64 `json:"keys,omitempty"`
	Password string  `json:"password,omitempty"`
	Location string  `json:"location,omitempty"`
}

func nodeState(status string) domain.NodeState {
	if state, ok := vscaleNodeStates[status]; ok {
		return state
	}
	return domain.NodeStateUnknown
}

func toDomainNode(obj vscale.Object[vscaleScalet]) (domain.Node, error) {
	s := obj.Value

	node := domain.Node{
		ID:         s.CTID.String(),
		Name:       s.Name,
		State:      nodeState(s.Status),
		PublicIPs:  []string{},
		PrivateIPs: []string{},
		Provider:   vscaleProviderName,
		Extra:      shared.ExtraWithout(obj.Raw, vscaleScaletMapped...),
	}
	if s.PublicAddress != nil && s.PublicAddress.Address != "" {
		node.PublicIPs = append(node.PublicIPs, s.PublicAddress.Address)
	}
	if s.PrivateAddress != nil && s.PrivateAddress.Address != "" {
		node.PrivateIPs = append(node.PrivateIPs, s.PrivateAddress.Address)
	}
	if s.Created != "" {
		created, err := time.Parse(vscaleTimeLayout, s.Created)
		if err != nil {
			return domain.Node{}, fmt.Errorf("scalet %s: invalid created time %q: %w", node.ID, s.Created, err)
		}
		node.CreatedAt = created
	}
	// Vscale only exposes the image id; it stands in for the name too.
	if s.MadeFrom != "" {
		node.Image = &domain.Image{ID: s.MadeFrom, Name: s.MadeFrom}
	}

	return node, nil
}

// ListNodes returns all scalets in the account.
func (v *VscaleProvider) ListNodes(ctx context.Context) ([]domain.Node, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, "/v1/scalets", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	objs, err := vscale.DecodeList[vscaleScalet](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	nodes := make([]domain.Node, 0, len(objs))
	for _, obj := range objs {
		node, err := toDomainNode(obj)
		if err != nil {
			return nil, fmt.Errorf("failed to list nodes: %w", err)
		}
		nodes = append(nodes, node)
	}

	return nodes, nil
}

// GetNode returns a single scalet by its ctid.
func (v *VscaleProvider) GetNode(ctx context.Context, id string) (*domain.Node, error) {
	if id == "" {
		return nil, fmt.Errorf("node ID is required")
	}

	resp, err := v.conn.Request(ctx, http.MethodGet, "/v1/scalets/"+escape(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get node %s: %w", id, err)
	}

	return decodeNode(resp, fmt.Sprintf("failed to get node %s", id))
}

// CreateNode creates a scalet. The node is started unless
// opts.StartAfterCreate is explicitly false.
func (v *VscaleProvider) CreateNode(ctx context.Context, opts domain.CreateNodeOpts) (*domain.Node, error) {
	req := vscaleCreateScaletRequest{
		MakeFrom: opts.Image,
		RPlan:    opts.Size,
		DoStart:  opts.StartAfterCreate == nil || *opts.StartAfterCreate,
		Name:     opts.Name,
		Keys:     opts.SSHKeyIDs,
		Password: opts.Password,
		Location: opts.Location,
	}

	resp, err := v.conn.Request(ctx, http.MethodPost, "/v1/scalets", req)
	if err != nil {
		return nil, fmt.Errorf("failed to create node %q: %w", opts.Name, err)
	}

	node, err := decodeNode(resp, fmt.Sprintf("failed to create node %q", opts.Name))
	if err != nil {
		return nil, err
	}
	if node.Image == nil {
		node.Image = &domain.Image{ID: opts.Image, Name: opts.Image}
	}
	return node, nil
}

// StartNode powers on a stopped scalet.
func (v *VscaleProvider) StartNode(ctx context.Context, id string) error {
	return v.scaletAction(ctx, id, "start")
}

// StopNode powers off a scalet.
func (v *VscaleProvider) StopNode(ctx context.Context, id string) error {
	return v.scaletAction(ctx, id, "stop")
}

// RebootNode restarts a scalet.
func (v *VscaleProvider) RebootNode(ctx context.Context, id string) error {
	return v.scaletAction(ctx, id, "restart")
}

// DestroyNode deletes a scalet. Vscale answers with the deleted scalet and
// a 200, so any 2xx counts as success.
func (v *VscaleProvider) DestroyNode(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("node ID is required")
	}
	if _, err := v.conn.Request(ctx, http.MethodDelete, "/v1/scalets/"+escape(id), nil); err != nil {
		return fmt.Errorf("failed to destroy node %s: %w", id, err)
	}
	return nil
}

func (v *VscaleProvider) scaletAction(ctx context.Context, id, action string) error {
	if id == "" {
		return fmt.Errorf("node ID is required")
	}
	path := fmt.Sprintf("/v1/scalets/%s/%s", escape(id), action)
	if _, err := v.conn.Request(ctx, http.MethodPatch, path, map[string]string{"id": id}); err != nil {
		return fmt.Errorf("failed to %s node %s: %w", action, id, err)
	}
	return nil
}

func decodeNode(resp *vscale.Response, errPrefix string) (*domain.Node, error) {
	obj, err := vscale.DecodeObject[vscaleScalet](resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}
	node, err := toDomainNode(obj)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}
	return &node, nil
}
