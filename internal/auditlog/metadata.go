package auditlog

import (
	"cmp"
	"context"
)

// Resource types recorded by mutating commands.
const (
	ResourceServer      = "server"
	ResourceSSHKey      = "ssh-key"
	ResourceZone        = "dns-zone"
	ResourceRecord      = "dns-record"
	ResourceCredentials = "credentials"
	ResourceConfig      = "config"
)

// ResourceTypes lists every resource type in display order.
var ResourceTypes = []string{
	ResourceServer, ResourceSSHKey, ResourceZone, ResourceRecord, ResourceCredentials, ResourceConfig,
}

// Metadata describes the resource a mutating command acted on. Commands
// attach it in stages: the provider when it is resolved, the resource once
// it has been looked up.
type Metadata struct {
	Provider     string
	ResourceType string
	ResourceID   string
	ResourceName string

	// Zone is the domain owning a dns-record, so record changes can be
	// listed per zone.
	Zone string
}

// over returns m with its empty fields taken from base.
func (m Metadata) over(base Metadata) Metadata {
	return Metadata{
		Provider:     cmp.Or(m.Provider, base.Provider),
		ResourceType: cmp.Or(m.ResourceType, base.ResourceType),
		ResourceID:   cmp.Or(m.ResourceID, base.ResourceID),
		ResourceName: cmp.Or(m.ResourceName, base.ResourceName),
		Zone:         cmp.Or(m.Zone, base.Zone),
	}
}

type metadataKey struct{}

// WithMetadata attaches meta to ctx, keeping fields set by earlier calls
// that meta leaves empty.
func WithMetadata(ctx context.Context, meta Metadata) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, metadataKey{}, meta.over(MetadataFromContext(ctx)))
}

// MetadataFromContext returns the metadata attached to ctx.
func MetadataFromContext(ctx context.Context) Metadata {
	if ctx == nil {
		return Metadata{}
	}
	meta, _ := ctx.Value(metadataKey{}).(Metadata)
	return meta
}
