// Package services provides the DNS service layer.
//
// The Service type wraps a domain.Provider and adds input normalisation,
// validation, and default value application before delegating to the provider.
// CLI commands construct a Service from a resolved provider and call service
// methods rather than calling the provider directly.
package services

import (
	"context"
	"fmt"
	"strings"

	"thebits/vscale/internal/dns/domain"
	shared "thebits/vscale/internal/domain"
)

// Service is the DNS business logic layer. It sits between CLI commands and
// the provider, applying normalisation and validation to all inputs.
type Service struct {
	provider domain.Provider
}

// New returns a Service backed by the given provider.
func New(provider domain.Provider) *Service {
	return &Service{provider: provider}
}

// ListZones returns all zones in the provider account.
func (s *Service) ListZones(ctx context.Context) ([]domain.Zone, error) {
	return s.provider.ListZones(ctx)
}

// GetZone returns a zone by id.
func (s *Service) GetZone(ctx context.Context, id string) (*domain.Zone, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("zone ID is required")
	}
	return s.provider.GetZone(ctx, id)
}

// ResolveZone finds a zone by id or by domain name. Domain names are
// matched against the zone list; anything else is treated as an id.
func (s *Service) ResolveZone(ctx context.Context, ref string) (*domain.Zone, error) {
	ref = normalizeDomain(ref)
	if ref == "" {
		return nil, fmt.Errorf("zone is required")
	}
	if !strings.Contains(ref, ".") {
		return s.provider.GetZone(ctx, ref)
	}

	zones, err := s.provider.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	for i := range zones {
		if normalizeDomain(zones[i].Domain) == ref {
			return &zones[i], nil
		}
	}
	return nil, fmt.Errorf("zone %q: %w", ref, domain.ErrZoneDoesNotExist)
}

// CreateZone creates a zone for the normalised domain name.
func (s *Service) CreateZone(ctx context.Context, domainName string) (*domain.Zone, error) {
	domainName = normalizeDomain(domainName)
	if domainName == "" {
		return nil, fmt.Errorf("domain name is required")
	}
	if !strings.Contains(domainName, ".") {
		return nil, fmt.Errorf("domain name %q must contain a dot", domainName)
	}
	return s.provider.CreateZone(ctx, domainName)
}

// DeleteZone deletes zone and reports whether the provider confirmed it.
func (s *Service) DeleteZone(ctx context.Context, zone domain.Zone) (bool, error) {
	return s.provider.DeleteZone(ctx, zone)
}

// TagZone replaces the tags attached to zone.
func (s *Service) TagZone(ctx context.Context, zone domain.Zone, tagIDs []int) (*domain.Zone, error) {
	for _, id := range tagIDs {
		if id <= 0 {
			return nil, fmt.Errorf("invalid tag ID %d", id)
		}
	}
	if tagIDs == nil {
		tagIDs = []int{}
	}
	return s.provider.UpdateZone(ctx, zone, zone.Domain, map[string]any{"tags": tagIDs})
}

// ListRecords returns all DNS records of zone.
func (s *Service) ListRecords(ctx context.Context, zone domain.Zone) ([]domain.Record, error) {
	return s.provider.ListRecords(ctx, zone)
}

// GetRecord returns a single DNS record by zone and record ID.
func (s *Service) GetRecord(ctx context.Context, zoneID, recordID string) (*domain.Record, error) {
	if strings.TrimSpace(zoneID) == "" {
		return nil, fmt.Errorf("zone ID is required")
	}
	if strings.TrimSpace(recordID) == "" {
		return nil, fmt.Errorf("record ID is required")
	}
	return s.provider.GetRecord(ctx, zoneID, recordID)
}

// CreateRecord creates a new DNS record after normalising and validating opts.
func (s *Service) CreateRecord(ctx context.Context, zone domain.Zone, opts domain.CreateRecordOpts) (*domain.Record, error) {
	opts.Type = domain.RecordType(strings.ToUpper(string(opts.Type)))
	if err := validateRecordType(opts.Type); err != nil {
		return nil, err
	}
	if err := validateContent(opts.Type, opts.Data); err != nil {
		return nil, err
	}
	if err := validateTTL(opts.TTL); err != nil {
		return nil, err
	}

	if opts.TTL == nil {
		ttl := DefaultTTL
		opts.TTL = &ttl
	}
	opts.Name = qualifyName(opts.Name, zone.Domain)

	return s.provider.CreateRecord(ctx, zone, opts)
}

// UpdateRecord validates the fields set in opts against the merged record
// and delegates to the provider.
func (s *Service) UpdateRecord(ctx context.Context, record domain.Record, opts domain.UpdateRecordOpts) (*domain.Record, error) {
	if record.ID == "" {
		return nil, fmt.Errorf("record ID is required")
	}

	if t, ok := opts.Type.Get(); ok {
		t = domain.RecordType(strings.ToUpper(string(t)))
		if err := validateRecordType(t); err != nil {
			return nil, err
		}
		opts.Type = shared.Set(t)
	}
	if name, ok := opts.Name.Get(); ok && record.Zone != nil && record.Zone.Domain != "" {
		opts.Name = shared.Set(qualifyName(name, record.Zone.Domain))
	}
	if ttl, ok := opts.TTL.Get(); ok {
		if err := validateTTL(ttl); err != nil {
			return nil, err
		}
	}

	merged := opts.Merge(record)
	if opts.Type.IsSet() || opts.Data.IsSet() {
		if err := validateContent(merged.Type, merged.Data); err != nil {
			return nil, err
		}
	}

	return s.provider.UpdateRecord(ctx, record, opts)
}

// DeleteRecord deletes record and reports whether the provider confirmed it.
func (s *Service) DeleteRecord(ctx context.Context, record domain.Record) (bool, error) {
	if record.ID == "" {
		return false, fmt.Errorf("record ID is required")
	}
	return s.provider.DeleteRecord(ctx, record)
}
