package domain

import "context"

// Provider is the interface that DNS providers must implement.
// It covers zone management and full DNS record CRUD.
type Provider interface {
	// GetDisplayName returns the human-readable provider name (e.g. "Vscale").
	GetDisplayName() string

	ListZones(ctx context.Context) ([]Zone, error)
	GetZone(ctx context.Context, id string) (*Zone, error)
	CreateZone(ctx context.Context, domain string) (*Zone, error)

	// UpdateZone changes the mutable provider fields of a zone (for Vscale,
	// its tags). A domain different from zone.Domain is rejected with ErrZone.
	UpdateZone(ctx context.Context, zone Zone, domain string, extra map[string]any) (*Zone, error)

	// DeleteZone reports whether the provider confirmed the deletion.
	DeleteZone(ctx context.Context, zone Zone) (bool, error)

	ListRecords(ctx context.Context, zone Zone) ([]Record, error)
	GetRecord(ctx context.Context, zoneID, recordID string) (*Record, error)
	CreateRecord(ctx context.Context, zone Zone, opts CreateRecordOpts) (*Record, error)

	// UpdateRecord merges opts into record and writes the full result back.
	UpdateRecord(ctx context.Context, record Record, opts UpdateRecordOpts) (*Record, error)

	// DeleteRecord reports whether the provider confirmed the deletion.
	DeleteRecord(ctx context.Context, record Record) (bool, error)
}
