package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"thebits/vscale/internal/dns/domain"
	shared "thebits/vscale/internal/domain"
	"thebits/vscale/internal/platform/vscale"
	"thebits/vscale/internal/services/auth"
)

// Compile-time check that VscaleProvider satisfies domain.Provider.
var _ domain.Provider = (*VscaleProvider)(nil)

// VscaleProvider implements domain.Provider using the Vscale DNS API.
// Vendor error tokens are translated by the connection into the zone and
// record error kinds of the domain package.
type VscaleProvider struct {
	conn *vscale.Connection
}

// NewVscaleProvider creates a VscaleProvider using conn for all requests.
func NewVscaleProvider(conn *vscale.Connection) *VscaleProvider {
	return &VscaleProvider{conn: conn}
}

// RegisterVscale registers the Vscale provider factory with the DNS registry.
func RegisterVscale(opts ...vscale.Option) {
	Register("vscale", func(store auth.Store) (domain.Provider, error) {
		token, err := store.GetToken(vscale.TokenStoreKey)
		if err != nil {
			return nil, fmt.Errorf("vscale auth: token not found (run 'vscale auth login' or set %s): %w",
				auth.EnvVar(vscale.TokenStoreKey), err)
		}
		return NewVscaleProvider(vscale.NewConnection(token, opts...)), nil
	})
}

// GetDisplayName returns the human-readable provider name.
func (v *VscaleProvider) GetDisplayName() string {
	return "Vscale"
}

// --- API request/response types ---

type vscaleZone struct {
	ID   vscale.ID `json:"id"`
	Name string    `json:"name"`
}

type vscaleRecord struct {
	ID      vscale.ID `json:"id"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	TTL     *int      `json:"ttl"`
	Content string    `json:"content"`
}

// vscaleRecordBody is the request body for creating or replacing a record.
type vscaleRecordBody struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Content string `json:"content"`
	TTL     *int   `json:"ttl,omitempty"`
}

// vscaleMutableZoneFields are the zone fields PATCH accepts. The domain
// name and TTL cannot be changed.
var vscaleMutableZoneFields = []string{"tags"}

func toDomainZone(obj vscale.Object[vscaleZone]) domain.Zone {
	return domain.Zone{
		ID:     obj.Value.ID.String(),
		Domain: obj.Value.Name,
		Type:   domain.ZoneTypeMaster,
		Extra:  shared.ExtraWithout(obj.Raw, "id", "name"),
	}
}

func toDomainRecord(obj vscale.Object[vscaleRecord], zone *domain.Zone) domain.Record {
	return domain.Record{
		ID:    obj.Value.ID.String(),
		Name:  obj.Value.Name,
		Type:  domain.RecordType(obj.Value.Type),
		Data:  obj.Value.Content,
		TTL:   obj.Value.TTL,
		Zone:  zone,
		Extra: shared.ExtraWithout(obj.Raw, "id", "name", "type", "ttl", "content"),
	}
}

func zonePath(zoneID string) string {
	return "/v1/domains/" + url.PathEscape(zoneID)
}

func recordsPath(zoneID string) string {
	return zonePath(zoneID) + "/records/"
}

func recordPath(zoneID, recordID string) string {
	return recordsPath(zoneID) + url.PathEscape(recordID)
}

// --- Zones ---

// ListZones returns every zone in the account.
func (v *VscaleProvider) ListZones(ctx context.Context) ([]domain.Zone, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, "/v1/domains/", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	objs, err := vscale.DecodeList[vscaleZone](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}

	zones := make([]domain.Zone, 0, len(objs))
	for _, obj := range objs {
		zones = append(zones, toDomainZone(obj))
	}
	return zones, nil
}

// GetZone returns a single zone by id.
func (v *VscaleProvider) GetZone(ctx context.Context, id string) (*domain.Zone, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, zonePath(id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone %q: %w", id, err)
	}
	return decodeZone(resp, fmt.Sprintf("failed to get zone %q", id))
}

// CreateZone creates a zone for domainName.
func (v *VscaleProvider) CreateZone(ctx context.Context, domainName string) (*domain.Zone, error) {
	body := map[string]string{"name": domainName}
	resp, err := v.conn.Request(ctx, http.MethodPost, "/v1/domains/", body)
	if err != nil {
		return nil, fmt.Errorf("failed to create zone %q: %w", domainName, err)
	}
	return decodeZone(resp, fmt.Sprintf("failed to create zone %q", domainName))
}

// UpdateZone sends the mutable fields of extra (tags) and returns the zone
// as the API reports it afterwards. With nothing to change the zone is
// returned as given without a request.
func (v *VscaleProvider) UpdateZone(ctx context.Context, zone domain.Zone, domainName string, extra map[string]any) (*domain.Zone, error) {
	if domainName != "" && domainName != zone.Domain {
		return nil, fmt.Errorf("cannot rename zone %q to %q: %w", zone.Domain, domainName, domain.ErrZone)
	}

	body := map[string]any{}
	for _, field := range vscaleMutableZoneFields {
		if value, ok := extra[field]; ok {
			body[field] = value
		}
	}
	if len(body) == 0 {
		return &zone, nil
	}

	resp, err := v.conn.Request(ctx, http.MethodPatch, zonePath(zone.ID), body)
	if err != nil {
		return nil, fmt.Errorf("failed to update zone %q: %w", zone.Domain, err)
	}
	return decodeZone(resp, fmt.Sprintf("failed to update zone %q", zone.Domain))
}

// DeleteZone deletes zone. It returns true only on 204 No Content.
func (v *VscaleProvider) DeleteZone(ctx context.Context, zone domain.Zone) (bool, error) {
	resp, err := v.conn.Request(ctx, http.MethodDelete, zonePath(zone.ID), nil)
	if err != nil {
		return false, fmt.Errorf("failed to delete zone %q: %w", zone.Domain, err)
	}
	return resp.NoContent(), nil
}

func decodeZone(resp *vscale.Response, errPrefix string) (*domain.Zone, error) {
	obj, err := vscale.DecodeObject[vscaleZone](resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}
	zone := toDomainZone(obj)
	return &zone, nil
}

// --- Records ---

// ListRecords returns all records of zone. Each record points back to a
// copy of zone.
func (v *VscaleProvider) ListRecords(ctx context.Context, zone domain.Zone) ([]domain.Record, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, recordsPath(zone.ID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", zone.Domain, err)
	}

	objs, err := vscale.DecodeList[vscaleRecord](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list records for %q: %w", zone.Domain, err)
	}

	owner := &zone
	records := make([]domain.Record, 0, len(objs))
	for _, obj := range objs {
		records = append(records, toDomainRecord(obj, owner))
	}
	return records, nil
}

// GetRecord returns a single record. The zone is not fetched; the record's
// Zone carries only the id and type.
func (v *VscaleProvider) GetRecord(ctx context.Context, zoneID, recordID string) (*domain.Record, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, recordPath(zoneID, recordID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get record %q in zone %q: %w", recordID, zoneID, err)
	}

	zone := &domain.Zone{ID: zoneID, Type: domain.ZoneTypeMaster}
	return decodeRecord(resp, zone, fmt.Sprintf("failed to get record %q in zone %q", recordID, zoneID))
}

// CreateRecord creates a record in zone.
func (v *VscaleProvider) CreateRecord(ctx context.Context, zone domain.Zone, opts domain.CreateRecordOpts) (*domain.Record, error) {
	body := vscaleRecordBody{
		Name:    opts.Name,
		Type:    string(opts.Type),
		Content: opts.Data,
		TTL:     opts.TTL,
	}

	resp, err := v.conn.Request(ctx, http.MethodPost, recordsPath(zone.ID), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s record %q in %q: %w", opts.Type, opts.Name, zone.Domain, err)
	}
	return decodeRecord(resp, &zone, fmt.Sprintf("failed to create record in %q", zone.Domain))
}

// UpdateRecord merges opts into record and replaces the record with PUT.
// Fields not set in opts keep the record's current values.
func (v *VscaleProvider) UpdateRecord(ctx context.Context, record domain.Record, opts domain.UpdateRecordOpts) (*domain.Record, error) {
	if record.Zone == nil || record.Zone.ID == "" {
		return nil, fmt.Errorf("record %q has no zone: %w", record.ID, domain.ErrRecord)
	}

	merged := opts.Merge(record)
	body := vscaleRecordBody{
		Name:    merged.Name,
		Type:    string(merged.Type),
		Content: merged.Data,
		TTL:     merged.TTL,
	}

	resp, err := v.conn.Request(ctx, http.MethodPut, recordPath(record.Zone.ID, record.ID), body)
	if err != nil {
		return nil, fmt.Errorf("failed to update record %q: %w", record.ID, err)
	}
	return decodeRecord(resp, record.Zone, fmt.Sprintf("failed to update record %q", record.ID))
}

// DeleteRecord deletes record. It returns true only on 204 No Content.
func (v *VscaleProvider) DeleteRecord(ctx context.Context, record domain.Record) (bool, error) {
	if record.Zone == nil || record.Zone.ID == "" {
		return false, fmt.Errorf("record %q has no zone: %w", record.ID, domain.ErrRecord)
	}

	resp, err := v.conn.Request(ctx, http.MethodDelete, recordPath(record.Zone.ID, record.ID), nil)
	if err != nil {
		return false, fmt.Errorf("failed to delete record %q: %w", record.ID, err)
	}
	return resp.NoContent(), nil
}

func decodeRecord(resp *vscale.Response, zone *domain.Zone, errPrefix string) (*domain.Record, error) {
	obj, err := vscale.DecodeObject[vscaleRecord](resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errPrefix, err)
	}
	record := toDomainRecord(obj, zone)
	return &record, nil
}
