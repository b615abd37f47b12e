package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"thebits/vscale/internal/dns/domain"
	shared "thebits/vscale/internal/domain"
	"thebits/vscale/internal/platform/vscale"
	"thebits/vscale/internal/services/auth"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// --- Test helpers ---

type vscaleCall struct {
	Method string
	Path   string
	Body   map[string]any
}

type vscaleRoute struct {
	status int
	body   any
}

// newTestVscaleDNS starts a fake Vscale API serving routes keyed by
// "METHOD /path". Unrouted requests get a 500.
func newTestVscaleDNS(t *testing.T, routes map[string]vscaleRoute) (*VscaleProvider, *[]vscaleCall) {
	t.Helper()
	var calls []vscaleCall

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call := vscaleCall{Method: r.Method, Path: r.URL.Path}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &call.Body)
		}
		calls = append(calls, call)

		route, ok := routes[r.Method+" "+r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(route.status)
		if route.body != nil {
			_ = json.NewEncoder(w).Encode(route.body)
		}
	}))
	t.Cleanup(srv.Close)

	return NewVscaleProvider(vscale.NewConnection("test-token", vscale.WithBaseURL(srv.URL))), &calls
}

func testZoneJSON() map[string]any {
	return map[string]any{
		"id":          68155,
		"name":        "cloudsea.ru",
		"user_id":     15872,
		"tags":        []any{},
		"change_date": 1648384912,
		"create_date": 1648384912,
	}
}

func testZoneExtra() map[string]any {
	return map[string]any{
		"user_id":     float64(15872),
		"tags":        []any{},
		"change_date": float64(1648384912),
		"create_date": float64(1648384912),
	}
}

func testRecordJSON(id int, name, typ, content string, ttl int) map[string]any {
	return map[string]any{
		"id":      id,
		"name":    name,
		"type":    typ,
		"ttl":     ttl,
		"content": content,
	}
}

func testZone() domain.Zone {
	return domain.Zone{ID: "68155", Domain: "cloudsea.ru", Type: domain.ZoneTypeMaster, Extra: testZoneExtra()}
}

func vscaleError(status int, token string) vscaleRoute {
	return vscaleRoute{status: status, body: map[string]any{"error": token}}
}

func ttl(n int) *int { return &n }

// --- Zones ---

func TestVscaleListZones_Empty(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/": {status: http.StatusOK, body: []any{}},
	})

	zones, err := provider.ListZones(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if zones == nil || len(zones) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", zones)
	}
}

func TestVscaleListZones_ExtraHasUnmappedFieldsOnly(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/": {status: http.StatusOK, body: []any{testZoneJSON()}},
	})

	zones, err := provider.ListZones(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []domain.Zone{testZone()}
	if diff := cmp.Diff(want, zones); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}
	for _, key := range []string{"id", "name"} {
		if _, ok := zones[0].Extra[key]; ok {
			t.Errorf("extra should not duplicate mapped key %q", key)
		}
	}
}

func TestVscaleListZones_Unauthorized(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/": {status: http.StatusForbidden, body: map[string]any{"error": "invalid_token"}},
	})

	_, err := provider.ListZones(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVscaleCreateZone(t *testing.T) {
	provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
		"POST /v1/domains/": {status: http.StatusCreated, body: testZoneJSON()},
	})

	zone, err := provider.CreateZone(context.Background(), "cloudsea.ru")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if diff := cmp.Diff(testZone(), *zone); diff != "" {
		t.Errorf("zone mismatch (-want +got):\n%s", diff)
	}
	if zone.TTL != nil {
		t.Errorf("TTL = %v, want nil", *zone.TTL)
	}
	if diff := cmp.Diff(map[string]any{"name": "cloudsea.ru"}, (*calls)[0].Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestVscaleCreateZone_AlreadyExists(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"POST /v1/domains/": vscaleError(http.StatusConflict, "domain_already_exists"),
	})

	_, err := provider.CreateZone(context.Background(), "example.com")

	var perr *shared.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %v", err)
	}
	if perr.StatusCode != http.StatusConflict || perr.Code != "domain_already_exists" {
		t.Errorf("ProviderError = %+v", perr)
	}
	if perr.Kind != nil {
		t.Errorf("expected generic error, got kind %v", perr.Kind)
	}
}

func TestVscaleGetZone(t *testing.T) {
	provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/68155": {status: http.StatusOK, body: testZoneJSON()},
	})

	zone, err := provider.GetZone(context.Background(), "68155")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff(testZone(), *zone); diff != "" {
		t.Errorf("zone mismatch (-want +got):\n%s", diff)
	}
	if (*calls)[0].Path != "/v1/domains/68155" {
		t.Errorf("path = %q", (*calls)[0].Path)
	}
}

func TestVscaleGetZone_NotFound(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/example.com": vscaleError(http.StatusNotFound, "domain_not_found"),
	})

	_, err := provider.GetZone(context.Background(), "example.com")
	if !errors.Is(err, domain.ErrZoneDoesNotExist) {
		t.Fatalf("expected ErrZoneDoesNotExist, got %v", err)
	}

	var perr *shared.ProviderError
	if !errors.As(err, &perr) || perr.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 ProviderError, got %v", err)
	}
}

func TestVscaleDeleteZone(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"no content", http.StatusNoContent, true},
		{"ok", http.StatusOK, false},
		{"accepted", http.StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
				"DELETE /v1/domains/68155": {status: tt.status},
			})

			got, err := provider.DeleteZone(context.Background(), testZone())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("DeleteZone() = %t, want %t", got, tt.want)
			}
		})
	}
}

func TestVscaleDeleteZone_NotFound(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"DELETE /v1/domains/123": vscaleError(http.StatusNotFound, "domain_not_found"),
	})

	zone := domain.Zone{ID: "123", Domain: "example.com", Type: domain.ZoneTypeMaster}
	_, err := provider.DeleteZone(context.Background(), zone)

	if !errors.Is(err, domain.ErrZoneDoesNotExist) {
		t.Fatalf("expected ErrZoneDoesNotExist, got %v", err)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound as well, got %v", err)
	}
	var perr *shared.ProviderError
	if !errors.As(err, &perr) || perr.Code != "domain_not_found" {
		t.Errorf("expected token domain_not_found, got %v", err)
	}
}

func TestVscaleUpdateZone_SendsTagsOnly(t *testing.T) {
	updated := testZoneJSON()
	updated["tags"] = []any{7}
	provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
		"PATCH /v1/domains/68155": {status: http.StatusOK, body: updated},
	})

	zone, err := provider.UpdateZone(context.Background(), testZone(), "cloudsea.ru", map[string]any{
		"tags":    []int{7},
		"user_id": 1,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if diff := cmp.Diff(map[string]any{"tags": []any{float64(7)}}, (*calls)[0].Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{float64(7)}, zone.Extra["tags"]); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestVscaleUpdateZone_RejectsRename(t *testing.T) {
	provider, calls := newTestVscaleDNS(t, nil)

	_, err := provider.UpdateZone(context.Background(), testZone(), "other.ru", nil)
	if !errors.Is(err, domain.ErrZone) {
		t.Fatalf("expected ErrZone, got %v", err)
	}
	if len(*calls) != 0 {
		t.Errorf("expected no request, got %d", len(*calls))
	}
}

func TestVscaleUpdateZone_NothingToChange(t *testing.T) {
	provider, calls := newTestVscaleDNS(t, nil)

	zone, err := provider.UpdateZone(context.Background(), testZone(), "", map[string]any{"ttl": 60})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if diff := cmp.Diff(testZone(), *zone); diff != "" {
		t.Errorf("zone mismatch (-want +got):\n%s", diff)
	}
	if len(*calls) != 0 {
		t.Errorf("expected no request, got %d", len(*calls))
	}
}

func TestVscaleUpdateZone_UnknownTag(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"PATCH /v1/domains/68155": vscaleError(http.StatusNotFound, "tag_not_found"),
	})

	_, err := provider.UpdateZone(context.Background(), testZone(), "", map[string]any{"tags": []int{999}})
	if !errors.Is(err, domain.ErrZone) {
		t.Fatalf("expected ErrZone, got %v", err)
	}
	if errors.Is(err, domain.ErrZoneDoesNotExist) {
		t.Error("tag_not_found should not mean the zone is missing")
	}
}

// --- Records ---

func TestVscaleListRecords(t *testing.T) {
	provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/68155/records/": {status: http.StatusOK, body: []any{
			testRecordJSON(1, "cloudsea.ru", "A", "95.213.191.120", 86400),
			testRecordJSON(2, "www.cloudsea.ru", "CNAME", "cloudsea.ru", 3600),
			map[string]any{"id": 3, "name": "cloudsea.ru", "type": "MX", "content": "mx.cloudsea.ru", "priority": 10},
		}},
	})

	zone := testZone()
	records, err := provider.ListRecords(context.Background(), zone)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if (*calls)[0].Path != "/v1/domains/68155/records/" {
		t.Errorf("path = %q", (*calls)[0].Path)
	}

	want := []domain.Record{
		{ID: "1", Name: "cloudsea.ru", Type: domain.RecordTypeA, Data: "95.213.191.120", TTL: ttl(86400), Extra: map[string]any{}},
		{ID: "2", Name: "www.cloudsea.ru", Type: domain.RecordTypeCNAME, Data: "cloudsea.ru", TTL: ttl(3600), Extra: map[string]any{}},
		{ID: "3", Name: "cloudsea.ru", Type: domain.RecordTypeMX, Data: "mx.cloudsea.ru", Extra: map[string]any{"priority": float64(10)}},
	}
	if diff := cmp.Diff(want, records, cmpopts.IgnoreFields(domain.Record{}, "Zone")); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
	for _, r := range records {
		if r.Zone == nil || r.Zone.ID != "68155" {
			t.Errorf("record %s: zone = %+v, want owning zone", r.ID, r.Zone)
		}
	}
}

func TestVscaleGetRecord(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/68155/records/1": {status: http.StatusOK, body: testRecordJSON(1, "cloudsea.ru", "A", "1.2.3.4", 300)},
	})

	record, err := provider.GetRecord(context.Background(), "68155", "1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if record.ID != "1" || record.Data != "1.2.3.4" {
		t.Errorf("record = %+v", record)
	}
	want := &domain.Zone{ID: "68155", Type: domain.ZoneTypeMaster}
	if diff := cmp.Diff(want, record.Zone); diff != "" {
		t.Errorf("zone mismatch (-want +got):\n%s", diff)
	}
}

func TestVscaleGetRecord_NotFound(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"GET /v1/domains/68155/records/9": vscaleError(http.StatusNotFound, "record_not_found"),
	})

	_, err := provider.GetRecord(context.Background(), "68155", "9")
	if !errors.Is(err, domain.ErrRecordDoesNotExist) {
		t.Fatalf("expected ErrRecordDoesNotExist, got %v", err)
	}
}

func TestVscaleCreateRecord(t *testing.T) {
	provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
		"POST /v1/domains/68155/records/": {status: http.StatusCreated, body: testRecordJSON(5, "www.cloudsea.ru", "A", "1.2.3.4", 600)},
	})

	zone := testZone()
	record, err := provider.CreateRecord(context.Background(), zone, domain.CreateRecordOpts{
		Name: "www.cloudsea.ru",
		Type: domain.RecordTypeA,
		Data: "1.2.3.4",
		TTL:  ttl(600),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantBody := map[string]any{"name": "www.cloudsea.ru", "type": "A", "content": "1.2.3.4", "ttl": float64(600)}
	if diff := cmp.Diff(wantBody, (*calls)[0].Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if record.ID != "5" || record.Zone == nil || record.Zone.Domain != "cloudsea.ru" {
		t.Errorf("record = %+v", record)
	}
}

func TestVscaleCreateRecord_AlreadyExists(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"POST /v1/domains/68155/records/": vscaleError(http.StatusConflict, "record_already_exists"),
	})

	_, err := provider.CreateRecord(context.Background(), testZone(), domain.CreateRecordOpts{
		Name: "cloudsea.ru", Type: domain.RecordTypeA, Data: "1.2.3.4",
	})
	if !errors.Is(err, domain.ErrRecordAlreadyExists) {
		t.Fatalf("expected ErrRecordAlreadyExists, got %v", err)
	}
	var perr *shared.ProviderError
	if !errors.As(err, &perr) || perr.Code != "record_already_exists" {
		t.Errorf("expected token record_already_exists, got %v", err)
	}
}

func TestVscaleCreateRecord_ValidationError(t *testing.T) {
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"POST /v1/domains/68155/records/": vscaleError(http.StatusBadRequest, "cname_record_conflict"),
	})

	_, err := provider.CreateRecord(context.Background(), testZone(), domain.CreateRecordOpts{
		Name: "www.cloudsea.ru", Type: domain.RecordTypeCNAME, Data: "cloudsea.ru",
	})
	if !errors.Is(err, domain.ErrRecord) {
		t.Fatalf("expected ErrRecord, got %v", err)
	}
	if errors.Is(err, domain.ErrRecordAlreadyExists) {
		t.Error("validation failure should not be a duplicate")
	}
}

func TestVscaleUpdateRecord_NoFieldsIsIdempotent(t *testing.T) {
	zone := testZone()
	current := domain.Record{ID: "1", Name: "www.cloudsea.ru", Type: domain.RecordTypeA, Data: "1.2.3.4", TTL: ttl(300), Zone: &zone}

	provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
		"PUT /v1/domains/68155/records/1": {status: http.StatusOK, body: testRecordJSON(1, "www.cloudsea.ru", "A", "1.2.3.4", 300)},
	})

	updated, err := provider.UpdateRecord(context.Background(), current, domain.UpdateRecordOpts{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantBody := map[string]any{"name": "www.cloudsea.ru", "type": "A", "content": "1.2.3.4", "ttl": float64(300)}
	if diff := cmp.Diff(wantBody, (*calls)[0].Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if updated.Name != current.Name || updated.Type != current.Type || updated.Data != current.Data {
		t.Errorf("updated = %+v, want same name/type/data as %+v", updated, current)
	}
	if updated.Zone != current.Zone {
		t.Error("updated record should keep its zone")
	}
}

func TestVscaleUpdateRecord_MergesPartialFields(t *testing.T) {
	zone := testZone()
	current := domain.Record{ID: "1", Name: "www.cloudsea.ru", Type: domain.RecordTypeA, Data: "1.2.3.4", Zone: &zone}

	provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
		"PUT /v1/domains/68155/records/1": {status: http.StatusOK, body: testRecordJSON(1, "www.cloudsea.ru", "A", "5.6.7.8", 600)},
	})

	_, err := provider.UpdateRecord(context.Background(), current, domain.UpdateRecordOpts{
		Data: shared.Set("5.6.7.8"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantBody := map[string]any{"name": "www.cloudsea.ru", "type": "A", "content": "5.6.7.8"}
	if diff := cmp.Diff(wantBody, (*calls)[0].Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestVscaleUpdateRecord_RequiresZone(t *testing.T) {
	provider, calls := newTestVscaleDNS(t, nil)

	_, err := provider.UpdateRecord(context.Background(), domain.Record{ID: "1"}, domain.UpdateRecordOpts{})
	if !errors.Is(err, domain.ErrRecord) {
		t.Fatalf("expected ErrRecord, got %v", err)
	}
	if len(*calls) != 0 {
		t.Errorf("expected no request, got %d", len(*calls))
	}
}

func TestVscaleDeleteRecord(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   bool
	}{
		{"no content", http.StatusNoContent, true},
		{"ok", http.StatusOK, false},
		{"accepted", http.StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			zone := testZone()
			record := domain.Record{ID: "1", Zone: &zone}

			provider, calls := newTestVscaleDNS(t, map[string]vscaleRoute{
				"DELETE /v1/domains/68155/records/1": {status: tt.status},
			})

			got, err := provider.DeleteRecord(context.Background(), record)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("DeleteRecord() = %t, want %t", got, tt.want)
			}
			if len(*calls) != 1 || (*calls)[0].Method != http.MethodDelete {
				t.Errorf("expected a single DELETE, got %+v", *calls)
			}
		})
	}
}

func TestVscaleDeleteRecord_NotFound(t *testing.T) {
	zone := testZone()
	provider, _ := newTestVscaleDNS(t, map[string]vscaleRoute{
		"DELETE /v1/domains/68155/records/1": vscaleError(http.StatusNotFound, "record_not_found"),
	})

	_, err := provider.DeleteRecord(context.Background(), domain.Record{ID: "1", Zone: &zone})
	if !errors.Is(err, domain.ErrRecordDoesNotExist) {
		t.Fatalf("expected ErrRecordDoesNotExist, got %v", err)
	}
}

// --- Registry ---

func TestRegisterVscale(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	RegisterVscale()

	if _, err := Get("vscale", auth.NewMockStore()); !errors.Is(err, auth.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}

	store := auth.NewMockStore()
	_ = store.SetToken("vscale", "tok")
	provider, err := Get("vscale", store)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if provider.GetDisplayName() != "Vscale" {
		t.Errorf("display name = %q", provider.GetDisplayName())
	}
}
