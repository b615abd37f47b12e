package dns

import (
	"fmt"
	"strconv"
	"strings"

	dnsdomain "thebits/vscale/internal/dns/domain"
	"thebits/vscale/internal/output"
)

func zoneTable(zones []dnsdomain.Zone) output.Table {
	t := output.Table{
		Headers: []string{"ID", "DOMAIN", "TYPE", "TAGS"},
		Empty:   "No zones found.",
	}
	for _, z := range zones {
		t.Rows = append(t.Rows, []string{z.ID, z.Domain, string(z.Type), formatTags(z.Extra["tags"])})
	}
	return t
}

func zoneDetail(z *dnsdomain.Zone) output.Table {
	rows := [][]string{
		{"ID", z.ID},
		{"Domain", z.Domain},
		{"Type", string(z.Type)},
		{"Tags", formatTags(z.Extra["tags"])},
	}
	if created, ok := z.Extra["create_date"]; ok {
		rows = append(rows, []string{"Created", fmt.Sprint(created)})
	}
	return output.Table{Vertical: true, Rows: rows}
}

func recordTable(records []dnsdomain.Record) output.Table {
	t := output.Table{
		Headers: []string{"ID", "NAME", "TYPE", "DATA", "TTL"},
		Empty:   "No records found.",
	}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{r.ID, r.Name, string(r.Type), r.Data, formatTTL(r.TTL)})
	}
	return t
}

func recordDetail(r *dnsdomain.Record) output.Table {
	rows := [][]string{
		{"ID", r.ID},
		{"Name", r.Name},
		{"Type", string(r.Type)},
		{"Data", r.Data},
		{"TTL", formatTTL(r.TTL)},
	}
	if r.Zone != nil {
		zone := r.Zone.ID
		if r.Zone.Domain != "" {
			zone = r.Zone.Domain + " (" + r.Zone.ID + ")"
		}
		rows = append(rows, []string{"Zone", zone})
	}
	return output.Table{Vertical: true, Rows: rows}
}

func formatTTL(ttl *int) string {
	if ttl == nil {
		return "-"
	}
	return strconv.Itoa(*ttl)
}

// formatTags renders the tag list Vscale attaches to a zone. Tags arrive
// either as bare IDs or as {"id": .., "name": ..} objects.
func formatTags(v any) string {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		tag, ok := item.(map[string]any)
		switch {
		case !ok:
			parts = append(parts, fmt.Sprint(item))
		case tag["name"] != nil:
			parts = append(parts, fmt.Sprint(tag["name"]))
		default:
			parts = append(parts, fmt.Sprint(tag["id"]))
		}
	}
	return strings.Join(parts, ",")
}
