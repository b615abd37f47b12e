package server

import (
	"fmt"
	"strings"
	"time"

	"thebits/vscale/internal/output"
	"thebits/vscale/internal/server/domain"
	"thebits/vscale/internal/tui/styles"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

func nodeTable(nodes []domain.Node) output.Table {
	t := output.Table{
		Headers: []string{"ID", "NAME", "STATE", "PUBLIC IP", "PRIVATE IP", "IMAGE", "CREATED"},
		Empty:   "No servers found.",
	}
	for _, n := range nodes {
		t.Rows = append(t.Rows, []string{
			n.ID,
			n.Name,
			styles.StateIndicator(n.State),
			joinOrDash(n.PublicIPs),
			joinOrDash(n.PrivateIPs),
			imageName(n.Image),
			formatTime(n.CreatedAt),
		})
	}
	return t
}

func nodeDetail(n *domain.Node) output.Table {
	rows := [][]string{
		{"ID", n.ID},
		{"Name", n.Name},
		{"State", styles.StateIndicator(n.State)},
		{"Provider", n.Provider},
		{"Image", imageName(n.Image)},
	}
	if len(n.PublicIPs) > 0 {
		rows = append(rows, []string{"Public IP", strings.Join(n.PublicIPs, ", ")})
	}
	if len(n.PrivateIPs) > 0 {
		rows = append(rows, []string{"Private IP", strings.Join(n.PrivateIPs, ", ")})
	}
	if !n.CreatedAt.IsZero() {
		rows = append(rows, []string{"Created", formatTime(n.CreatedAt)})
	}
	if loc, ok := n.Extra["location"].(string); ok && loc != "" {
		rows = append(rows, []string{"Location", loc})
	}
	if plan, ok := n.Extra["rplan"].(string); ok && plan != "" {
		rows = append(rows, []string{"Plan", plan})
	}
	return output.Table{Vertical: true, Rows: rows}
}

func locationTable(locations []domain.Location) output.Table {
	t := output.Table{
		Headers: []string{"ID", "NAME", "COUNTRY"},
		Empty:   "No locations found.",
	}
	for _, l := range locations {
		t.Rows = append(t.Rows, []string{l.ID, l.Name, l.Country})
	}
	return t
}

func imageTable(images []domain.Image) output.Table {
	t := output.Table{
		Headers: []string{"ID", "NAME"},
		Empty:   "No images found.",
	}
	for _, i := range images {
		t.Rows = append(t.Rows, []string{i.ID, i.Name})
	}
	return t
}

func sizeTable(sizes []domain.Size) output.Table {
	t := output.Table{
		Headers: []string{"ID", "RAM (MB)", "DISK (MB)", "LOCATIONS"},
		Empty:   "No sizes found.",
	}
	for _, s := range sizes {
		t.Rows = append(t.Rows, []string{
			s.ID,
			fmt.Sprintf("%d", s.RAM),
			fmt.Sprintf("%d", s.Disk),
			formatLocations(s.Extra["locations"]),
		})
	}
	return t
}

func formatLocations(v any) string {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(list))
	for _, item := range list {
		parts = append(parts, fmt.Sprint(item))
	}
	return strings.Join(parts, ",")
}

func imageName(img *domain.Image) string {
	if img == nil || img.Name == "" {
		return "-"
	}
	return img.Name
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timeLayout)
}
