package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	shared "thebits/vscale/internal/domain"
	"thebits/vscale/internal/platform/vscale"
	"thebits/vscale/internal/server/domain"
)

type vscaleDatacenter struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type vscaleImage struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

type vscalePlan struct {
	ID        string   `json:"id"`
	Memory    int      `json:"memory"`
	Disk      int      `json:"disk"`
	Locations []string `json:"locations"`
}

// ListLocations returns the Vscale datacenters. A datacenter missing from
// the country table fails the whole call with ErrUnknownDatacenter.
func (v *VscaleProvider) ListLocations(ctx context.Context) ([]domain.Location, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, "/api/datacenter", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	var out struct {
		Datacenters []map[string]any `json:"datacenters"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	var typed struct {
		Datacenters []vscaleDatacenter `json:"datacenters"`
	}
	if err := resp.Decode(&typed); err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]domain.Location, 0, len(typed.Datacenters))
	for i, dc := range typed.Datacenters {
		country, err := vscale.DatacenterCountry(dc.ID)
		if err != nil {
			var unknown *vscale.ErrUnknownDatacenter
			if errors.As(err, &unknown) {
				return nil, fmt.Errorf("failed to list locations: %w: id %d (%s)", domain.ErrUnknownDatacenter, dc.ID, dc.Name)
			}
			return nil, fmt.Errorf("failed to list locations: %w", err)
		}
		locations = append(locations, domain.Location{
			ID:      fmt.Sprintf("%d", dc.ID),
			Name:    dc.Name,
			Country: country,
			Extra:   shared.ExtraWithout(out.Datacenters[i], "id", "name"),
		})
	}

	return locations, nil
}

// ListImages returns the OS images available for new nodes. The image
// description doubles as its display name.
func (v *VscaleProvider) ListImages(ctx context.Context) ([]domain.Image, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, "/v1/images", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	objs, err := vscale.DecodeList[vscaleImage](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}

	images := make([]domain.Image, 0, len(objs))
	for _, obj := range objs {
		images = append(images, domain.Image{
			ID:    obj.Value.ID,
			Name:  obj.Value.Description,
			Extra: shared.ExtraWithout(obj.Raw, "id", "description"),
		})
	}

	return images, nil
}

// ListSizes returns the rate plans. The API cannot filter by location, so
// when location is non-empty all plans are fetched and filtered here.
// Vscale does not publish bandwidth or price per plan; both stay zero.
func (v *VscaleProvider) ListSizes(ctx context.Context, location string) ([]domain.Size, error) {
	resp, err := v.conn.Request(ctx, http.MethodGet, "/v1/rplans", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", err)
	}

	objs, err := vscale.DecodeList[vscalePlan](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to list sizes: %w", err)
	}

	sizes := make([]domain.Size, 0, len(objs))
	for _, obj := range objs {
		if location != "" && !slices.Contains(obj.Value.Locations, location) {
			continue
		}
		sizes = append(sizes, domain.Size{
			ID:    obj.Value.ID,
			Name:  obj.Value.ID,
			RAM:   obj.Value.Memory,
			Disk:  obj.Value.Disk,
			Extra: shared.ExtraWithout(obj.Raw, "id", "memory", "disk"),
		})
	}

	return sizes, nil
}
