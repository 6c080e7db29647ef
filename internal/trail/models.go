package trail

import "github.com/rikshrestha/freshair-hikes/internal/shared/geo"

// GroundPath is an OSM-sourced polyline used to enrich catalog trails.
type GroundPath struct {
	ID       string       `json:"id"`
	Name     string       `json:"name,omitempty"`
	Coords   []geo.LatLng `json:"coords"`
	Centroid geo.LatLng   `json:"centroid"`
}
