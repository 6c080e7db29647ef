package navigation

import (
	"time"

	"github.com/rikshrestha/freshair-hikes/internal/shared/geo"
)

const (
	ModePath       = "path"
	ModeDirections = "directions"
)

const (
	metersPerMile     = 1609.34
	offRouteMi        = 0.05
	arriveRemainingMi = 0.05
	arriveEndMi       = 0.03
	// RerouteCooldown throttles automatic reroute attempts while off-route
	// detection fires on every position tick.
	RerouteCooldown = 15 * time.Second
)

type Step struct {
	Instruction    string  `json:"instruction"`
	DistanceMeters float64 `json:"distance_meters"`
	DurationSec    float64 `json:"duration_sec"`
}

// Route is the immutable coordinate sequence a session navigates. Path mode
// carries a precomputed trail polyline and no steps; directions mode carries
// a fetched point-to-point route with turn-by-turn steps.
type Route struct {
	Mode                string       `json:"mode"`
	Coords              []geo.LatLng `json:"coords"`
	TotalDistanceMeters float64      `json:"total_distance_meters"`
	TotalDurationSec    float64      `json:"total_duration_sec"`
	Steps               []Step       `json:"steps,omitempty"`
}

func (r Route) TotalMiles() float64 {
	if r.TotalDistanceMeters > 0 {
		return r.TotalDistanceMeters / metersPerMile
	}
	return geo.PolylineMiles(r.Coords)
}

// TraveledMiles is the polyline length from the start through the route
// coordinate nearest the live position. At or before the first coordinate
// nothing has been traveled yet.
func TraveledMiles(r Route, pos geo.LatLng) float64 {
	idx := geo.NearestPointIndex(pos, r.Coords)
	if idx < 1 {
		return 0
	}
	return geo.PolylineMiles(r.Coords[:idx+1])
}

// RemainingMiles subtracts the traveled prefix from the route total. With no
// live position yet the full total stands.
func RemainingMiles(r Route, pos *geo.LatLng, totalMiles float64) float64 {
	if pos == nil {
		return totalMiles
	}
	idx := geo.NearestPointIndex(*pos, r.Coords)
	if idx < 0 {
		return totalMiles
	}
	remaining := totalMiles - geo.PolylineMiles(r.Coords[:idx+1])
	if remaining < 0 {
		return 0
	}
	return remaining
}

// NextStep returns the upcoming turn instruction in directions mode: the
// first step whose cumulative distance exceeds what has been traveled, the
// last step once past all of them. Path mode has no steps.
func NextStep(r Route, pos *geo.LatLng) *Step {
	if r.Mode != ModeDirections || len(r.Steps) == 0 {
		return nil
	}
	if pos == nil {
		return &r.Steps[0]
	}

	traveledMeters := TraveledMiles(r, *pos) * metersPerMile
	cumulative := 0.0
	for i := range r.Steps {
		cumulative += r.Steps[i].DistanceMeters
		if cumulative > traveledMeters {
			return &r.Steps[i]
		}
	}
	return &r.Steps[len(r.Steps)-1]
}

// IsOffRoute reports whether the live position strayed more than 0.05 miles
// from the nearest route coordinate.
func IsOffRoute(r Route, pos geo.LatLng) bool {
	idx := geo.NearestPointIndex(pos, r.Coords)
	if idx < 0 {
		return false
	}
	return geo.DistanceMiles(pos, r.Coords[idx]) > offRouteMi
}

// IsArrived reports arrival: almost nothing remaining, or physically next to
// the final route coordinate.
func IsArrived(r Route, pos geo.LatLng, remainingMi float64) bool {
	if remainingMi < arriveRemainingMi {
		return true
	}
	if len(r.Coords) == 0 {
		return false
	}
	return geo.DistanceMiles(pos, r.Coords[len(r.Coords)-1]) < arriveEndMi
}

// RerouteEligible gates automatic reroutes; the caller records lastAt on a
// successful attempt.
func RerouteEligible(lastAt, now time.Time, cooldown time.Duration) bool {
	return now.Sub(lastAt) >= cooldown
}
