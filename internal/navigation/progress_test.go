package navigation

import (
	"math"
	"testing"
	"time"

	"github.com/rikshrestha/freshair-hikes/internal/shared/geo"
)

func testRoute() Route {
	coords := []geo.LatLng{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 0, Lng: 2}}
	return Route{
		Mode:                ModePath,
		Coords:              coords,
		TotalDistanceMeters: geo.PolylineMiles(coords) * metersPerMile,
	}
}

func TestTraveledMilesMidRoute(t *testing.T) {
	r := testRoute()
	pos := geo.LatLng{Lat: 0, Lng: 1}

	want := geo.PolylineMiles(r.Coords[:2])
	if got := TraveledMiles(r, pos); math.Abs(got-want) > 1e-9 {
		t.Fatalf("traveled %v, want %v", got, want)
	}
}

func TestTraveledMilesAtStart(t *testing.T) {
	r := testRoute()
	if got := TraveledMiles(r, geo.LatLng{Lat: 0, Lng: 0}); got != 0 {
		t.Fatalf("expected zero traveled at start, got %v", got)
	}
}

func TestTraveledMilesEmptyRoute(t *testing.T) {
	if got := TraveledMiles(Route{}, geo.LatLng{Lat: 0, Lng: 0}); got != 0 {
		t.Fatalf("expected zero traveled for empty route, got %v", got)
	}
}

func TestRemainingMiles(t *testing.T) {
	r := testRoute()
	total := r.TotalMiles()
	pos := geo.LatLng{Lat: 0, Lng: 1}

	traveled := TraveledMiles(r, pos)
	if got := RemainingMiles(r, &pos, total); math.Abs(got-(total-traveled)) > 1e-9 {
		t.Fatalf("remaining %v, want %v", got, total-traveled)
	}
}

func TestRemainingMilesNoPosition(t *testing.T) {
	r := testRoute()
	total := r.TotalMiles()
	if got := RemainingMiles(r, nil, total); got != total {
		t.Fatalf("expected full total without a position, got %v", got)
	}
}

func TestRemainingMilesNeverNegative(t *testing.T) {
	r := testRoute()
	pos := geo.LatLng{Lat: 0, Lng: 2}
	// Understated total: the traveled prefix exceeds it.
	if got := RemainingMiles(r, &pos, 1); got != 0 {
		t.Fatalf("expected remaining clamped to zero, got %v", got)
	}
}

func TestNextStep(t *testing.T) {
	r := testRoute()
	r.Mode = ModeDirections
	r.Steps = []Step{
		{Instruction: "Head east", DistanceMeters: 60000},
		{Instruction: "Continue east", DistanceMeters: 60000},
		{Instruction: "Arrive", DistanceMeters: 60000},
	}

	if s := NextStep(r, nil); s == nil || s.Instruction != "Head east" {
		t.Fatalf("expected first step without a position, got %+v", s)
	}

	mid := geo.LatLng{Lat: 0, Lng: 1} // ~111 km traveled
	if s := NextStep(r, &mid); s == nil || s.Instruction != "Continue east" {
		t.Fatalf("expected second step mid-route, got %+v", s)
	}

	end := geo.LatLng{Lat: 0, Lng: 2}
	if s := NextStep(r, &end); s == nil || s.Instruction != "Arrive" {
		t.Fatalf("expected last step past all cumulative distances, got %+v", s)
	}
}

func TestNextStepPathMode(t *testing.T) {
	r := testRoute()
	pos := geo.LatLng{Lat: 0, Lng: 1}
	if s := NextStep(r, &pos); s != nil {
		t.Fatalf("path mode has no steps, got %+v", s)
	}
}

func TestIsOffRoute(t *testing.T) {
	r := testRoute()

	// ~0.1 mi north of the route line; threshold is 0.05 mi.
	if !IsOffRoute(r, geo.LatLng{Lat: 0.00145, Lng: 1}) {
		t.Fatalf("expected off-route at ~0.1 mi deviation")
	}
	if IsOffRoute(r, geo.LatLng{Lat: 0.0004, Lng: 1}) {
		t.Fatalf("expected on-route inside the threshold")
	}
	if IsOffRoute(Route{}, geo.LatLng{Lat: 0, Lng: 0}) {
		t.Fatalf("empty route can never be off-route")
	}
}

func TestIsArrived(t *testing.T) {
	r := testRoute()
	end := geo.LatLng{Lat: 0, Lng: 2}

	if !IsArrived(r, end, 0.01) {
		t.Fatalf("expected arrival with tiny remaining distance")
	}
	if !IsArrived(r, geo.LatLng{Lat: 0, Lng: 1.9999}, 10) {
		t.Fatalf("expected arrival next to the final coordinate")
	}
	if IsArrived(r, geo.LatLng{Lat: 0, Lng: 1}, 60) {
		t.Fatalf("did not expect arrival mid-route")
	}
}

func TestRerouteEligible(t *testing.T) {
	base := time.Now()
	if RerouteEligible(base, base.Add(5*time.Second), RerouteCooldown) {
		t.Fatalf("5s apart should not be eligible")
	}
	if !RerouteEligible(base, base.Add(16*time.Second), RerouteCooldown) {
		t.Fatalf("16s apart should be eligible")
	}
	if !RerouteEligible(base, base.Add(15*time.Second), RerouteCooldown) {
		t.Fatalf("exactly the cooldown should be eligible")
	}
}
