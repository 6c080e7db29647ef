package geo

import (
	"math"
	"testing"
)

func TestDistanceMiles(t *testing.T) {
	// Kathmandu (27.7172, 85.324) to Nagarkot (27.7154, 85.5206) ~ 12 mi
	d := DistanceMiles(LatLng{27.7172, 85.324}, LatLng{27.7154, 85.5206})
	if d < 10 || d > 14 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestDistanceMilesIdentity(t *testing.T) {
	p := LatLng{27.7, 85.3}
	if d := DistanceMiles(p, p); d != 0 {
		t.Fatalf("expected zero distance, got %v", d)
	}
}

func TestDistanceMilesSymmetry(t *testing.T) {
	a := LatLng{27.7, 85.3}
	b := LatLng{28.2, 83.9}
	if d1, d2 := DistanceMiles(a, b), DistanceMiles(b, a); math.Abs(d1-d2) > 1e-12 {
		t.Fatalf("asymmetric distance: %v vs %v", d1, d2)
	}
}

func TestPolylineMiles(t *testing.T) {
	coords := []LatLng{{0, 0}, {0, 1}, {0, 2}}
	want := DistanceMiles(coords[0], coords[1]) + DistanceMiles(coords[1], coords[2])
	if got := PolylineMiles(coords); math.Abs(got-want) > 1e-9 {
		t.Fatalf("polyline length %v, want %v", got, want)
	}
}

func TestPolylineMilesDegenerate(t *testing.T) {
	if PolylineMiles(nil) != 0 {
		t.Fatalf("expected zero length for empty polyline")
	}
	if PolylineMiles([]LatLng{{1, 1}}) != 0 {
		t.Fatalf("expected zero length for single point")
	}
}

func TestNearestPointIndex(t *testing.T) {
	coords := []LatLng{{0, 0}, {0, 1}, {0, 2}}
	if idx := NearestPointIndex(LatLng{0, 1}, coords); idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	if idx := NearestPointIndex(LatLng{0, 1.9}, coords); idx != 2 {
		t.Fatalf("expected index 2, got %d", idx)
	}
}

func TestNearestPointIndexTieLowest(t *testing.T) {
	coords := []LatLng{{0, 0}, {0, 2}, {0, 0}}
	if idx := NearestPointIndex(LatLng{0, 0}, coords); idx != 0 {
		t.Fatalf("tie should resolve to lowest index, got %d", idx)
	}
}

func TestNearestPointIndexEmpty(t *testing.T) {
	if idx := NearestPointIndex(LatLng{0, 0}, nil); idx != -1 {
		t.Fatalf("expected -1 for empty coords, got %d", idx)
	}
}

// Brute-force check that no index beats the returned one.
func TestNearestPointIndexMinimal(t *testing.T) {
	coords := []LatLng{{27.7, 85.3}, {27.71, 85.31}, {27.72, 85.33}, {27.75, 85.4}}
	p := LatLng{27.715, 85.32}
	idx := NearestPointIndex(p, coords)
	best := DistanceMiles(p, coords[idx])
	for i, c := range coords {
		if DistanceMiles(p, c) < best {
			t.Fatalf("index %d closer than returned %d", i, idx)
		}
	}
}
