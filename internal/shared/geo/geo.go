package geo

import "math"

// earthRadiusMi is the mean Earth radius in miles.
const earthRadiusMi = 3958.8

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceMiles returns the great-circle distance between a and b in miles.
func DistanceMiles(a, b LatLng) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMi * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// PolylineMiles sums the distances between consecutive coordinates.
// Sequences shorter than two points have zero length.
func PolylineMiles(coords []LatLng) float64 {
	total := 0.0
	for i := 1; i < len(coords); i++ {
		total += DistanceMiles(coords[i-1], coords[i])
	}
	return total
}

// NearestPointIndex returns the index of the coordinate closest to p,
// ties going to the lowest index. Empty input returns -1.
func NearestPointIndex(p LatLng, coords []LatLng) int {
	if len(coords) == 0 {
		return -1
	}
	best := 0
	bestDist := DistanceMiles(p, coords[0])
	for i := 1; i < len(coords); i++ {
		if d := DistanceMiles(p, coords[i]); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
