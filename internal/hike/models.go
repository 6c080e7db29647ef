package hike

// ActiveHike is the single in-flight hike per user; starting a new one
// replaces it.
type ActiveHike struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	StartedAt  int64   `json:"started_at"` // epoch ms
	TrailID    string  `json:"trail_id,omitempty"`
	TrailName  string  `json:"trail_name,omitempty"`
	DistanceMi float64 `json:"distance_mi,omitempty"`
}

type Reflection struct {
	Effort    int      `json:"effort"`
	Enjoyment int      `json:"enjoyment"`
	Tags      []string `json:"tags,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}
