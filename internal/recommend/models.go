package recommend

import (
	"encoding/json"
	"fmt"

	"github.com/rikshrestha/freshair-hikes/internal/shared/geo"
)

// Profile is the self-reported onboarding snapshot. It is replaced
// wholesale on edit, never patched field by field.
type Profile struct {
	AgeRange       string `json:"age_range"`
	Pace           string `json:"pace"`            // slow | normal | fast
	DistanceBand   string `json:"distance_band"`   // 1-2 | 3-5 | 6-10
	WeeklyActivity string `json:"weekly_activity"` // 0-1 | 2-3 | 4+
}

// Difficulty is totally ordered: Easy < Moderate < Strenuous.
type Difficulty int

const (
	Easy Difficulty = iota + 1
	Moderate
	Strenuous
)

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "Easy"
	case Moderate:
		return "Moderate"
	case Strenuous:
		return "Strenuous"
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch s {
	case "Easy":
		return Easy, nil
	case "Moderate":
		return Moderate, nil
	case "Strenuous":
		return Strenuous, nil
	}
	return 0, fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDifficulty(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

type Trail struct {
	ID         string       `json:"id"`
	Name       string       `json:"name"`
	Difficulty Difficulty   `json:"difficulty"`
	DistanceMi float64      `json:"distance_mi"`
	EstTimeMin float64      `json:"est_time_min"`
	Lat        *float64     `json:"lat,omitempty"`
	Lng        *float64     `json:"lng,omitempty"`
	Path       []geo.LatLng `json:"path,omitempty"`
	Source     string       `json:"source,omitempty"`
}

// HikeSession is one completed hike. Reflection fields (effort, enjoyment,
// tags, notes) may be attached after the fact; zero means unset.
type HikeSession struct {
	ID          string   `json:"id"`
	StartedAt   int64    `json:"started_at"` // epoch ms
	EndedAt     int64    `json:"ended_at"`   // epoch ms
	DurationMin int      `json:"duration_min"`
	TrailID     string   `json:"trail_id,omitempty"`
	TrailName   string   `json:"trail_name,omitempty"`
	DistanceMi  float64  `json:"distance_mi,omitempty"`
	Effort      int      `json:"effort,omitempty"`    // 1-10
	Enjoyment   int      `json:"enjoyment,omitempty"` // 1-10
	Tags        []string `json:"tags,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// HasReflection reports whether any reflection data was attached.
func (h HikeSession) HasReflection() bool {
	return h.Effort > 0 || h.Enjoyment > 0 || len(h.Tags) > 0 || h.Notes != ""
}

// RankedTrail annotates a catalog trail with a ranking-call-scoped
// justification. The underlying catalog entry is never mutated.
type RankedTrail struct {
	Trail
	Why string `json:"why"`
}
