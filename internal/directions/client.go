package directions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rikshrestha/freshair-hikes/internal/navigation"
	"github.com/rikshrestha/freshair-hikes/internal/shared/geo"
)

const defaultBaseURL = "https://api.mapbox.com"

var (
	ErrTokenMissing = errors.New("mapbox token missing")
	ErrNoRoute      = errors.New("no route found")
)

var fetchFn = func(agentURL string) (int, []byte, []error) {
	return fiber.Get(agentURL).Bytes()
}

// Client fetches walking routes from the Mapbox directions API and maps
// them onto the navigation route shape.
type Client struct {
	token   string
	baseURL string
}

func NewClient(token string) *Client {
	return &Client{token: token, baseURL: defaultBaseURL}
}

type mapboxStep struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Name     string  `json:"name"`
	Maneuver struct {
		Instruction string `json:"instruction"`
	} `json:"maneuver"`
}

type mapboxResponse struct {
	Routes []struct {
		Geometry struct {
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Legs     []struct {
			Steps []mapboxStep `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
	Message string `json:"message"`
}

func (c *Client) WalkingRoute(_ context.Context, start, end geo.LatLng) (navigation.Route, error) {
	if c.token == "" {
		return navigation.Route{}, ErrTokenMissing
	}

	reqURL := fmt.Sprintf(
		"%s/directions/v5/mapbox/walking/%f,%f;%f,%f?alternatives=false&geometries=geojson&overview=full&steps=true&access_token=%s",
		c.baseURL, start.Lng, start.Lat, end.Lng, end.Lat, url.QueryEscape(c.token),
	)

	status, body, errs := fetchFn(reqURL)
	if len(errs) > 0 {
		return navigation.Route{}, errs[0]
	}
	if status != fiber.StatusOK {
		return navigation.Route{}, fmt.Errorf("mapbox error %d: %s", status, truncate(body, 200))
	}

	var parsed mapboxResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return navigation.Route{}, err
	}
	if len(parsed.Routes) == 0 {
		return navigation.Route{}, ErrNoRoute
	}

	route := parsed.Routes[0]
	coords := make([]geo.LatLng, 0, len(route.Geometry.Coordinates))
	for _, c := range route.Geometry.Coordinates {
		// GeoJSON order is [lng, lat].
		coords = append(coords, geo.LatLng{Lat: c[1], Lng: c[0]})
	}

	var steps []navigation.Step
	if len(route.Legs) > 0 {
		for _, s := range route.Legs[0].Steps {
			steps = append(steps, navigation.Step{
				Instruction:    stepInstruction(s),
				DistanceMeters: s.Distance,
				DurationSec:    s.Duration,
			})
		}
	}

	return navigation.Route{
		Mode:                navigation.ModeDirections,
		Coords:              coords,
		TotalDistanceMeters: route.Distance,
		TotalDurationSec:    route.Duration,
		Steps:               steps,
	}, nil
}

func stepInstruction(s mapboxStep) string {
	if s.Maneuver.Instruction != "" {
		return s.Maneuver.Instruction
	}
	if s.Name != "" {
		return s.Name
	}
	return "Continue"
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
