package trail

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rikshrestha/freshair-hikes/internal/db"
	"github.com/rikshrestha/freshair-hikes/internal/recommend"
	"github.com/rikshrestha/freshair-hikes/internal/shared/geo"
)

// centroidMatchMi bounds how far a ground path's centroid may sit from a
// trail anchor and still be attached.
const centroidMatchMi = 10

var ErrNotFound = errors.New("trail not found")

type EventSink interface {
	Log(ctx context.Context, msg string)
}

type Service struct {
	db     db.Querier
	events EventSink
}

func NewService(db db.Querier, events EventSink) *Service {
	return &Service{db: db, events: events}
}

// Trails returns the catalog enriched with ground paths: a case-insensitive
// name match wins, otherwise the nearest path centroid within 10 miles of
// the trail anchor. Trails without a match simply carry no path.
func (s *Service) Trails(ctx context.Context) ([]recommend.Trail, error) {
	trails, err := s.catalog(ctx)
	if err != nil {
		return nil, err
	}
	paths, err := s.groundPaths(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(trails))
	enriched := make([]recommend.Trail, 0, len(trails))
	for _, t := range trails {
		if _, dup := seen[t.ID]; dup {
			s.logEvent(ctx, "duplicate trail id skipped: "+t.ID+" ("+t.Name+")")
			continue
		}
		seen[t.ID] = struct{}{}
		if path := matchPath(t, paths); path != nil {
			t.Path = path
		}
		enriched = append(enriched, t)
	}
	return enriched, nil
}

func (s *Service) Get(ctx context.Context, id string) (recommend.Trail, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, difficulty, distance_mi, est_time_min, lat, lng, COALESCE(source,'')
		FROM trails WHERE id=$1
	`, id)
	t, err := scanTrail(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recommend.Trail{}, ErrNotFound
		}
		return recommend.Trail{}, err
	}
	return t, nil
}

func (s *Service) Favorite(ctx context.Context, userID, trailID string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO favorites (user_id, trail_id)
		VALUES ($1,$2)
		ON CONFLICT (user_id, trail_id) DO NOTHING
	`, userID, trailID)
	return err
}

func (s *Service) Unfavorite(ctx context.Context, userID, trailID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM favorites WHERE user_id=$1 AND trail_id=$2`, userID, trailID)
	return err
}

func (s *Service) Favorites(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.Query(ctx, `
		SELECT trail_id FROM favorites WHERE user_id=$1 ORDER BY created_at
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Service) catalog(ctx context.Context) ([]recommend.Trail, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, difficulty, distance_mi, est_time_min, lat, lng, COALESCE(source,'')
		FROM trails ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trails []recommend.Trail
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, err
		}
		trails = append(trails, t)
	}
	return trails, rows.Err()
}

func (s *Service) groundPaths(ctx context.Context) ([]GroundPath, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, COALESCE(name,''), coords, centroid_lat, centroid_lng
		FROM osm_paths
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []GroundPath
	for rows.Next() {
		var p GroundPath
		var raw []byte
		if err := rows.Scan(&p.ID, &p.Name, &raw, &p.Centroid.Lat, &p.Centroid.Lng); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &p.Coords); err != nil {
			s.logEvent(ctx, "unreadable ground path skipped: "+p.ID)
			continue
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func matchPath(t recommend.Trail, paths []GroundPath) []geo.LatLng {
	for _, p := range paths {
		if p.Name != "" && strings.EqualFold(p.Name, t.Name) {
			return p.Coords
		}
	}
	if t.Lat == nil || t.Lng == nil {
		return nil
	}

	anchor := geo.LatLng{Lat: *t.Lat, Lng: *t.Lng}
	var best []geo.LatLng
	bestDist := float64(centroidMatchMi)
	for _, p := range paths {
		if d := geo.DistanceMiles(anchor, p.Centroid); d < bestDist {
			bestDist = d
			best = p.Coords
		}
	}
	return best
}

func scanTrail(row pgx.Row) (recommend.Trail, error) {
	var t recommend.Trail
	var difficulty string
	if err := row.Scan(&t.ID, &t.Name, &difficulty, &t.DistanceMi, &t.EstTimeMin, &t.Lat, &t.Lng, &t.Source); err != nil {
		return recommend.Trail{}, err
	}
	parsed, err := recommend.ParseDifficulty(difficulty)
	if err != nil {
		return recommend.Trail{}, err
	}
	t.Difficulty = parsed
	return t, nil
}

func (s *Service) logEvent(ctx context.Context, msg string) {
	if s.events != nil {
		s.events.Log(ctx, msg)
	}
}
