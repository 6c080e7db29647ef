package hike

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rikshrestha/freshair-hikes/internal/db"
	"github.com/rikshrestha/freshair-hikes/internal/recommend"
)

var (
	ErrNoActiveHike = errors.New("no active hike")
	ErrBadRating    = errors.New("effort and enjoyment must be between 1 and 10")
)

var nowFn = time.Now

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// StartActive begins a hike; a previous unfinished hike is replaced.
func (s *Service) StartActive(ctx context.Context, input ActiveHike) (ActiveHike, error) {
	input.ID = uuid.NewString()
	if input.StartedAt == 0 {
		input.StartedAt = nowFn().UnixMilli()
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO active_hikes (user_id, id, started_at, trail_id, trail_name, distance_mi)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (user_id) DO UPDATE
		SET id=EXCLUDED.id, started_at=EXCLUDED.started_at, trail_id=EXCLUDED.trail_id,
		    trail_name=EXCLUDED.trail_name, distance_mi=EXCLUDED.distance_mi
	`, input.UserID, input.ID, input.StartedAt, input.TrailID, input.TrailName, input.DistanceMi)
	if err != nil {
		return ActiveHike{}, err
	}
	return input, nil
}

func (s *Service) Active(ctx context.Context, userID string) (ActiveHike, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, started_at, COALESCE(trail_id,''), COALESCE(trail_name,''), COALESCE(distance_mi,0)
		FROM active_hikes WHERE user_id=$1
	`, userID)

	var a ActiveHike
	if err := row.Scan(&a.ID, &a.UserID, &a.StartedAt, &a.TrailID, &a.TrailName, &a.DistanceMi); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ActiveHike{}, ErrNoActiveHike
		}
		return ActiveHike{}, err
	}
	return a, nil
}

// EndActive closes the active hike into an immutable history entry. The
// duration is rounded up to at least one minute.
func (s *Service) EndActive(ctx context.Context, userID string) (recommend.HikeSession, error) {
	active, err := s.Active(ctx, userID)
	if err != nil {
		return recommend.HikeSession{}, err
	}

	endedAt := nowFn().UnixMilli()
	durationMin := int(math.Round(float64(endedAt-active.StartedAt) / 60000))
	if durationMin < 1 {
		durationMin = 1
	}

	session := recommend.HikeSession{
		ID:          active.ID,
		StartedAt:   active.StartedAt,
		EndedAt:     endedAt,
		DurationMin: durationMin,
		TrailID:     active.TrailID,
		TrailName:   active.TrailName,
		DistanceMi:  active.DistanceMi,
	}

	_, err = s.db.Exec(ctx, `
		INSERT INTO hikes (id, user_id, started_at, ended_at, duration_min, trail_id, trail_name, distance_mi)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`, session.ID, userID, session.StartedAt, session.EndedAt, session.DurationMin,
		session.TrailID, session.TrailName, session.DistanceMi)
	if err != nil {
		return recommend.HikeSession{}, err
	}

	if _, err := s.db.Exec(ctx, `DELETE FROM active_hikes WHERE user_id=$1`, userID); err != nil {
		return recommend.HikeSession{}, err
	}
	return session, nil
}

func (s *Service) ClearActive(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM active_hikes WHERE user_id=$1`, userID)
	return err
}

// List returns the full history, newest first; the recommendation engine
// reads only a prefix of it.
func (s *Service) List(ctx context.Context, userID string) ([]recommend.HikeSession, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, started_at, ended_at, duration_min, COALESCE(trail_id,''), COALESCE(trail_name,''),
		       COALESCE(distance_mi,0), COALESCE(effort,0), COALESCE(enjoyment,0), tags, COALESCE(notes,'')
		FROM hikes WHERE user_id=$1
		ORDER BY started_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []recommend.HikeSession
	for rows.Next() {
		var h recommend.HikeSession
		if err := rows.Scan(&h.ID, &h.StartedAt, &h.EndedAt, &h.DurationMin, &h.TrailID, &h.TrailName,
			&h.DistanceMi, &h.Effort, &h.Enjoyment, &h.Tags, &h.Notes); err != nil {
			return nil, err
		}
		sessions = append(sessions, h)
	}
	return sessions, rows.Err()
}

// SaveReflection attaches (or overwrites) reflection data on a past hike.
func (s *Service) SaveReflection(ctx context.Context, userID, hikeID string, r Reflection) error {
	if badRating(r.Effort) || badRating(r.Enjoyment) {
		return ErrBadRating
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE hikes SET effort=$3, enjoyment=$4, tags=$5, notes=$6
		WHERE id=$1 AND user_id=$2
	`, hikeID, userID, r.Effort, r.Enjoyment, r.Tags, r.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func badRating(v int) bool {
	return v < 0 || v > 10
}
