package profile

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rikshrestha/freshair-hikes/internal/db"
	"github.com/rikshrestha/freshair-hikes/internal/recommend"
)

var ErrNotFound = errors.New("profile not set")

type Service struct {
	db db.Querier
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Save replaces the profile wholesale; there is no partial update.
func (s *Service) Save(ctx context.Context, userID string, p recommend.Profile) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO profiles (user_id, age_range, pace, distance_band, weekly_activity, updated_at)
		VALUES ($1,$2,$3,$4,$5, now())
		ON CONFLICT (user_id) DO UPDATE
		SET age_range=EXCLUDED.age_range, pace=EXCLUDED.pace,
		    distance_band=EXCLUDED.distance_band, weekly_activity=EXCLUDED.weekly_activity,
		    updated_at=now()
	`, userID, p.AgeRange, p.Pace, p.DistanceBand, p.WeeklyActivity)
	return err
}

func (s *Service) Load(ctx context.Context, userID string) (recommend.Profile, error) {
	row := s.db.QueryRow(ctx, `
		SELECT age_range, pace, distance_band, weekly_activity
		FROM profiles WHERE user_id=$1
	`, userID)

	var p recommend.Profile
	if err := row.Scan(&p.AgeRange, &p.Pace, &p.DistanceBand, &p.WeeklyActivity); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return recommend.Profile{}, ErrNotFound
		}
		return recommend.Profile{}, err
	}
	return p, nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM profiles WHERE user_id=$1`, userID)
	return err
}
