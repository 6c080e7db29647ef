package events

import (
	"context"
	"log"
	"time"

	"github.com/rikshrestha/freshair-hikes/internal/db"
)

// Service is an informational sink for operational messages (fetch
// failures, data quality problems). Nothing depends on logging succeeding.
type Service struct {
	db db.Querier
}

type Event struct {
	ID        int64     `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func NewService(db db.Querier) *Service {
	return &Service{db: db}
}

// Log records a message; failures are reported to the process log and
// otherwise swallowed.
func (s *Service) Log(ctx context.Context, msg string) {
	log.Printf("event: %s", msg)
	if s == nil || s.db == nil {
		return
	}
	if _, err := s.db.Exec(ctx, `INSERT INTO app_events (message) VALUES ($1)`, msg); err != nil {
		log.Printf("event insert failed: %v", err)
	}
}

func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, message, created_at
		FROM app_events ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Message, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
