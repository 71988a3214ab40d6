package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type EventRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, logger zerolog.Logger) *EventRepository {
	return &EventRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *EventRepository) Enqueue(ctx context.Context, matchID int64, body string) (string, error) {
	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO match_events (id, match_id, body) VALUES (?, ?, ?)",
		id, matchID, body)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue event for match %d: %w", matchID, err)
	}

	r.logger.Debug().Int64("match_id", matchID).Str("event_id", id).Msg("event enqueued")
	return id, nil
}

// Drain returns all queued event bodies for a match in insertion order
// and deletes them in the same transaction, so each event reaches the
// caller at most once.
func (r *EventRepository) Drain(ctx context.Context, matchID int64) ([]string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT body FROM match_events WHERE match_id = ? ORDER BY rowid", matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events for match %d: %w", matchID, err)
	}

	bodies := []string{}
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan event body: %w", err)
		}
		bodies = append(bodies, body)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM match_events WHERE match_id = ?", matchID); err != nil {
		return nil, fmt.Errorf("failed to delete drained events for match %d: %w", matchID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit event drain: %w", err)
	}

	r.logger.Debug().Int64("match_id", matchID).Int("count", len(bodies)).Msg("events drained")
	return bodies, nil
}
