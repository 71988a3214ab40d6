package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dota-custom-stats/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type RatingHistoryRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewRatingHistoryRepository(sqlDB *sql.DB, logger zerolog.Logger) *RatingHistoryRepository {
	return &RatingHistoryRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *RatingHistoryRepository) InsertBatch(ctx context.Context, records []domain.RatingChange) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		id := record.ID
		if id == "" {
			id, err = gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate nanoid: %w", err)
			}
		}
		createdAt := record.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO rating_history (id, match_id, steam_id, old_rating, new_rating, delta, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, record.MatchID, int64(record.SteamID),
			record.OldRating, record.NewRating, record.Delta, createdAt)
		if err != nil {
			return fmt.Errorf("failed to insert rating history: %w", err)
		}
	}

	return tx.Commit()
}

func (r *RatingHistoryRepository) GetBySteamID(ctx context.Context, steamID uint64, limit int) ([]domain.RatingChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, match_id, steam_id, old_rating, new_rating, delta, created_at
		FROM rating_history WHERE steam_id = ?
		ORDER BY match_id DESC LIMIT ?`, int64(steamID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating history: %w", err)
	}
	defer rows.Close()

	var records []domain.RatingChange
	for rows.Next() {
		var rec domain.RatingChange
		var sid int64
		if err := rows.Scan(&rec.ID, &rec.MatchID, &sid, &rec.OldRating,
			&rec.NewRating, &rec.Delta, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating history row: %w", err)
		}
		rec.SteamID = uint64(sid)
		records = append(records, rec)
	}
	return records, rows.Err()
}
