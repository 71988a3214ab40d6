package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"dota-custom-stats/internal/constants"
	"dota-custom-stats/internal/domain"

	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const playerColumns = `steam_id, rating, comment, patreon_level, patreon_end_date,
	patreon_emblem_enabled, patreon_emblem_color, patreon_boots_enabled,
	patreon_chat_wheel_favorites, persona_name, persona_updated_at, created_at, updated_at`

func (r *PlayerRepository) GetBySteamIDs(ctx context.Context, steamIDs []uint64) ([]domain.Player, error) {
	if len(steamIDs) == 0 {
		return []domain.Player{}, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(steamIDs)), ",")
	query := fmt.Sprintf("SELECT %s FROM players WHERE steam_id IN (%s)", playerColumns, placeholders)

	args := make([]any, len(steamIDs))
	for i, id := range steamIDs {
		args[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CreateBatch inserts brand-new players. Ratings are expected to be seeded
// by the caller (normally rating.InitialRating).
func (r *PlayerRepository) CreateBatch(ctx context.Context, players []domain.Player) error {
	if len(players) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for i := 0; i < len(players); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(players) {
			end = len(players)
		}
		chunk := players[i:end]

		placeholders := make([]string, len(chunk))
		args := make([]any, 0, len(chunk)*5)
		for j, p := range chunk {
			favorites, err := json.Marshal(p.PatreonChatWheelFavorites)
			if err != nil {
				return fmt.Errorf("failed to marshal chat wheel favorites: %w", err)
			}
			placeholders[j] = "(?, ?, '', 0, ?, ?, ?)"
			args = append(args, int64(p.SteamID), p.Rating, string(favorites), now, now)
		}

		query := fmt.Sprintf(`
			INSERT INTO players (steam_id, rating, comment, patreon_level, patreon_chat_wheel_favorites, created_at, updated_at)
			VALUES %s
			ON CONFLICT (steam_id) DO NOTHING`, strings.Join(placeholders, ", "))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert players: %w", err)
		}
	}

	return tx.Commit()
}

// ApplyRatingDeltas applies one match's worth of rating movements as
// relative deltas in a single transaction. Writing `rating + delta`
// instead of an absolute value means two overlapping matches touching the
// same player serialize on the row and neither movement is lost. The
// returned changes carry the old and new ratings the transaction actually
// observed, which is what rating history must record.
func (r *PlayerRepository) ApplyRatingDeltas(ctx context.Context, changes []domain.RatingChange) ([]domain.RatingChange, error) {
	if len(changes) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	applied := make([]domain.RatingChange, len(changes))
	for i, c := range changes {
		_, err := tx.ExecContext(ctx,
			"UPDATE players SET rating = rating + ?, updated_at = ? WHERE steam_id = ?",
			c.Delta, now, int64(c.SteamID))
		if err != nil {
			return nil, fmt.Errorf("failed to update rating for player %d: %w", c.SteamID, err)
		}

		var newRating int
		if err := tx.QueryRowContext(ctx,
			"SELECT rating FROM players WHERE steam_id = ?", int64(c.SteamID)).Scan(&newRating); err != nil {
			return nil, fmt.Errorf("failed to read updated rating for player %d: %w", c.SteamID, err)
		}

		applied[i] = c
		applied[i].OldRating = newRating - c.Delta
		applied[i].NewRating = newRating
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rating update: %w", err)
	}
	return applied, nil
}

func (r *PlayerRepository) UpdatePatreonSettings(ctx context.Context, steamID uint64, update domain.PatreonUpdate) error {
	favorites, err := json.Marshal(update.ChatWheelFavorites)
	if err != nil {
		return fmt.Errorf("failed to marshal chat wheel favorites: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE players
		SET patreon_emblem_enabled = ?, patreon_emblem_color = ?,
			patreon_boots_enabled = ?, patreon_chat_wheel_favorites = ?, updated_at = ?
		WHERE steam_id = ?`,
		update.EmblemEnabled, update.EmblemColor, update.BootsEnabled,
		string(favorites), time.Now(), int64(steamID))
	if err != nil {
		return fmt.Errorf("failed to update patreon settings for player %d: %w", steamID, err)
	}
	return nil
}

func (r *PlayerRepository) TopPlayers(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT steam_id, rating, persona_name FROM players ORDER BY rating DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top players: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var steamID int64
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&steamID, &entry.Rating, &entry.PersonaName); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entry.SteamID = uint64(steamID)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// StalePersonas returns players whose cached Steam persona name is older
// than ttl, for background refresh.
func (r *PlayerRepository) StalePersonas(ctx context.Context, ttl time.Duration, limit int) ([]uint64, error) {
	cutoff := time.Now().Add(-ttl)
	rows, err := r.db.QueryContext(ctx, `
		SELECT steam_id FROM players
		WHERE persona_updated_at IS NULL OR persona_updated_at < ?
		ORDER BY rating DESC LIMIT ?`, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query stale personas: %w", err)
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan steam id: %w", err)
		}
		ids = append(ids, uint64(id))
	}
	return ids, rows.Err()
}

func (r *PlayerRepository) SetPersonaName(ctx context.Context, steamID uint64, name string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE players SET persona_name = ?, persona_updated_at = ? WHERE steam_id = ?",
		name, time.Now(), int64(steamID))
	if err != nil {
		return fmt.Errorf("failed to set persona name for player %d: %w", steamID, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (domain.Player, error) {
	var p domain.Player
	var steamID int64
	var favorites string
	err := row.Scan(&steamID, &p.Rating, &p.Comment, &p.PatreonLevel, &p.PatreonEndDate,
		&p.PatreonEmblemEnabled, &p.PatreonEmblemColor, &p.PatreonBootsEnabled,
		&favorites, &p.PersonaName, &p.PersonaUpdatedAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Player{}, fmt.Errorf("failed to scan player: %w", err)
	}
	p.SteamID = uint64(steamID)
	if err := json.Unmarshal([]byte(favorites), &p.PatreonChatWheelFavorites); err != nil {
		return domain.Player{}, fmt.Errorf("failed to unmarshal chat wheel favorites: %w", err)
	}
	return p, nil
}
