package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dota-custom-stats/internal/domain"

	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// HistoryQuery narrows a player's match history. Zero values mean no
// filter; Limit must be positive.
type HistoryQuery struct {
	CustomGame string
	MapName    string
	Limit      int
}

// SaveMatch persists a finished match and all its participations in one
// transaction. Saving the same match twice is a no-op for the match row;
// participations are keyed by (match, player) and replaced.
func (r *MatchRepository) SaveMatch(ctx context.Context, match domain.Match, players []domain.MatchPlayer) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (match_id, custom_game, map_name, winner, duration, ended_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (match_id) DO NOTHING`,
		match.MatchID, match.CustomGame, match.MapName, match.Winner, match.Duration, match.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match %d: %w", match.MatchID, err)
	}

	for _, p := range players {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO match_players (match_id, steam_id, player_id, team, hero, pick_reason, kills, deaths, assists, level)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (match_id, steam_id) DO UPDATE SET
				player_id = excluded.player_id, team = excluded.team, hero = excluded.hero,
				pick_reason = excluded.pick_reason, kills = excluded.kills,
				deaths = excluded.deaths, assists = excluded.assists, level = excluded.level`,
			p.MatchID, int64(p.SteamID), p.PlayerID, p.Team, p.Hero, p.PickReason,
			p.Kills, p.Deaths, p.Assists, p.Level)
		if err != nil {
			return fmt.Errorf("failed to insert match player %d/%d: %w", p.MatchID, p.SteamID, err)
		}
	}

	return tx.Commit()
}

// GetHistory returns a player's participations joined with their matches,
// most-recent-first, with the outcome resolved relative to the player.
func (r *MatchRepository) GetHistory(ctx context.Context, steamID uint64, q HistoryQuery) ([]domain.MatchOutcome, error) {
	query := `
		SELECT mp.match_id, m.map_name, mp.hero, mp.pick_reason,
			mp.kills, mp.deaths, mp.assists, mp.team = m.winner
		FROM match_players mp
		JOIN matches m ON m.match_id = mp.match_id
		WHERE mp.steam_id = ?`
	args := []any{int64(steamID)}

	if q.CustomGame != "" {
		query += " AND m.custom_game = ?"
		args = append(args, q.CustomGame)
	}
	if q.MapName != "" {
		query += " AND m.map_name = ?"
		args = append(args, q.MapName)
	}
	query += " ORDER BY mp.match_id DESC LIMIT ?"
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history: %w", err)
	}
	defer rows.Close()

	var history []domain.MatchOutcome
	for rows.Next() {
		var o domain.MatchOutcome
		if err := rows.Scan(&o.MatchID, &o.MapName, &o.Hero, &o.PickReason,
			&o.Kills, &o.Deaths, &o.Assists, &o.IsWinner); err != nil {
			return nil, fmt.Errorf("failed to scan match history row: %w", err)
		}
		history = append(history, o)
	}
	return history, rows.Err()
}
