package service

import (
	"context"
	"fmt"
	"time"

	"dota-custom-stats/internal/constants"
	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/leaderboard"
	"dota-custom-stats/internal/rating"

	"github.com/rs/zerolog"
)

type PostMatchService struct {
	players       PlayerStore
	matches       MatchStore
	ratingHistory RatingHistoryStore
	logger        zerolog.Logger
}

func NewPostMatchService(players PlayerStore, matches MatchStore, ratingHistory RatingHistoryStore, logger zerolog.Logger) *PostMatchService {
	return &PostMatchService{players: players, matches: matches, ratingHistory: ratingHistory, logger: logger}
}

// MatchReport is everything the dedicated server sends when a match ends.
type MatchReport struct {
	CustomGame string
	MatchID    int64
	MapName    string
	Winner     int
	Duration   int64
	Players    []MatchReportPlayer
}

type MatchReportPlayer struct {
	PlayerID      int
	SteamID       uint64
	Team          int
	Hero          string
	PickReason    string
	Kills         int
	Deaths        int
	Assists       int
	Level         int
	PatreonUpdate *domain.PatreonUpdate
}

// After records a finished match: unseen players are materialized at the
// initial rating, sponsorship preference updates are applied, the match
// and its participations are persisted, ratings are updated, and the
// refreshed leaderboard is returned with every participant included.
func (s *PostMatchService) After(ctx context.Context, report MatchReport) ([]domain.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().
		Int64("match_id", report.MatchID).
		Str("custom_game", report.CustomGame).
		Str("map_name", report.MapName).
		Int("winner", report.Winner).
		Int("player_count", len(report.Players)).
		Msg("recording finished match")

	steamIDs := make([]uint64, len(report.Players))
	for i, p := range report.Players {
		steamIDs[i] = p.SteamID
	}

	existing, err := s.players.GetBySteamIDs(ctx, steamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}

	// resolve the full player set up front: known ratings plus initial
	// seeds for first-time players
	ratings := make(map[uint64]int, len(report.Players))
	for _, p := range existing {
		ratings[p.SteamID] = p.Rating
	}
	var created []domain.Player
	for _, id := range steamIDs {
		if _, ok := ratings[id]; !ok {
			ratings[id] = rating.InitialRating
			created = append(created, domain.Player{SteamID: id, Rating: rating.InitialRating})
		}
	}
	if len(created) > 0 {
		s.logger.Info().Int("count", len(created)).Msg("materializing first-time players")
		if err := s.players.CreateBatch(ctx, created); err != nil {
			return nil, fmt.Errorf("failed to create players: %w", err)
		}
	}

	for _, p := range report.Players {
		if p.PatreonUpdate == nil {
			continue
		}
		if err := s.players.UpdatePatreonSettings(ctx, p.SteamID, *p.PatreonUpdate); err != nil {
			return nil, fmt.Errorf("failed to apply patreon update: %w", err)
		}
	}

	match := domain.Match{
		MatchID:    report.MatchID,
		CustomGame: report.CustomGame,
		MapName:    report.MapName,
		Winner:     report.Winner,
		Duration:   report.Duration,
		EndedAt:    time.Now().UTC(),
	}
	participations := make([]domain.MatchPlayer, len(report.Players))
	for i, p := range report.Players {
		participations[i] = domain.MatchPlayer{
			MatchID:    report.MatchID,
			SteamID:    p.SteamID,
			PlayerID:   p.PlayerID,
			Team:       p.Team,
			Hero:       p.Hero,
			PickReason: p.PickReason,
			Kills:      p.Kills,
			Deaths:     p.Deaths,
			Assists:    p.Assists,
			Level:      p.Level,
		}
	}
	if err := s.matches.SaveMatch(ctx, match, participations); err != nil {
		return nil, fmt.Errorf("failed to save match %d: %w", report.MatchID, err)
	}

	participants := make([]rating.Participant, len(report.Players))
	for i, p := range report.Players {
		participants[i] = rating.Participant{
			SteamID: p.SteamID,
			Team:    p.Team,
			Rating:  ratings[p.SteamID],
		}
	}
	updates, err := rating.Apply(participants, report.Winner)
	if err != nil {
		s.logger.Error().Err(err).Int64("match_id", report.MatchID).Msg("rating update refused")
		return nil, err
	}

	// deltas are applied relative to the stored rating, not as absolute
	// values, so a match that completed between our snapshot and this
	// write is never overwritten
	changes := make([]domain.RatingChange, len(updates))
	for i, u := range updates {
		changes[i] = domain.RatingChange{
			MatchID: report.MatchID,
			SteamID: u.SteamID,
			Delta:   u.NewRating - u.OldRating,
		}
	}
	applied, err := s.players.ApplyRatingDeltas(ctx, changes)
	if err != nil {
		return nil, fmt.Errorf("failed to persist ratings: %w", err)
	}
	if err := s.ratingHistory.InsertBatch(ctx, applied); err != nil {
		// history is auxiliary; the ratings themselves are already durable
		s.logger.Warn().Err(err).Int64("match_id", report.MatchID).Msg("failed to record rating history")
	}

	top, err := s.players.TopPlayers(ctx, leaderboard.TopPlayers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top players: %w", err)
	}
	interested := make([]domain.LeaderboardEntry, len(applied))
	for i, c := range applied {
		interested[i] = domain.LeaderboardEntry{SteamID: c.SteamID, Rating: c.NewRating}
	}

	s.logger.Info().Int64("match_id", report.MatchID).Msg("match recorded")
	return leaderboard.Merge(top, interested), nil
}
