package service

import (
	"context"
	"fmt"

	"dota-custom-stats/internal/api"
	"dota-custom-stats/internal/constants"
	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/leaderboard"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LeaderboardService serves the standalone top ranking view and keeps
// cached Steam persona names fresh in the background.
type LeaderboardService struct {
	players PlayerStore
	steam   *api.SteamClient
	logger  zerolog.Logger
}

func NewLeaderboardService(players PlayerStore, steam *api.SteamClient, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{players: players, steam: steam, logger: logger}
}

func (s *LeaderboardService) Top(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	top, err := s.players.TopPlayers(ctx, leaderboard.TopPlayers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top players: %w", err)
	}

	if s.steam.Enabled() {
		go s.refreshStalePersonas()
	}
	return top, nil
}

// refreshStalePersonas resolves persona names whose cache has expired.
// Best effort: failures only log.
func (s *LeaderboardService) refreshStalePersonas() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.ExternalAPITimeout)
	defer cancel()

	stale, err := s.players.StalePersonas(ctx, constants.PersonaCacheTTL, leaderboard.TopPlayers)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to list stale personas")
		return
	}
	if len(stale) == 0 {
		return
	}

	summaries, err := s.steam.GetPlayerSummaries(ctx, stale)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to fetch steam player summaries")
		return
	}

	g := new(errgroup.Group)
	for id, summary := range summaries {
		id, summary := id, summary
		g.Go(func() error {
			return s.players.SetPersonaName(ctx, id, summary.PersonaName)
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to store persona names")
		return
	}
	s.logger.Info().Int("count", len(summaries)).Msg("persona names refreshed")
}
