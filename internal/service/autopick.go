package service

import (
	"context"
	"fmt"

	"dota-custom-stats/internal/constants"
	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/heroes"
	"dota-custom-stats/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type AutoPickService struct {
	matches MatchStore
	logger  zerolog.Logger
}

func NewAutoPickService(matches MatchStore, logger zerolog.Logger) *AutoPickService {
	return &AutoPickService{matches: matches, logger: logger}
}

type HeroSuggestion struct {
	SteamID uint64
	Heroes  []string
}

// Suggest produces up to three hero suggestions per requested player,
// preferring map-scoped pick history. Player histories are fetched
// concurrently; a player with no history simply gets an empty list.
func (s *AutoPickService) Suggest(ctx context.Context, mapName string, selected []string, steamIDs []uint64) ([]HeroSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().
		Str("map_name", mapName).
		Int("player_count", len(steamIDs)).
		Int("selected_count", len(selected)).
		Msg("computing auto-pick suggestions")

	suggestions := make([]HeroSuggestion, len(steamIDs))
	g, gCtx := errgroup.WithContext(ctx)
	for i, steamID := range steamIDs {
		i, steamID := i, steamID
		g.Go(func() error {
			onMap, err := s.matches.GetHistory(gCtx, steamID, repository.HistoryQuery{
				MapName: mapName,
				Limit:   heroes.HistoryWindow,
			})
			if err != nil {
				return fmt.Errorf("failed to fetch map history for player %d: %w", steamID, err)
			}

			global, err := s.matches.GetHistory(gCtx, steamID, repository.HistoryQuery{
				Limit: heroes.HistoryWindow,
			})
			if err != nil {
				return fmt.Errorf("failed to fetch global history for player %d: %w", steamID, err)
			}

			suggestions[i] = HeroSuggestion{
				SteamID: steamID,
				Heroes:  heroes.AutoPick(pickedHeroes(onMap), pickedHeroes(global), selected),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to compute auto-pick suggestions")
		return nil, err
	}
	return suggestions, nil
}

func pickedHeroes(history []domain.MatchOutcome) []string {
	out := make([]string, len(history))
	for i, m := range history {
		out[i] = m.Hero
	}
	return out
}
