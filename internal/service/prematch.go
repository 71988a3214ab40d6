package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dota-custom-stats/internal/constants"
	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/heroes"
	"dota-custom-stats/internal/leaderboard"
	"dota-custom-stats/internal/repository"
	"dota-custom-stats/internal/stats"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type PreMatchService struct {
	players PlayerStore
	matches MatchStore
	logger  zerolog.Logger
}

func NewPreMatchService(players PlayerStore, matches MatchStore, logger zerolog.Logger) *PreMatchService {
	return &PreMatchService{players: players, matches: matches, logger: logger}
}

// PatreonStatus is the sponsorship passthrough shown in the pre-match UI.
type PatreonStatus struct {
	EndDate            *time.Time
	Level              int
	EmblemEnabled      bool
	EmblemColor        string
	BootsEnabled       bool
	ChatWheelFavorites []int
}

// PlayerPreview is one requested player's pre-match card: form on the
// current map plus the hero pool eligible for smart random assignment.
type PlayerPreview struct {
	SteamID          uint64
	Patreon          PatreonStatus
	Summary          stats.Summary
	SmartRandomPool  []string
	SmartRandomError string
}

type PreMatchResult struct {
	Players     []PlayerPreview
	Leaderboard []domain.LeaderboardEntry
}

// NoStatsMarker is the wire token clients check for when no smart random
// pool could be built.
const NoStatsMarker = "no_stats"

func defaultPatreon() PatreonStatus {
	return PatreonStatus{
		Level:              0,
		EmblemEnabled:      true,
		EmblemColor:        "White",
		BootsEnabled:       true,
		ChatWheelFavorites: []int{},
	}
}

// Before assembles the pre-match view for every requested player. A
// player with no record at all gets default statistics and a no_stats
// marker; the request as a whole never fails for that.
func (s *PreMatchService) Before(ctx context.Context, customGame, mapName string, steamIDs []uint64) (*PreMatchResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	s.logger.Info().
		Str("custom_game", customGame).
		Str("map_name", mapName).
		Int("player_count", len(steamIDs)).
		Msg("building pre-match view")

	known, err := s.players.GetBySteamIDs(ctx, steamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	byID := make(map[uint64]domain.Player, len(known))
	for _, p := range known {
		byID[p.SteamID] = p
	}

	top, err := s.players.TopPlayers(ctx, leaderboard.TopPlayers)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top players: %w", err)
	}

	previews := make([]PlayerPreview, len(steamIDs))
	g, gCtx := errgroup.WithContext(ctx)
	for i, steamID := range steamIDs {
		player, exists := byID[steamID]
		if !exists {
			previews[i] = PlayerPreview{
				SteamID:          steamID,
				Patreon:          defaultPatreon(),
				SmartRandomError: NoStatsMarker,
			}
			continue
		}

		i := i
		g.Go(func() error {
			preview, err := s.buildPreview(gCtx, player, customGame, mapName)
			if err != nil {
				return err
			}
			previews[i] = preview
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to build pre-match view")
		return nil, err
	}

	interested := make([]domain.LeaderboardEntry, 0, len(known))
	for _, p := range known {
		interested = append(interested, domain.LeaderboardEntry{
			SteamID:     p.SteamID,
			Rating:      p.Rating,
			PersonaName: p.PersonaName,
		})
	}

	return &PreMatchResult{
		Players:     previews,
		Leaderboard: leaderboard.Merge(top, interested),
	}, nil
}

func (s *PreMatchService) buildPreview(ctx context.Context, player domain.Player, customGame, mapName string) (PlayerPreview, error) {
	onMap, err := s.matches.GetHistory(ctx, player.SteamID, repository.HistoryQuery{
		CustomGame: customGame,
		MapName:    mapName,
		Limit:      constants.HistoryFetchLimit,
	})
	if err != nil {
		return PlayerPreview{}, fmt.Errorf("failed to fetch map history for player %d: %w", player.SteamID, err)
	}

	global, err := s.matches.GetHistory(ctx, player.SteamID, repository.HistoryQuery{
		CustomGame: customGame,
		Limit:      constants.HistoryFetchLimit,
	})
	if err != nil {
		return PlayerPreview{}, fmt.Errorf("failed to fetch history for player %d: %w", player.SteamID, err)
	}

	preview := PlayerPreview{
		SteamID: player.SteamID,
		Patreon: patreonStatus(player),
		Summary: stats.Summarize(onMap),
	}

	pool, err := heroes.SmartRandomPool(onMap, global)
	switch {
	case errors.Is(err, heroes.ErrNoStats):
		preview.SmartRandomError = NoStatsMarker
	case err != nil:
		return PlayerPreview{}, err
	default:
		preview.SmartRandomPool = pool
	}
	return preview, nil
}

// patreonStatus maps the stored sponsorship columns onto the passthrough
// shape, zeroing the level once the sponsorship has lapsed.
func patreonStatus(p domain.Player) PatreonStatus {
	status := defaultPatreon()
	status.Level = p.PatreonLevel
	status.EndDate = p.PatreonEndDate
	if p.PatreonEmblemEnabled != nil {
		status.EmblemEnabled = *p.PatreonEmblemEnabled
	}
	if p.PatreonEmblemColor != nil {
		status.EmblemColor = *p.PatreonEmblemColor
	}
	if p.PatreonBootsEnabled != nil {
		status.BootsEnabled = *p.PatreonBootsEnabled
	}
	if p.PatreonChatWheelFavorites != nil {
		status.ChatWheelFavorites = p.PatreonChatWheelFavorites
	}
	if p.PatreonEndDate != nil && p.PatreonEndDate.Before(time.Now()) {
		status.Level = 0
	}
	return status
}
