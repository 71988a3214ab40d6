package server

import (
	"fmt"
	"strconv"
	"time"

	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/service"
)

// Steam ids travel as strings on the wire; 64-bit values do not survive
// JSON number handling in every client.

type autoPickRequest struct {
	MapName        string   `json:"map_name"`
	SelectedHeroes []string `json:"selected_heroes"`
	Players        []string `json:"players"`
}

type autoPickResponse struct {
	Players []autoPickPlayer `json:"players"`
}

type autoPickPlayer struct {
	SteamID string   `json:"steam_id"`
	Heroes  []string `json:"heroes"`
}

type beforeMatchRequest struct {
	CustomGame string   `json:"custom_game"`
	MapName    string   `json:"map_name"`
	Players    []string `json:"players"`
}

type beforeMatchResponse struct {
	Players     []beforeMatchPlayer `json:"players"`
	Leaderboard []leaderboardEntry  `json:"leader_board"`
}

type beforeMatchPlayer struct {
	SteamID                string     `json:"steam_id"`
	Patreon                patreonDTO `json:"patreon"`
	Streak                 int        `json:"streak"`
	BestStreak             int        `json:"best_streak"`
	AverageKills           float64    `json:"average_kills"`
	AverageDeaths          float64    `json:"average_deaths"`
	AverageAssists         float64    `json:"average_assists"`
	Wins                   int        `json:"wins"`
	Loses                  int        `json:"loses"`
	SmartRandomHeroes      []string   `json:"smart_random_heroes,omitempty"`
	SmartRandomHeroesError string     `json:"smart_random_heroes_error,omitempty"`
}

type patreonDTO struct {
	EndDate            *time.Time `json:"end_date,omitempty"`
	Level              int        `json:"level"`
	EmblemEnabled      bool       `json:"emblem_enabled"`
	EmblemColor        string     `json:"emblem_color"`
	BootsEnabled       bool       `json:"boots_enabled"`
	ChatWheelFavorites []int      `json:"chat_wheel_favorites"`
}

type afterMatchRequest struct {
	CustomGame string             `json:"custom_game"`
	MatchID    int64              `json:"match_id"`
	MapName    string             `json:"map_name"`
	Winner     int                `json:"winner"`
	Duration   int64              `json:"duration"`
	Players    []afterMatchPlayer `json:"players"`
}

type afterMatchPlayer struct {
	PlayerID      int               `json:"player_id"`
	SteamID       string            `json:"steam_id"`
	Team          int               `json:"team"`
	Hero          string            `json:"hero"`
	PickReason    string            `json:"pick_reason"`
	Kills         int               `json:"kills"`
	Deaths        int               `json:"deaths"`
	Assists       int               `json:"assists"`
	Level         int               `json:"level"`
	PatreonUpdate *patreonUpdateDTO `json:"patreon_update,omitempty"`
}

type patreonUpdateDTO struct {
	EmblemEnabled      bool   `json:"emblem_enabled"`
	EmblemColor        string `json:"emblem_color"`
	BootsEnabled       bool   `json:"boots_enabled"`
	ChatWheelFavorites []int  `json:"chat_wheel_favorites"`
}

type afterMatchResponse struct {
	Leaderboard []leaderboardEntry `json:"leader_board"`
}

type leaderboardEntry struct {
	SteamID     string `json:"steam_id"`
	Rating      int    `json:"rating"`
	PersonaName string `json:"persona_name,omitempty"`
}

type matchEventsRequest struct {
	MatchID int64 `json:"match_id"`
}

type enqueueEventRequest struct {
	MatchID int64  `json:"match_id"`
	Body    string `json:"body"`
}

type enqueueEventResponse struct {
	ID string `json:"id"`
}

type ratingHistoryEntry struct {
	MatchID   int64     `json:"match_id"`
	OldRating int       `json:"old_rating"`
	NewRating int       `json:"new_rating"`
	Delta     int       `json:"delta"`
	CreatedAt time.Time `json:"created_at"`
}

func parseSteamIDs(raw []string) ([]uint64, error) {
	ids := make([]uint64, len(raw))
	for i, s := range raw {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid steam id %q", s)
		}
		ids[i] = id
	}
	return ids, nil
}

func formatSteamID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func toLeaderboardDTO(entries []domain.LeaderboardEntry) []leaderboardEntry {
	out := make([]leaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = leaderboardEntry{
			SteamID:     formatSteamID(e.SteamID),
			Rating:      e.Rating,
			PersonaName: e.PersonaName,
		}
	}
	return out
}

func toBeforeMatchPlayerDTO(p service.PlayerPreview) beforeMatchPlayer {
	return beforeMatchPlayer{
		SteamID: formatSteamID(p.SteamID),
		Patreon: patreonDTO{
			EndDate:            p.Patreon.EndDate,
			Level:              p.Patreon.Level,
			EmblemEnabled:      p.Patreon.EmblemEnabled,
			EmblemColor:        p.Patreon.EmblemColor,
			BootsEnabled:       p.Patreon.BootsEnabled,
			ChatWheelFavorites: p.Patreon.ChatWheelFavorites,
		},
		Streak:                 p.Summary.Streak,
		BestStreak:             p.Summary.BestStreak,
		AverageKills:           p.Summary.AverageKills,
		AverageDeaths:          p.Summary.AverageDeaths,
		AverageAssists:         p.Summary.AverageAssists,
		Wins:                   p.Summary.Wins,
		Loses:                  p.Summary.Loses,
		SmartRandomHeroes:      p.SmartRandomPool,
		SmartRandomHeroesError: p.SmartRandomError,
	}
}
