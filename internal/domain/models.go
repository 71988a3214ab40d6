package domain

import (
	"time"
)

type Player struct {
	SteamID                   uint64
	Rating                    int
	Comment                   string
	PatreonLevel              int
	PatreonEndDate            *time.Time
	PatreonEmblemEnabled      *bool
	PatreonEmblemColor        *string
	PatreonBootsEnabled       *bool
	PatreonChatWheelFavorites []int
	PersonaName               string
	PersonaUpdatedAt          *time.Time
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// PickReasonPick marks a hero the player chose deliberately, as opposed
// to one assigned by random or another mechanism.
const PickReasonPick = "pick"

type Match struct {
	MatchID    int64
	CustomGame string
	MapName    string
	Winner     int
	Duration   int64
	EndedAt    time.Time
}

type MatchPlayer struct {
	MatchID    int64
	SteamID    uint64
	PlayerID   int
	Team       int
	Hero       string
	PickReason string
	Kills      int
	Deaths     int
	Assists    int
	Level      int
}

// PatreonUpdate is a sponsorship cosmetic-preference change submitted
// alongside a finished match.
type PatreonUpdate struct {
	EmblemEnabled      bool
	EmblemColor        string
	BootsEnabled       bool
	ChatWheelFavorites []int
}

// MatchEvent is an opaque payload queued for a match and drained once by
// the dedicated server.
type MatchEvent struct {
	ID      string // uuid
	MatchID int64
	Body    string
}

// RatingChange records one player's rating movement for one match.
type RatingChange struct {
	ID        string // nanoid
	MatchID   int64
	SteamID   uint64
	OldRating int
	NewRating int
	Delta     int
	CreatedAt time.Time
}

type LeaderboardEntry struct {
	SteamID     uint64
	Rating      int
	PersonaName string
}

// MatchOutcome is one row of a player's history as seen by the analytical
// cores: the participation joined with its match, with the outcome already
// resolved relative to the player. Rows are always ordered most-recent-first.
type MatchOutcome struct {
	MatchID    int64
	MapName    string
	Hero       string
	PickReason string
	Kills      int
	Deaths     int
	Assists    int
	IsWinner   bool
}
