package service

import (
	"context"
	"time"

	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/repository"
)

// Store interfaces cover exactly what the services need from the
// persistence layer; the repository types satisfy them.

type PlayerStore interface {
	GetBySteamIDs(ctx context.Context, steamIDs []uint64) ([]domain.Player, error)
	CreateBatch(ctx context.Context, players []domain.Player) error
	ApplyRatingDeltas(ctx context.Context, changes []domain.RatingChange) ([]domain.RatingChange, error)
	UpdatePatreonSettings(ctx context.Context, steamID uint64, update domain.PatreonUpdate) error
	TopPlayers(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	StalePersonas(ctx context.Context, ttl time.Duration, limit int) ([]uint64, error)
	SetPersonaName(ctx context.Context, steamID uint64, name string) error
}

type MatchStore interface {
	SaveMatch(ctx context.Context, match domain.Match, players []domain.MatchPlayer) error
	GetHistory(ctx context.Context, steamID uint64, q repository.HistoryQuery) ([]domain.MatchOutcome, error)
}

type EventStore interface {
	Enqueue(ctx context.Context, matchID int64, body string) (string, error)
	Drain(ctx context.Context, matchID int64) ([]string, error)
}

type RatingHistoryStore interface {
	InsertBatch(ctx context.Context, records []domain.RatingChange) error
	GetBySteamID(ctx context.Context, steamID uint64, limit int) ([]domain.RatingChange, error)
}
