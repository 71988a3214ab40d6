package service

import (
	"context"

	"dota-custom-stats/internal/constants"

	"github.com/rs/zerolog"
)

// EventService fronts the match event side channel: opaque payloads are
// queued for a match and handed to the dedicated server exactly once.
type EventService struct {
	events EventStore
	logger zerolog.Logger
}

func NewEventService(events EventStore, logger zerolog.Logger) *EventService {
	return &EventService{events: events, logger: logger}
}

func (s *EventService) Enqueue(ctx context.Context, matchID int64, body string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.events.Enqueue(ctx, matchID, body)
}

// Drain hands over and forgets all queued events for a match. A match
// with nothing queued yields an empty list.
func (s *EventService) Drain(ctx context.Context, matchID int64) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	bodies, err := s.events.Drain(ctx, matchID)
	if err != nil {
		s.logger.Error().Err(err).Int64("match_id", matchID).Msg("failed to drain events")
		return nil, err
	}
	return bodies, nil
}
