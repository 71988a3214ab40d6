package fx

import (
	"dota-custom-stats/internal/api"
	"dota-custom-stats/internal/config"
	"dota-custom-stats/internal/database"
	"dota-custom-stats/internal/logger"
	"dota-custom-stats/internal/repository"
	"dota-custom-stats/internal/server"
	"dota-custom-stats/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewPlayerRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewEventRepository),
	fx.Provide(repository.NewRatingHistoryRepository),
	// store interfaces
	fx.Provide(func(r *repository.PlayerRepository) service.PlayerStore { return r }),
	fx.Provide(func(r *repository.MatchRepository) service.MatchStore { return r }),
	fx.Provide(func(r *repository.EventRepository) service.EventStore { return r }),
	fx.Provide(func(r *repository.RatingHistoryRepository) service.RatingHistoryStore { return r }),
	// api client
	fx.Provide(api.NewSteamClient),
	// svc
	fx.Provide(service.NewAutoPickService),
	fx.Provide(service.NewPreMatchService),
	fx.Provide(service.NewPostMatchService),
	fx.Provide(service.NewEventService),
	fx.Provide(service.NewLeaderboardService),
	// server
	fx.Provide(server.NewStatsServer),
)
