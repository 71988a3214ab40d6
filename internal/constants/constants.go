package constants

import "time"

const (
	// HistoryFetchLimit bounds how many participations a single history
	// query returns. The analytical heuristics window at 100; the extra
	// headroom keeps streak and average computations close to the full
	// map history.
	HistoryFetchLimit = 1000

	// RatingHistoryLimit bounds how many rating movements the per-player
	// history endpoint returns.
	RatingHistoryLimit = 100
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// PersonaCacheTTL is how long a resolved Steam persona name stays
	// fresh before the leaderboard triggers a background refresh.
	PersonaCacheTTL = 24 * time.Hour
)
