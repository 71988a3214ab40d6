package heroes

import (
	"errors"
	"math"

	"dota-custom-stats/internal/domain"
)

// ErrNoStats means the player has too little deliberate-pick history to
// build a random-assignment pool. This is a normal outcome for new or
// low-volume players, not a failure.
var ErrNoStats = errors.New("heroes: not enough pick history for a smart random pool")

const (
	// minMapPool is how many distinct heroes the map-scoped pool needs
	// before it is preferred over the global one.
	minMapPool = 5

	// minPool is the smallest pool ever returned. A pool of one or two
	// heroes would make "random" assignment near-deterministic.
	minPool = 3

	// poolDivisor sets the qualifying threshold: ceil(considered/20).
	poolDivisor = 20.0
)

// SmartRandomPool derives the set of heroes a player may receive via
// random assignment. Both histories are most-recent-first. Only
// deliberate picks (PickReason "pick") count; the map-scoped pool wins
// when it is broad enough, otherwise the global history is consulted.
func SmartRandomPool(matchesOnMap, matchesGlobal []domain.MatchOutcome) ([]string, error) {
	pool := qualifyingHeroes(matchesOnMap)
	if len(pool) < minMapPool {
		pool = qualifyingHeroes(matchesGlobal)
	}
	if len(pool) < minPool {
		return nil, ErrNoStats
	}
	return pool, nil
}

// qualifyingHeroes keeps heroes picked at least ceil(n/20) times within
// the considered window of deliberate picks.
func qualifyingHeroes(matches []domain.MatchOutcome) []string {
	var picks []string
	for _, m := range matches {
		if m.PickReason != domain.PickReasonPick {
			continue
		}
		picks = append(picks, m.Hero)
		if len(picks) == HistoryWindow {
			break
		}
	}

	threshold := int(math.Ceil(float64(len(picks)) / poolDivisor))

	counts := make(map[string]int)
	var order []string
	for _, h := range picks {
		if counts[h] == 0 {
			order = append(order, h)
		}
		counts[h]++
	}

	var pool []string
	for _, h := range order {
		if counts[h] >= threshold {
			pool = append(pool, h)
		}
	}
	return pool
}
