// Package heroes holds the two hero recommendation heuristics: the
// deterministic pre-draft suggestion and the pick-frequency pool used for
// smart random assignment.
package heroes

import "sort"

// HistoryWindow bounds how much recent history either heuristic looks at.
const HistoryWindow = 100

const (
	// Suggestions is how many heroes AutoPick returns at most.
	Suggestions = 3

	// bestHeroesLimit caps the intermediate frequency ranking.
	bestHeroesLimit = 10
)

// AutoPick suggests up to three heroes for a player entering a draft.
// heroesOnMap and heroesGlobal are the player's most recent picks,
// most-recent-first, already bounded by HistoryWindow. Heroes already
// claimed in the draft are excluded. The map-scoped ranking is preferred
// when it has at least Suggestions entries, otherwise the global ranking
// is used. A short result is fine; the drafting UI tolerates it.
func AutoPick(heroesOnMap, heroesGlobal []string, selected []string) []string {
	bestOnMap := bestHeroes(heroesOnMap, selected)
	bestGlobal := bestHeroes(heroesGlobal, selected)

	best := bestOnMap
	if len(best) < Suggestions {
		best = bestGlobal
	}
	if len(best) > Suggestions {
		best = best[:Suggestions]
	}
	return best
}

// bestHeroes ranks heroes by pick count, descending. Ties keep the order
// heroes were first encountered in, which makes the ranking stable for
// identical inputs.
func bestHeroes(heroes []string, selected []string) []string {
	taken := make(map[string]struct{}, len(selected))
	for _, h := range selected {
		taken[h] = struct{}{}
	}

	counts := make(map[string]int)
	var order []string
	for _, h := range heroes {
		if _, ok := taken[h]; ok {
			continue
		}
		if counts[h] == 0 {
			order = append(order, h)
		}
		counts[h]++
	}

	// stable sort keeps equal counts in first-encountered order
	ranked := append([]string(nil), order...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return counts[ranked[i]] > counts[ranked[j]]
	})

	if len(ranked) > bestHeroesLimit {
		ranked = ranked[:bestHeroesLimit]
	}
	return ranked
}
