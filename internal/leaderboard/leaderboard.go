// Package leaderboard merges the global top ranking with the players a
// request cares about into one consistently ordered view.
package leaderboard

import (
	"sort"

	"dota-custom-stats/internal/domain"
)

// TopPlayers is how many players the global ranking holds.
const TopPlayers = 100

// Merge combines the fetched top ranking with interested players (match
// participants, previewed players) that did not make the cut. A player
// already in the top list is never duplicated; the interested entry's
// rating wins are already reflected because the caller fetches ratings
// after any same-request mutation. Output is ordered by rating descending.
func Merge(top []domain.LeaderboardEntry, interested []domain.LeaderboardEntry) []domain.LeaderboardEntry {
	inTop := make(map[uint64]struct{}, len(top))
	for _, e := range top {
		inTop[e.SteamID] = struct{}{}
	}

	merged := make([]domain.LeaderboardEntry, 0, len(top)+len(interested))
	merged = append(merged, top...)
	for _, e := range interested {
		if _, ok := inTop[e.SteamID]; ok {
			continue
		}
		inTop[e.SteamID] = struct{}{}
		merged = append(merged, e)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Rating > merged[j].Rating
	})
	return merged
}
