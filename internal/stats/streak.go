// Package stats derives win streaks and rolling averages from a player's
// match history.
package stats

import (
	"dota-custom-stats/internal/domain"
)

// Summary aggregates a player's map-scoped history. All fields default to
// zero for a player with no history.
type Summary struct {
	Streak         int
	BestStreak     int
	AverageKills   float64
	AverageDeaths  float64
	AverageAssists float64
	Wins           int
	Loses          int
}

// Summarize computes the summary over matches ordered most-recent-first.
// The current streak counts wins from the front until the first loss; the
// best streak is the longest contiguous win run anywhere in the history.
func Summarize(matches []domain.MatchOutcome) Summary {
	var s Summary

	var kills, deaths, assists int
	run := 0
	for i, m := range matches {
		if m.IsWinner {
			s.Wins++
			run++
			if run > s.BestStreak {
				s.BestStreak = run
			}
			if run == i+1 {
				s.Streak = run
			}
		} else {
			s.Loses++
			run = 0
		}
		kills += m.Kills
		deaths += m.Deaths
		assists += m.Assists
	}

	if n := len(matches); n > 0 {
		s.AverageKills = float64(kills) / float64(n)
		s.AverageDeaths = float64(deaths) / float64(n)
		s.AverageAssists = float64(assists) / float64(n)
	}
	return s
}
