package stats

import (
	"testing"

	"dota-custom-stats/internal/domain"

	"github.com/stretchr/testify/assert"
)

func outcomes(results ...bool) []domain.MatchOutcome {
	out := make([]domain.MatchOutcome, len(results))
	for i, w := range results {
		out[i] = domain.MatchOutcome{IsWinner: w}
	}
	return out
}

func TestSummarizeEmptyHistory(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, Summary{}, s)
}

func TestSummarizeCurrentStreakCountsFromFront(t *testing.T) {
	// most-recent-first: win, win, loss, win
	s := Summarize(outcomes(true, true, false, true))

	assert.Equal(t, 2, s.Streak)
	assert.Equal(t, 2, s.BestStreak)
	assert.Equal(t, 3, s.Wins)
	assert.Equal(t, 1, s.Loses)
}

func TestSummarizeCurrentStreakZeroAfterLoss(t *testing.T) {
	s := Summarize(outcomes(false, true, true, true))

	assert.Equal(t, 0, s.Streak)
	assert.Equal(t, 3, s.BestStreak)
}

func TestSummarizeBestStreakInMiddle(t *testing.T) {
	s := Summarize(outcomes(true, false, true, true, true, false, true))

	assert.Equal(t, 1, s.Streak)
	assert.Equal(t, 3, s.BestStreak)
	assert.Equal(t, 5, s.Wins)
	assert.Equal(t, 2, s.Loses)
}

func TestSummarizeAllWins(t *testing.T) {
	s := Summarize(outcomes(true, true, true))

	assert.Equal(t, 3, s.Streak)
	assert.Equal(t, 3, s.BestStreak)
	assert.Equal(t, 0, s.Loses)
}

func TestSummarizeAverages(t *testing.T) {
	matches := []domain.MatchOutcome{
		{Kills: 10, Deaths: 2, Assists: 4, IsWinner: true},
		{Kills: 4, Deaths: 8, Assists: 12, IsWinner: false},
	}

	s := Summarize(matches)

	assert.InDelta(t, 7.0, s.AverageKills, 1e-9)
	assert.InDelta(t, 5.0, s.AverageDeaths, 1e-9)
	assert.InDelta(t, 8.0, s.AverageAssists, 1e-9)
}
