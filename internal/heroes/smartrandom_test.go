package heroes

import (
	"fmt"
	"testing"

	"dota-custom-stats/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func picks(heroes ...string) []domain.MatchOutcome {
	out := make([]domain.MatchOutcome, len(heroes))
	for i, h := range heroes {
		out[i] = domain.MatchOutcome{Hero: h, PickReason: domain.PickReasonPick}
	}
	return out
}

func randomed(heroes ...string) []domain.MatchOutcome {
	out := make([]domain.MatchOutcome, len(heroes))
	for i, h := range heroes {
		out[i] = domain.MatchOutcome{Hero: h, PickReason: "random"}
	}
	return out
}

func TestSmartRandomPoolFromMapHistory(t *testing.T) {
	history := picks("axe", "lina", "pudge", "zeus", "tiny", "axe")

	pool, err := SmartRandomPool(history, nil)
	require.NoError(t, err)

	// 6 picks -> threshold ceil(6/20) = 1, every hero qualifies
	assert.ElementsMatch(t, []string{"axe", "lina", "pudge", "zeus", "tiny"}, pool)
}

func TestSmartRandomPoolIgnoresNonDeliberatePicks(t *testing.T) {
	history := append(picks("axe", "lina", "pudge"), randomed("zeus", "tiny", "sniper", "sven")...)

	_, err := SmartRandomPool(history, nil)

	// only three deliberate picks on map, fewer than the five needed,
	// and no global history to fall back to
	assert.ErrorIs(t, err, ErrNoStats)
}

func TestSmartRandomPoolFallsBackToGlobal(t *testing.T) {
	onMap := picks("axe", "axe", "axe")
	global := picks("axe", "lina", "pudge", "zeus", "tiny")

	pool, err := SmartRandomPool(onMap, global)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"axe", "lina", "pudge", "zeus", "tiny"}, pool)
}

func TestSmartRandomPoolSmallPoolIsNoStats(t *testing.T) {
	// two qualifying heroes is never returned as a partial pool
	global := picks("axe", "lina")

	_, err := SmartRandomPool(nil, global)

	assert.ErrorIs(t, err, ErrNoStats)
}

func TestSmartRandomPoolEmptyHistory(t *testing.T) {
	_, err := SmartRandomPool(nil, nil)
	assert.ErrorIs(t, err, ErrNoStats)
}

func TestSmartRandomPoolThresholdAtTwentyPicks(t *testing.T) {
	// 20 considered picks -> threshold ceil(20/20) = 1: a hero seen once
	// still qualifies
	var heroes []string
	for i := 0; i < 20; i++ {
		heroes = append(heroes, fmt.Sprintf("hero%d", i))
	}

	pool, err := SmartRandomPool(picks(heroes...), nil)
	require.NoError(t, err)
	assert.Len(t, pool, 20)
}

func TestSmartRandomPoolThresholdAboveTwentyPicks(t *testing.T) {
	// 21 considered picks -> threshold 2: singletons drop out
	heroes := []string{"axe", "axe", "lina", "lina", "pudge", "pudge"}
	for i := 0; i < 15; i++ {
		heroes = append(heroes, fmt.Sprintf("hero%d", i))
	}
	require.Len(t, heroes, 21)

	pool, err := SmartRandomPool(picks(heroes...), nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"axe", "lina", "pudge"}, pool)
}

func TestSmartRandomPoolSmallSampleStillUsesMapScope(t *testing.T) {
	// 12 map picks with one hero repeating: threshold 1, so five or more
	// distinct heroes keep the map pool in play despite the small sample
	history := picks("axe", "axe", "axe", "lina", "pudge", "zeus", "tiny", "sniper", "sven", "axe", "lion", "oracle")

	pool, err := SmartRandomPool(history, picks("riki", "riki", "riki", "mars", "io"))
	require.NoError(t, err)

	assert.Contains(t, pool, "axe")
	assert.Contains(t, pool, "oracle")
	assert.NotContains(t, pool, "riki")
}

func TestSmartRandomPoolWindowBounded(t *testing.T) {
	// 110 picks of the same few heroes: only the most recent 100 are
	// considered, threshold stays ceil(100/20) = 5
	var heroes []string
	for i := 0; i < 110; i++ {
		heroes = append(heroes, fmt.Sprintf("hero%d", i%6))
	}

	pool, err := SmartRandomPool(picks(heroes...), nil)
	require.NoError(t, err)
	assert.Len(t, pool, 6)
}
