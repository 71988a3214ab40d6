package service

import (
	"context"
	"testing"

	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/rating"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPostMatchService(players *fakePlayerStore, matches *fakeMatchStore, history *fakeRatingHistoryStore) *PostMatchService {
	return NewPostMatchService(players, matches, history, zerolog.Nop())
}

func report(winner int, players ...MatchReportPlayer) MatchReport {
	return MatchReport{
		CustomGame: "12v12",
		MatchID:    4242,
		MapName:    "forest",
		Winner:     winner,
		Duration:   1800,
		Players:    players,
	}
}

func TestAfterUpdatesRatings(t *testing.T) {
	players := newFakePlayerStore(
		domain.Player{SteamID: 1, Rating: 1900},
		domain.Player{SteamID: 2, Rating: 1900},
		domain.Player{SteamID: 3, Rating: 2100},
		domain.Player{SteamID: 4, Rating: 2100},
	)
	matches := newFakeMatchStore()
	svc := newPostMatchService(players, matches, &fakeRatingHistoryStore{})

	board, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 1, Team: 2, Hero: "axe"},
		MatchReportPlayer{SteamID: 2, Team: 2, Hero: "lina"},
		MatchReportPlayer{SteamID: 3, Team: 3, Hero: "pudge"},
		MatchReportPlayer{SteamID: 4, Team: 3, Hero: "zeus"},
	))
	require.NoError(t, err)

	assert.Equal(t, 1935, players.players[1].Rating)
	assert.Equal(t, 1935, players.players[2].Rating)
	assert.Equal(t, 2065, players.players[3].Rating)
	assert.Equal(t, 2065, players.players[4].Rating)

	// leaderboard reflects post-update ratings
	require.Len(t, board, 4)
	assert.Equal(t, 2065, board[0].Rating)
	assert.Equal(t, 1935, board[2].Rating)
}

func TestAfterMaterializesNewPlayers(t *testing.T) {
	players := newFakePlayerStore(
		domain.Player{SteamID: 11, Rating: 2000},
		domain.Player{SteamID: 12, Rating: 2000},
		domain.Player{SteamID: 13, Rating: 2000},
	)
	matches := newFakeMatchStore()
	svc := newPostMatchService(players, matches, &fakeRatingHistoryStore{})

	_, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 10, Team: 2, Hero: "axe"}, // never seen before
		MatchReportPlayer{SteamID: 11, Team: 2, Hero: "lina"},
		MatchReportPlayer{SteamID: 12, Team: 3, Hero: "pudge"},
		MatchReportPlayer{SteamID: 13, Team: 3, Hero: "zeus"},
	))
	require.NoError(t, err)

	// seeded at 2000, then +30 for the win
	assert.Equal(t, 2030, players.players[10].Rating)
	assert.Equal(t, 2030, players.players[11].Rating)
	assert.Equal(t, 1970, players.players[12].Rating)
	assert.Equal(t, 1970, players.players[13].Rating)
}

func TestAfterPersistsMatchAndParticipations(t *testing.T) {
	players := newFakePlayerStore()
	matches := newFakeMatchStore()
	svc := newPostMatchService(players, matches, &fakeRatingHistoryStore{})

	_, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 1, Team: 2, Hero: "axe", PickReason: "pick", Kills: 7},
		MatchReportPlayer{SteamID: 2, Team: 3, Hero: "lina", PickReason: "random"},
	))
	require.NoError(t, err)

	saved, ok := matches.savedMatches[4242]
	require.True(t, ok)
	assert.Equal(t, "12v12", saved.CustomGame)
	assert.Equal(t, "forest", saved.MapName)
	assert.Equal(t, 2, saved.Winner)

	parts := matches.savedPlayers[4242]
	require.Len(t, parts, 2)
	assert.Equal(t, "axe", parts[0].Hero)
	assert.Equal(t, 7, parts[0].Kills)
	assert.Equal(t, "random", parts[1].PickReason)
}

func TestAfterRecordsRatingHistory(t *testing.T) {
	players := newFakePlayerStore(
		domain.Player{SteamID: 1, Rating: 2000},
		domain.Player{SteamID: 2, Rating: 2000},
	)
	history := &fakeRatingHistoryStore{}
	svc := newPostMatchService(players, newFakeMatchStore(), history)

	_, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 1, Team: 2, Hero: "axe"},
		MatchReportPlayer{SteamID: 2, Team: 3, Hero: "lina"},
	))
	require.NoError(t, err)

	require.Len(t, history.records, 2)
	for _, rec := range history.records {
		assert.Equal(t, int64(4242), rec.MatchID)
		assert.Equal(t, rec.NewRating-rec.OldRating, rec.Delta)
	}
}

func TestAfterAppliesPatreonUpdates(t *testing.T) {
	players := newFakePlayerStore(domain.Player{SteamID: 1, Rating: 2000})
	svc := newPostMatchService(players, newFakeMatchStore(), &fakeRatingHistoryStore{})

	update := &domain.PatreonUpdate{EmblemEnabled: true, EmblemColor: "Gold", ChatWheelFavorites: []int{3, 7}}
	_, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 1, Team: 2, Hero: "axe", PatreonUpdate: update},
		MatchReportPlayer{SteamID: 2, Team: 3, Hero: "lina"},
	))
	require.NoError(t, err)

	applied, ok := players.patreonUpdates[1]
	require.True(t, ok)
	assert.Equal(t, "Gold", applied.EmblemColor)
	assert.Equal(t, []int{3, 7}, applied.ChatWheelFavorites)
}

// staleSnapshotPlayerStore serves reads from a fixed snapshot while
// writes hit the live store, imitating a match that finished between this
// match's read and its write.
type staleSnapshotPlayerStore struct {
	*fakePlayerStore
	snapshot []domain.Player
}

func (s *staleSnapshotPlayerStore) GetBySteamIDs(context.Context, []uint64) ([]domain.Player, error) {
	return s.snapshot, nil
}

func TestAfterDoesNotLoseConcurrentRatingMovement(t *testing.T) {
	// player 1 already moved to 2010 after our snapshot was taken
	store := newFakePlayerStore(
		domain.Player{SteamID: 1, Rating: 2010},
		domain.Player{SteamID: 2, Rating: 2000},
	)
	players := &staleSnapshotPlayerStore{
		fakePlayerStore: store,
		snapshot: []domain.Player{
			{SteamID: 1, Rating: 2000},
			{SteamID: 2, Rating: 2000},
		},
	}
	history := &fakeRatingHistoryStore{}
	svc := NewPostMatchService(players, newFakeMatchStore(), history, zerolog.Nop())

	_, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 1, Team: 2, Hero: "axe"},
		MatchReportPlayer{SteamID: 2, Team: 3, Hero: "lina"},
	))
	require.NoError(t, err)

	// the +30 from this match lands on top of the concurrent movement
	assert.Equal(t, 2040, store.players[1].Rating)
	assert.Equal(t, 1970, store.players[2].Rating)

	// history records what the store observed, not the stale snapshot
	require.Len(t, history.records, 2)
	for _, rec := range history.records {
		if rec.SteamID == 1 {
			assert.Equal(t, 2010, rec.OldRating)
			assert.Equal(t, 2040, rec.NewRating)
		}
	}
}

func TestAfterRejectsOneSidedMatch(t *testing.T) {
	svc := newPostMatchService(newFakePlayerStore(), newFakeMatchStore(), &fakeRatingHistoryStore{})

	_, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 1, Team: 3, Hero: "axe"},
		MatchReportPlayer{SteamID: 2, Team: 3, Hero: "lina"},
	))

	assert.ErrorIs(t, err, rating.ErrInvalidTeamComposition)
}

func TestAfterLeaderboardHasNoDuplicates(t *testing.T) {
	players := newFakePlayerStore(
		domain.Player{SteamID: 1, Rating: 2500},
		domain.Player{SteamID: 2, Rating: 2000},
	)
	svc := newPostMatchService(players, newFakeMatchStore(), &fakeRatingHistoryStore{})

	board, err := svc.After(context.Background(), report(2,
		MatchReportPlayer{SteamID: 1, Team: 2, Hero: "axe"},
		MatchReportPlayer{SteamID: 2, Team: 3, Hero: "lina"},
	))
	require.NoError(t, err)

	seen := make(map[uint64]int)
	for _, e := range board {
		seen[e.SteamID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "player %d duplicated", id)
	}
}
