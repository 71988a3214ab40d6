package service

import (
	"context"
	"sort"
	"strconv"
	"time"

	"dota-custom-stats/internal/domain"
	"dota-custom-stats/internal/repository"
)

// In-memory stores backing the service tests.

type fakePlayerStore struct {
	players        map[uint64]domain.Player
	patreonUpdates map[uint64]domain.PatreonUpdate
}

func newFakePlayerStore(players ...domain.Player) *fakePlayerStore {
	s := &fakePlayerStore{
		players:        make(map[uint64]domain.Player),
		patreonUpdates: make(map[uint64]domain.PatreonUpdate),
	}
	for _, p := range players {
		s.players[p.SteamID] = p
	}
	return s
}

func (s *fakePlayerStore) GetBySteamIDs(_ context.Context, steamIDs []uint64) ([]domain.Player, error) {
	var out []domain.Player
	for _, id := range steamIDs {
		if p, ok := s.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakePlayerStore) CreateBatch(_ context.Context, players []domain.Player) error {
	for _, p := range players {
		if _, ok := s.players[p.SteamID]; !ok {
			s.players[p.SteamID] = p
		}
	}
	return nil
}

func (s *fakePlayerStore) ApplyRatingDeltas(_ context.Context, changes []domain.RatingChange) ([]domain.RatingChange, error) {
	applied := make([]domain.RatingChange, len(changes))
	for i, c := range changes {
		p := s.players[c.SteamID]
		p.SteamID = c.SteamID
		old := p.Rating
		p.Rating = old + c.Delta
		s.players[c.SteamID] = p

		applied[i] = c
		applied[i].OldRating = old
		applied[i].NewRating = p.Rating
	}
	return applied, nil
}

func (s *fakePlayerStore) UpdatePatreonSettings(_ context.Context, steamID uint64, update domain.PatreonUpdate) error {
	s.patreonUpdates[steamID] = update
	return nil
}

func (s *fakePlayerStore) TopPlayers(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	entries := make([]domain.LeaderboardEntry, 0, len(s.players))
	for _, p := range s.players {
		entries = append(entries, domain.LeaderboardEntry{
			SteamID:     p.SteamID,
			Rating:      p.Rating,
			PersonaName: p.PersonaName,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rating > entries[j].Rating })
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (s *fakePlayerStore) StalePersonas(context.Context, time.Duration, int) ([]uint64, error) {
	return nil, nil
}

func (s *fakePlayerStore) SetPersonaName(_ context.Context, steamID uint64, name string) error {
	p := s.players[steamID]
	p.PersonaName = name
	s.players[steamID] = p
	return nil
}

type fakeMatchStore struct {
	savedMatches map[int64]domain.Match
	savedPlayers map[int64][]domain.MatchPlayer
	histories    map[uint64][]domain.MatchOutcome
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{
		savedMatches: make(map[int64]domain.Match),
		savedPlayers: make(map[int64][]domain.MatchPlayer),
		histories:    make(map[uint64][]domain.MatchOutcome),
	}
}

func (s *fakeMatchStore) SaveMatch(_ context.Context, match domain.Match, players []domain.MatchPlayer) error {
	s.savedMatches[match.MatchID] = match
	s.savedPlayers[match.MatchID] = players
	return nil
}

func (s *fakeMatchStore) GetHistory(_ context.Context, steamID uint64, q repository.HistoryQuery) ([]domain.MatchOutcome, error) {
	var out []domain.MatchOutcome
	for _, m := range s.histories[steamID] {
		if q.MapName != "" && m.MapName != q.MapName {
			continue
		}
		out = append(out, m)
		if len(out) == q.Limit {
			break
		}
	}
	return out, nil
}

type fakeEventStore struct {
	queues map[int64][]string
	nextID int
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{queues: make(map[int64][]string)}
}

func (s *fakeEventStore) Enqueue(_ context.Context, matchID int64, body string) (string, error) {
	s.queues[matchID] = append(s.queues[matchID], body)
	s.nextID++
	return "evt-" + strconv.Itoa(s.nextID), nil
}

func (s *fakeEventStore) Drain(_ context.Context, matchID int64) ([]string, error) {
	bodies := s.queues[matchID]
	delete(s.queues, matchID)
	if bodies == nil {
		bodies = []string{}
	}
	return bodies, nil
}

type fakeRatingHistoryStore struct {
	records []domain.RatingChange
}

func (s *fakeRatingHistoryStore) InsertBatch(_ context.Context, records []domain.RatingChange) error {
	s.records = append(s.records, records...)
	return nil
}

func (s *fakeRatingHistoryStore) GetBySteamID(_ context.Context, steamID uint64, limit int) ([]domain.RatingChange, error) {
	var out []domain.RatingChange
	for _, r := range s.records {
		if r.SteamID == steamID {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
