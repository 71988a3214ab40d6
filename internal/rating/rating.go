package rating

import (
	"errors"
	"math"
)

// ErrInvalidTeamComposition is returned when no participant is on the
// winning side, or none is on the losing side. Team composition must be
// validated upstream; the engine refuses to average an empty team.
var ErrInvalidTeamComposition = errors.New("rating: match has an empty winning or losing team")

// Participant is one player's state going into the rating update.
type Participant struct {
	SteamID uint64
	Team    int
	Rating  int
}

// Update is the computed outcome for one participant. Persisting it is the
// caller's job.
type Update struct {
	SteamID   uint64
	OldRating int
	NewRating int
}

// Apply computes new ratings for every participant of a finished match.
// Winners gain BaseAdjustment plus the gap delta, losers lose the same
// amount. The input ratings must be a consistent snapshot; unseen players
// are expected to already be seeded at InitialRating.
func Apply(participants []Participant, winner int) ([]Update, error) {
	var winners, losers []Participant
	for _, p := range participants {
		if p.Team == winner {
			winners = append(winners, p)
		} else {
			losers = append(losers, p)
		}
	}

	if len(winners) == 0 || len(losers) == 0 {
		return nil, ErrInvalidTeamComposition
	}

	delta := ScoreDelta(meanRating(winners), meanRating(losers))

	updates := make([]Update, 0, len(participants))
	for _, p := range winners {
		updates = append(updates, Update{
			SteamID:   p.SteamID,
			OldRating: p.Rating,
			NewRating: p.Rating + (BaseAdjustment + delta),
		})
	}
	for _, p := range losers {
		updates = append(updates, Update{
			SteamID:   p.SteamID,
			OldRating: p.Rating,
			NewRating: p.Rating - (BaseAdjustment + delta),
		})
	}
	return updates, nil
}

// ScoreDelta converts the gap between the two team means into the extra
// adjustment on top of BaseAdjustment. A winning team that was the
// statistical underdog gets a positive delta; a favored winning team gets
// a negative one. math.Round gives the required round-half-away-from-zero
// midpoint behavior.
func ScoreDelta(averageWinningRating, averageLosingRating float64) int {
	raw := -(averageWinningRating - averageLosingRating) / DivisionPoints
	delta := int(math.Round(raw))
	if delta > MaximumDelta {
		delta = MaximumDelta
	}
	return delta
}

func meanRating(team []Participant) float64 {
	sum := 0
	for _, p := range team {
		sum += p.Rating
	}
	return float64(sum) / float64(len(team))
}
