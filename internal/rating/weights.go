// Package rating implements the post-match skill rating update.
package rating

// Policy constants for the rating formula. BaseAdjustment is the flat
// amount every participant moves by; the delta on top of it scales with
// the rating gap between the two teams.
const (
	// InitialRating seeds a player the first time they finish a match.
	InitialRating = 2000

	// BaseAdjustment is added to winners and subtracted from losers
	// before the gap delta is applied.
	BaseAdjustment = 30

	// DivisionPoints divides the team mean rating gap to produce the
	// raw delta.
	DivisionPoints = 40

	// MaximumDelta caps the delta from above. There is intentionally no
	// symmetric floor: a heavily favored winning team can end up with a
	// negative combined adjustment.
	MaximumDelta = 25
)
