package parlay

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cypherlabdev/value-bet-service/internal/models"
)

// Slip is a user's working selection of bets. It is not safe for
// concurrent use.
type Slip struct {
	onePerFixture bool
	selections    []models.BetCandidate
}

// NewSlip creates an empty slip. With onePerFixture set, a second pick on a
// fixture already in the slip is rejected.
func NewSlip(onePerFixture bool) *Slip {
	return &Slip{onePerFixture: onePerFixture}
}

// Add appends a bet to the slip
func (s *Slip) Add(c models.BetCandidate) error {
	if c.Fixture.ID == "" {
		return models.InvalidInputf("selection has no fixture")
	}
	if !models.ValidOdd(c.OfferedOdd) {
		return fmt.Errorf("%w: fixture %s market %s odd %v", models.ErrInvalidOdd, c.Fixture.ID, c.Market, c.OfferedOdd)
	}
	for _, existing := range s.selections {
		if existing.Fixture.ID != c.Fixture.ID {
			continue
		}
		if existing.Market == c.Market {
			return models.InvalidInputf("fixture %s market %s already selected", c.Fixture.ID, c.Market)
		}
		if s.onePerFixture {
			return models.InvalidInputf("fixture %s already has a selection", c.Fixture.ID)
		}
	}
	s.selections = append(s.selections, c)
	return nil
}

// Remove drops the selection for fixture and market, reporting whether it was present
func (s *Slip) Remove(fixtureID, market string) bool {
	for i, c := range s.selections {
		if c.Fixture.ID == fixtureID && c.Market == market {
			s.selections = append(s.selections[:i], s.selections[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the slip
func (s *Slip) Clear() {
	s.selections = nil
}

// Len returns the number of selections
func (s *Slip) Len() int {
	return len(s.selections)
}

// Selections returns a copy of the selections in insertion order
func (s *Slip) Selections() []models.BetCandidate {
	return append([]models.BetCandidate(nil), s.selections...)
}

// Compute prices the slip at the given stake
func (s *Slip) Compute(stake decimal.Decimal) (*Result, error) {
	return Compute(s.selections, stake)
}
