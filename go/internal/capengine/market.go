package capengine

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/shopspring/decimal"
)

// TagPoolSize is how many of the highest salaries at a position set its tag price.
const TagPoolSize = 10

// PositionMarket is a timestamped snapshot of a position's top salaries in a league.
type PositionMarket struct {
	LeagueID   uuid.UUID       `json:"league_id"`
	Position   models.Position `json:"position"`
	Average    int64           `json:"average"`
	SampleSize int             `json:"sample_size"`
	FetchedAt  time.Time       `json:"fetched_at"`
	FreshFor   time.Duration   `json:"fresh_for"`
}

// Fresh reports whether the snapshot may still be used at now. A zero
// freshness window never expires.
func (m PositionMarket) Fresh(now time.Time) bool {
	if m.FreshFor <= 0 {
		return true
	}
	return now.Before(m.FetchedAt.Add(m.FreshFor))
}

// NewPositionMarket builds a snapshot from league contracts. Contracts at other
// positions or outside the cap are ignored.
func NewPositionMarket(leagueID uuid.UUID, position models.Position, contracts []models.Contract, fetchedAt time.Time, freshFor time.Duration) PositionMarket {
	top := TopSalaries(position, contracts, TagPoolSize)

	m := PositionMarket{
		LeagueID:   leagueID,
		Position:   position,
		SampleSize: len(top),
		FetchedAt:  fetchedAt,
		FreshFor:   freshFor,
	}
	if len(top) == 0 {
		return m
	}

	sum := decimal.Zero
	for _, s := range top {
		sum = sum.Add(decimal.NewFromInt(s))
	}
	m.Average = sum.Div(decimal.NewFromInt(int64(len(top)))).Round(0).IntPart()
	return m
}

// TopSalaries returns up to n current salaries of ACTIVE contracts at position,
// highest first. Tagged and extended deals are left out of the pool.
func TopSalaries(position models.Position, contracts []models.Contract, n int) []int64 {
	salaries := make([]int64, 0, len(contracts))
	for _, c := range contracts {
		if c.Position != position || c.Status != models.ContractStatusActive {
			continue
		}
		salaries = append(salaries, c.CurrentSalary)
	}
	sort.Slice(salaries, func(i, j int) bool { return salaries[i] > salaries[j] })
	if len(salaries) > n {
		salaries = salaries[:n]
	}
	return salaries
}
