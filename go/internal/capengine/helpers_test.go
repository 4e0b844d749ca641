package capengine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/shopspring/decimal"
)

func testLeague() models.League {
	return models.League{
		ID:                       uuid.New(),
		Name:                     "Dynasty Test League",
		Season:                   2025,
		SalaryCap:                200_000_000,
		AnnualIncreasePercentage: decimal.RequireFromString("0.15"),
		MinimumSalary:            500_000,
		MaxFranchiseTags:         1,
		DeadMoneyConfig: models.DeadMoneyConfig{
			CurrentSeason: decimal.RequireFromString("1.0"),
			FutureSeasons: map[int]decimal.Decimal{
				1: decimal.RequireFromString("0.25"),
				2: decimal.RequireFromString("0.5"),
				3: decimal.RequireFromString("0.5"),
				4: decimal.RequireFromString("0.75"),
			},
		},
	}
}

func mustPolicy(t *testing.T, league models.League) LeaguePolicy {
	t.Helper()
	p, err := NewLeaguePolicy(league)
	if err != nil {
		t.Fatalf("NewLeaguePolicy() error = %v", err)
	}
	return p
}

func testContract(teamID uuid.UUID, salary int64, years int) models.Contract {
	return models.Contract{
		ID:              uuid.New(),
		PlayerID:        uuid.New(),
		TeamID:          teamID,
		Position:        models.PositionWR,
		OriginalSalary:  salary,
		CurrentSalary:   salary,
		OriginalYears:   max(years, 1),
		YearsRemaining:  years,
		TotalValue:      salary * int64(max(years, 1)),
		AcquisitionType: models.AcquisitionTypeAuction,
		Status:          models.ContractStatusActive,
		SignedSeason:    2025,
	}
}
