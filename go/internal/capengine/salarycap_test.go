package capengine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/shopspring/decimal"
)

func TestComputeTeamCap(t *testing.T) {
	p := mustPolicy(t, testLeague())
	teamID := uuid.New()

	cut := testContract(teamID, 4_000_000, 2)
	cut.Status = models.ContractStatusCut
	expired := testContract(teamID, 3_000_000, 0)
	expired.Status = models.ContractStatusExpired
	tagged := testContract(teamID, 20_000_000, 1)
	tagged.Status = models.ContractStatusTagged

	contracts := []models.Contract{
		testContract(teamID, 10_000_000, 3),
		testContract(teamID, 5_000_000, 2),
		tagged,
		cut,
		expired,
	}
	deadMoney := []models.DeadMoney{
		{TeamID: teamID, Amount: 4_000_000, Year: 2025},
		{TeamID: teamID, Amount: 2_300_000, Year: 2026},
		{TeamID: teamID, Amount: 1_000_000, Year: 2024},
	}

	got := ComputeTeamCap(p, contracts, deadMoney)
	want := TeamCap{
		SalaryCap:              200_000_000,
		UsedCap:                35_000_000,
		CurrentSeasonDeadMoney: 4_000_000,
		NextSeasonDeadMoney:    2_300_000,
		AvailableCap:           161_000_000,
		ProjectedNextSeasonCap: 200_000_000 - 40_250_000 - 2_300_000,
		ActiveContracts:        3,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeTeamCap() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeTeamCapIsIdempotent(t *testing.T) {
	p := mustPolicy(t, testLeague())
	teamID := uuid.New()
	contracts := []models.Contract{testContract(teamID, 7_777_777, 3), testContract(teamID, 1_234_567, 1)}
	deadMoney := []models.DeadMoney{{TeamID: teamID, Amount: 999_999, Year: 2025}}

	first := ComputeTeamCap(p, contracts, deadMoney)
	second := ComputeTeamCap(p, contracts, deadMoney)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second run differs (-first +second):\n%s", diff)
	}
}

func TestAvailableCapDecreasesWhenSalaryIncreases(t *testing.T) {
	p := mustPolicy(t, testLeague())
	teamID := uuid.New()
	c := testContract(teamID, 10_000_000, 3)

	before := ComputeTeamCap(p, []models.Contract{c}, nil)
	c.CurrentSalary += 1
	after := ComputeTeamCap(p, []models.Contract{c}, nil)

	if after.AvailableCap >= before.AvailableCap {
		t.Errorf("AvailableCap did not decrease: before %d, after %d", before.AvailableCap, after.AvailableCap)
	}
}

func TestAvailableCapAfterRelease(t *testing.T) {
	tests := []struct {
		name          string
		currentSeason string
		wantIncrease  bool
	}{
		{"partial dead money frees cap", "0.5", true},
		{"no dead money frees full salary", "0", true},
		{"full dead money frees nothing", "1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			league := testLeague()
			league.DeadMoneyConfig.CurrentSeason = decimal.RequireFromString(tt.currentSeason)
			p := mustPolicy(t, league)
			teamID := uuid.New()
			c := testContract(teamID, 10_000_000, 2)

			before := ComputeTeamCap(p, []models.Contract{c}, nil)
			released, err := ReleaseContract(p, c)
			if err != nil {
				t.Fatalf("ReleaseContract() error = %v", err)
			}
			after := ComputeTeamCap(p, []models.Contract{released.Contract}, released.DeadMoney)

			if got := after.AvailableCap > before.AvailableCap; got != tt.wantIncrease {
				t.Errorf("AvailableCap before %d after %d, want increase %v", before.AvailableCap, after.AvailableCap, tt.wantIncrease)
			}
		})
	}
}

func TestApplyTeamCap(t *testing.T) {
	team := models.FantasyTeam{ID: uuid.New(), FranchiseTagsUsed: 1}
	got := ApplyTeamCap(team, TeamCap{AvailableCap: 10, CurrentSeasonDeadMoney: 20, NextSeasonDeadMoney: 30})

	if got.AvailableCap != 10 || got.CurrentDeadMoney != 20 || got.NextSeasonDeadMoney != 30 {
		t.Errorf("ApplyTeamCap() = %+v", got)
	}
	if got.FranchiseTagsUsed != 1 {
		t.Errorf("FranchiseTagsUsed changed to %d", got.FranchiseTagsUsed)
	}
}
