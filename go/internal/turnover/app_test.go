package turnover

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/events"
	"github.com/mcdev12/dynastycap/go/internal/keylock"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/shopspring/decimal"
)

type fixture struct {
	app     *App
	store   *memStore
	clock   *clockwork.FakeClock
	league  models.League
	owls    models.FantasyTeam
	brigade models.FantasyTeam

	climbing, expiring, stale, cut, extended models.Contract
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := newMemStore()
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.February, 15, 9, 0, 0, 0, time.UTC))

	league := models.League{
		ID:                       uuid.New(),
		Name:                     "Keepers Forever",
		Season:                   2025,
		SalaryCap:                200_000_000,
		AnnualIncreasePercentage: decimal.RequireFromString("0.15"),
		MinimumSalary:            500_000,
		MaxFranchiseTags:         1,
		DeadMoneyConfig: models.DeadMoneyConfig{
			CurrentSeason: decimal.RequireFromString("1.0"),
			FutureSeasons: map[int]decimal.Decimal{2: decimal.RequireFromString("0.5")},
		},
	}
	owls := models.FantasyTeam{ID: uuid.New(), LeagueID: league.ID, Name: "Gridiron Owls", FranchiseTagsUsed: 1}
	brigade := models.FantasyTeam{ID: uuid.New(), LeagueID: league.ID, Name: "Blitz Brigade"}
	s.leagues[league.ID] = league
	s.teams[owls.ID] = owls
	s.teams[brigade.ID] = brigade

	f := &fixture{store: s, clock: clock, league: league, owls: owls, brigade: brigade}
	f.climbing = f.seed(owls.ID, 10_000_000, 3, models.ContractStatusActive)
	f.expiring = f.seed(owls.ID, 5_000_000, 1, models.ContractStatusTagged)
	f.stale = f.seed(owls.ID, 4_000_000, 0, models.ContractStatusActive)
	f.cut = f.seed(owls.ID, 8_000_000, 2, models.ContractStatusCut)
	f.extended = f.seed(brigade.ID, 20_000_000, 2, models.ContractStatusExtended)

	cutID := f.cut.ID
	s.deadMoney = []models.DeadMoney{
		{ID: uuid.New(), TeamID: owls.ID, PlayerID: f.cut.PlayerID, ContractID: &cutID, Amount: 8_000_000, Year: 2025},
		{ID: uuid.New(), TeamID: owls.ID, PlayerID: f.cut.PlayerID, ContractID: &cutID, Amount: 2_000_000, Year: 2026},
	}

	f.app = NewApp(s, s.inLeagueTx, s, keylock.New(), clock, 2)
	return f
}

func (f *fixture) seed(teamID uuid.UUID, salary int64, years int, status models.ContractStatus) models.Contract {
	c := models.Contract{
		ID:              uuid.New(),
		PlayerID:        uuid.New(),
		TeamID:          teamID,
		LeagueID:        f.league.ID,
		Position:        models.PositionRB,
		OriginalSalary:  salary,
		CurrentSalary:   salary,
		OriginalYears:   max(years, 1),
		YearsRemaining:  years,
		AcquisitionType: models.AcquisitionTypeAuction,
		Status:          status,
		SignedSeason:    2024,
	}
	f.store.contracts[c.ID] = c
	return c
}

func TestCommitTurnsContractsAndRecomputesTeams(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.app.Commit(ctx, CommitRequest{LeagueID: f.league.ID, Season: 2025})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if res.PreviousSeason != 2025 || res.Season != 2026 {
		t.Errorf("seasons = %d -> %d, want 2025 -> 2026", res.PreviousSeason, res.Season)
	}
	if len(res.Changes) != 4 {
		t.Errorf("changes = %d, want 4", len(res.Changes))
	}

	type terms struct {
		Years  int
		Salary int64
		Status models.ContractStatus
	}
	got := func(id uuid.UUID) terms {
		c := f.store.contracts[id]
		return terms{c.YearsRemaining, c.CurrentSalary, c.Status}
	}
	want := map[string]struct {
		id   uuid.UUID
		want terms
	}{
		"three years escalates":   {f.climbing.ID, terms{2, 11_500_000, models.ContractStatusActive}},
		"final year keeps salary": {f.expiring.ID, terms{0, 5_000_000, models.ContractStatusTagged}},
		"zero years expires":      {f.stale.ID, terms{0, 4_000_000, models.ContractStatusExpired}},
		"cut is skipped":          {f.cut.ID, terms{2, 8_000_000, models.ContractStatusCut}},
		"other team escalates":    {f.extended.ID, terms{1, 23_000_000, models.ContractStatusExtended}},
	}
	for name, tc := range want {
		if diff := cmp.Diff(tc.want, got(tc.id)); diff != "" {
			t.Errorf("%s (-want +got):\n%s", name, diff)
		}
	}

	owls := f.store.teams[f.owls.ID]
	if owls.AvailableCap != 181_500_000 || owls.CurrentDeadMoney != 2_000_000 || owls.NextSeasonDeadMoney != 0 {
		t.Errorf("owls = cap %d dead %d/%d, want 181500000 2000000/0", owls.AvailableCap, owls.CurrentDeadMoney, owls.NextSeasonDeadMoney)
	}
	if owls.FranchiseTagsUsed != 0 {
		t.Errorf("owls FranchiseTagsUsed = %d, want reset to 0", owls.FranchiseTagsUsed)
	}
	if brigade := f.store.teams[f.brigade.ID]; brigade.AvailableCap != 177_000_000 {
		t.Errorf("brigade AvailableCap = %d, want 177000000", brigade.AvailableCap)
	}

	league := f.store.leagues[f.league.ID]
	if league.Season != 2026 || league.LastTurnoverSeason == nil || *league.LastTurnoverSeason != 2025 {
		t.Errorf("league season/last = %d/%v", league.Season, league.LastTurnoverSeason)
	}

	if len(f.store.events) != 1 || f.store.events[0].EventType != events.TypeSeasonTurnoverCommitted {
		t.Fatalf("events = %+v", f.store.events)
	}
	var payload events.SeasonTurnoverCommittedPayload
	if err := json.Unmarshal(f.store.events[0].Payload, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	wantPayload := events.SeasonTurnoverCommittedPayload{
		LeagueID:          f.league.ID.String(),
		PreviousSeason:    2025,
		Season:            2026,
		ContractsTurned:   4,
		ContractsExpired:  1,
		TeamsRecalculated: 2,
	}
	if diff := cmp.Diff(wantPayload, payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]uuid.UUID{f.league.ID}, f.store.invalidated); diff != "" {
		t.Errorf("invalidated markets mismatch (-want +got):\n%s", diff)
	}
}

func TestCommitRefusesSecondRunForSameSeason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.app.Commit(ctx, CommitRequest{LeagueID: f.league.ID, Season: 2025}); err != nil {
		t.Fatalf("first Commit() error = %v", err)
	}
	after := f.store.contracts[f.climbing.ID]

	_, err := f.app.Commit(ctx, CommitRequest{LeagueID: f.league.ID, Season: 2025})
	if !errors.Is(err, ErrAlreadyTurnedOver) {
		t.Fatalf("second Commit() error = %v, want ErrAlreadyTurnedOver", err)
	}
	if diff := cmp.Diff(after, f.store.contracts[f.climbing.ID]); diff != "" {
		t.Errorf("contract changed by refused run (-want +got):\n%s", diff)
	}
	if len(f.store.events) != 1 {
		t.Errorf("events = %d, want 1", len(f.store.events))
	}
}

func TestCommitRejectsWrongSeason(t *testing.T) {
	f := newFixture(t)

	_, err := f.app.Commit(context.Background(), CommitRequest{LeagueID: f.league.ID, Season: 2027})
	if !errors.Is(err, ErrSeasonMismatch) {
		t.Fatalf("Commit() error = %v, want ErrSeasonMismatch", err)
	}
	_, err = f.app.Commit(context.Background(), CommitRequest{LeagueID: f.league.ID})
	if !capengine.IsValidation(err) {
		t.Fatalf("Commit() without season error = %v, want validation error", err)
	}
}

func TestCommitRollsBackOnContractFailure(t *testing.T) {
	f := newFixture(t)
	f.store.failContract = f.extended.ID

	if _, err := f.app.Commit(context.Background(), CommitRequest{LeagueID: f.league.ID, Season: 2025}); err == nil {
		t.Fatal("Commit() error = nil, want write failure")
	}
	if c := f.store.contracts[f.climbing.ID]; c.YearsRemaining != 3 || c.CurrentSalary != 10_000_000 {
		t.Errorf("contract turned despite rollback: years %d salary %d", c.YearsRemaining, c.CurrentSalary)
	}
	if league := f.store.leagues[f.league.ID]; league.Season != 2025 || league.LastTurnoverSeason != nil {
		t.Errorf("league advanced despite rollback: %+v", league)
	}
	if f.store.teams[f.owls.ID].FranchiseTagsUsed != 1 {
		t.Error("tag count reset despite rollback")
	}
	if len(f.store.events) != 0 || len(f.store.invalidated) != 0 {
		t.Error("rolled back turnover emitted side effects")
	}
}

func TestPreviewDoesNotWrite(t *testing.T) {
	f := newFixture(t)

	plan, err := f.app.Preview(context.Background(), PreviewRequest{LeagueID: f.league.ID})
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if plan.FromSeason != 2025 || plan.ToSeason != 2026 || plan.ContractsCount != 4 || plan.ExpiringCount != 1 {
		t.Errorf("plan = %+v", plan)
	}
	for _, change := range plan.Changes {
		if change.ContractID == f.climbing.ID {
			want := capengine.TurnoverChange{
				ContractID: f.climbing.ID,
				TeamID:     f.owls.ID,
				PlayerID:   f.climbing.PlayerID,
				Before:     capengine.ContractTerms{YearsRemaining: 3, CurrentSalary: 10_000_000, Status: models.ContractStatusActive},
				After:      capengine.ContractTerms{YearsRemaining: 2, CurrentSalary: 11_500_000, Status: models.ContractStatusActive},
			}
			if diff := cmp.Diff(want, change); diff != "" {
				t.Errorf("change mismatch (-want +got):\n%s", diff)
			}
		}
	}
	if c := f.store.contracts[f.climbing.ID]; c.YearsRemaining != 3 {
		t.Error("Preview wrote contracts")
	}
	if f.store.leagues[f.league.ID].Season != 2025 {
		t.Error("Preview advanced the league")
	}
}
