package contracts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/events"
	"github.com/mcdev12/dynastycap/go/internal/keylock"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/mcdev12/dynastycap/go/internal/outbox"
	"github.com/rs/zerolog/log"
)

// Repository defines what the app layer needs from storage
type Repository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.FantasyTeam, error)
	UpdateTeam(ctx context.Context, team models.FantasyTeam) error
	GetContract(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	ListTeamContracts(ctx context.Context, teamID uuid.UUID) ([]models.Contract, error)
	UpsertContract(ctx context.Context, c models.Contract) error
	ListTeamDeadMoney(ctx context.Context, teamID uuid.UUID) ([]models.DeadMoney, error)
	InsertDeadMoney(ctx context.Context, r models.DeadMoney) error
	InsertOutboxEvent(ctx context.Context, e outbox.Event) error
}

// TeamTxFunc runs fn in one transaction holding the team's row lock.
type TeamTxFunc func(ctx context.Context, teamID uuid.UUID, fn func(Repository) error) error

// MarketProvider serves position market snapshots for franchise tags
type MarketProvider interface {
	Market(ctx context.Context, leagueID uuid.UUID, position models.Position) (capengine.PositionMarket, error)
	Invalidate(leagueID uuid.UUID, position models.Position)
}

// App handles contract lifecycle operations. Mutations on one team are
// serialized; each one commits the contract, any dead money, the team's
// recomputed cap and an outbox event together.
type App struct {
	repo     Repository
	inTeamTx TeamTxFunc
	markets  MarketProvider
	locks    *keylock.Locker
	clock    clockwork.Clock
}

// NewApp creates a new contracts App
func NewApp(repo Repository, inTeamTx TeamTxFunc, markets MarketProvider, locks *keylock.Locker, clock clockwork.Clock) *App {
	return &App{
		repo:     repo,
		inTeamTx: inTeamTx,
		markets:  markets,
		locks:    locks,
		clock:    clock,
	}
}

// CreateContract signs a new contract for a team in its league's current season
func (a *App) CreateContract(ctx context.Context, req CreateContractRequest) (*ContractResult, error) {
	if req.TeamID == uuid.Nil {
		return nil, &capengine.ValidationError{Field: "team_id", Rule: "is required"}
	}

	var result ContractResult
	err := a.withTeam(ctx, req.TeamID, func(r Repository, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error {
		c, err := capengine.CreateContract(policy, capengine.CreateContractInput{
			PlayerID:        req.PlayerID,
			TeamID:          team.ID,
			Position:        req.Position,
			Years:           req.Years,
			AnnualSalary:    req.AnnualSalary,
			AcquisitionType: req.AcquisitionType,
			GuaranteedMoney: req.GuaranteedMoney,
			DraftRound:      req.DraftRound,
		})
		if err != nil {
			return err
		}
		c.CreatedAt = now
		c.UpdatedAt = now
		if err := r.UpsertContract(ctx, c); err != nil {
			return err
		}

		team, teamCap, err := a.recomputeTeam(ctx, r, policy, team, now)
		if err != nil {
			return err
		}
		if err := a.emit(ctx, r, policy, events.TypeContractCreated, contractPayload(policy, c, team), now); err != nil {
			return err
		}
		result = ContractResult{Contract: c, Team: team, Cap: teamCap}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	a.markets.Invalidate(result.Contract.LeagueID, result.Contract.Position)
	log.Info().
		Str("contract_id", result.Contract.ID.String()).
		Str("team_id", result.Team.ID.String()).
		Str("player_id", result.Contract.PlayerID.String()).
		Int64("salary", result.Contract.CurrentSalary).
		Int("years", result.Contract.YearsRemaining).
		Msg("contract created")
	return &result, nil
}

// ExtendContract adds years to a contract in its final year at a new salary
func (a *App) ExtendContract(ctx context.Context, req ExtendContractRequest) (*ContractResult, error) {
	var result ContractResult
	err := a.withContract(ctx, req.ContractID, func(r Repository, c models.Contract, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error {
		extended, err := capengine.ExtendContract(policy, c, req.AdditionalYears, req.NewSalary)
		if err != nil {
			return err
		}
		extended.UpdatedAt = now
		if err := r.UpsertContract(ctx, extended); err != nil {
			return err
		}

		team, teamCap, err := a.recomputeTeam(ctx, r, policy, team, now)
		if err != nil {
			return err
		}
		if err := a.emit(ctx, r, policy, events.TypeContractExtended, contractPayload(policy, extended, team), now); err != nil {
			return err
		}
		result = ContractResult{Contract: extended, Team: team, Cap: teamCap}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to extend contract: %w", err)
	}

	a.markets.Invalidate(result.Contract.LeagueID, result.Contract.Position)
	log.Info().
		Str("contract_id", result.Contract.ID.String()).
		Int("additional_years", req.AdditionalYears).
		Int64("new_salary", req.NewSalary).
		Msg("contract extended")
	return &result, nil
}

// ApplyFranchiseTag tags a contract for one more season at its market value
func (a *App) ApplyFranchiseTag(ctx context.Context, req ContractRequest) (*FranchiseTagResult, error) {
	var result FranchiseTagResult
	err := a.withContract(ctx, req.ContractID, func(r Repository, c models.Contract, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error {
		market, err := a.markets.Market(ctx, c.LeagueID, c.Position)
		if err != nil {
			return err
		}
		tagged, err := capengine.ApplyFranchiseTag(policy, c, team, market)
		if err != nil {
			return err
		}
		tagged.Contract.UpdatedAt = now
		if err := r.UpsertContract(ctx, tagged.Contract); err != nil {
			return err
		}

		team, teamCap, err := a.recomputeTeam(ctx, r, policy, tagged.Team, now)
		if err != nil {
			return err
		}
		payload := events.FranchiseTagAppliedPayload{
			ContractPayload:   contractPayload(policy, tagged.Contract, team),
			Quote:             tagged.Quote,
			FranchiseTagsUsed: team.FranchiseTagsUsed,
		}
		if err := a.emit(ctx, r, policy, events.TypeFranchiseTagApplied, payload, now); err != nil {
			return err
		}
		result = FranchiseTagResult{
			ContractResult: ContractResult{Contract: tagged.Contract, Team: team, Cap: teamCap},
			Quote:          tagged.Quote,
			Market:         market,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to apply franchise tag: %w", err)
	}

	a.markets.Invalidate(result.Contract.LeagueID, result.Contract.Position)
	log.Info().
		Str("contract_id", result.Contract.ID.String()).
		Str("team_id", result.Team.ID.String()).
		Int64("tag_value", result.Quote.TagValue).
		Int("tags_used", result.Team.FranchiseTagsUsed).
		Msg("franchise tag applied")
	return &result, nil
}

// ReleaseContract cuts a contract and books its dead money
func (a *App) ReleaseContract(ctx context.Context, req ContractRequest) (*ReleaseResult, error) {
	var result ReleaseResult
	err := a.withContract(ctx, req.ContractID, func(r Repository, c models.Contract, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error {
		released, err := capengine.ReleaseContract(policy, c)
		if err != nil {
			return err
		}
		released.Contract.UpdatedAt = now
		if err := r.UpsertContract(ctx, released.Contract); err != nil {
			return err
		}
		for i := range released.DeadMoney {
			released.DeadMoney[i].CreatedAt = now
			if err := r.InsertDeadMoney(ctx, released.DeadMoney[i]); err != nil {
				return err
			}
		}

		team, teamCap, err := a.recomputeTeam(ctx, r, policy, team, now)
		if err != nil {
			return err
		}
		payload := events.ContractReleasedPayload{
			ContractPayload: contractPayload(policy, released.Contract, team),
			Charge:          released.Charge,
		}
		if err := a.emit(ctx, r, policy, events.TypeContractReleased, payload, now); err != nil {
			return err
		}
		result = ReleaseResult{
			ContractResult: ContractResult{Contract: released.Contract, Team: team, Cap: teamCap},
			DeadMoney:      released.DeadMoney,
			Charge:         released.Charge,
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to release contract: %w", err)
	}

	a.markets.Invalidate(result.Contract.LeagueID, result.Contract.Position)
	log.Info().
		Str("contract_id", result.Contract.ID.String()).
		Str("team_id", result.Team.ID.String()).
		Int64("current_season_charge", result.Charge.CurrentSeasonCharge).
		Int64("next_season_charge", result.Charge.NextSeasonCharge).
		Msg("contract released")
	return &result, nil
}

// ActivateFourthYearOption picks up the extra year on a first-round rookie contract
func (a *App) ActivateFourthYearOption(ctx context.Context, req ContractRequest) (*ContractResult, error) {
	var result ContractResult
	err := a.withContract(ctx, req.ContractID, func(r Repository, c models.Contract, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error {
		activated, err := capengine.ActivateFourthYearOption(policy, c)
		if err != nil {
			return err
		}
		activated.UpdatedAt = now
		if err := r.UpsertContract(ctx, activated); err != nil {
			return err
		}

		team, teamCap, err := a.recomputeTeam(ctx, r, policy, team, now)
		if err != nil {
			return err
		}
		if err := a.emit(ctx, r, policy, events.TypeFourthYearOptionActivated, contractPayload(policy, activated, team), now); err != nil {
			return err
		}
		result = ContractResult{Contract: activated, Team: team, Cap: teamCap}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to activate fourth-year option: %w", err)
	}

	a.markets.Invalidate(result.Contract.LeagueID, result.Contract.Position)
	log.Info().
		Str("contract_id", result.Contract.ID.String()).
		Int64("salary", result.Contract.CurrentSalary).
		Msg("fourth-year option activated")
	return &result, nil
}

// GetContract retrieves a contract by ID
func (a *App) GetContract(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	c, err := a.repo.GetContract(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

// PreviewRelease computes the dead money a release would book without writing anything
func (a *App) PreviewRelease(ctx context.Context, req ContractRequest) (*ReleasePreview, error) {
	c, err := a.repo.GetContract(ctx, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	summary, policy, err := a.loadTeamCap(ctx, c.TeamID)
	if err != nil {
		return nil, err
	}

	released, err := capengine.ReleaseContract(policy, *c)
	if err != nil {
		return nil, err
	}

	contracts := make([]models.Contract, len(summary.Contracts))
	for i, tc := range summary.Contracts {
		if tc.ID == released.Contract.ID {
			tc = released.Contract
		}
		contracts[i] = tc
	}
	deadMoney := append(append([]models.DeadMoney(nil), summary.DeadMoney...), released.DeadMoney...)

	return &ReleasePreview{
		Contract:  *c,
		Charge:    released.Charge,
		CapBefore: summary.Cap,
		CapAfter:  capengine.ComputeTeamCap(policy, contracts, deadMoney),
	}, nil
}

// PreviewFranchiseTag prices a tag on a contract and reports whether the team could apply it now
func (a *App) PreviewFranchiseTag(ctx context.Context, req ContractRequest) (*FranchiseTagPreview, error) {
	c, err := a.repo.GetContract(ctx, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	team, err := a.repo.GetTeam(ctx, c.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	policy, err := a.policy(ctx, a.repo, team.LeagueID)
	if err != nil {
		return nil, err
	}
	market, err := a.markets.Market(ctx, c.LeagueID, c.Position)
	if err != nil {
		return nil, err
	}

	preview := &FranchiseTagPreview{
		Contract: *c,
		Quote:    capengine.QuoteFranchiseTag(*c, market),
		Market:   market,
		Eligible: true,
	}
	if err := capengine.CheckTagLimit(policy, *team); err != nil {
		preview.Eligible, preview.Reason = false, err.Error()
	} else if err := capengine.CheckTagEligibility(*c); err != nil {
		preview.Eligible, preview.Reason = false, err.Error()
	}
	return preview, nil
}

// TeamCap returns a team's live cap figures with the contracts and ledger they derive from
func (a *App) TeamCap(ctx context.Context, req TeamRequest) (*TeamCapSummary, error) {
	summary, _, err := a.loadTeamCap(ctx, req.TeamID)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

func (a *App) loadTeamCap(ctx context.Context, teamID uuid.UUID) (*TeamCapSummary, capengine.LeaguePolicy, error) {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, capengine.LeaguePolicy{}, fmt.Errorf("failed to get team: %w", err)
	}
	policy, err := a.policy(ctx, a.repo, team.LeagueID)
	if err != nil {
		return nil, capengine.LeaguePolicy{}, err
	}
	contracts, err := a.repo.ListTeamContracts(ctx, teamID)
	if err != nil {
		return nil, capengine.LeaguePolicy{}, fmt.Errorf("failed to list team contracts: %w", err)
	}
	deadMoney, err := a.repo.ListTeamDeadMoney(ctx, teamID)
	if err != nil {
		return nil, capengine.LeaguePolicy{}, fmt.Errorf("failed to list team dead money: %w", err)
	}
	return &TeamCapSummary{
		Team:      *team,
		Cap:       capengine.ComputeTeamCap(policy, contracts, deadMoney),
		Contracts: contracts,
		DeadMoney: deadMoney,
	}, policy, nil
}

type teamFunc func(r Repository, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error

type contractFunc func(r Repository, c models.Contract, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error

// withTeam holds the team lock, opens the team transaction and loads the
// team and its league policy inside it.
func (a *App) withTeam(ctx context.Context, teamID uuid.UUID, fn teamFunc) error {
	unlock, err := a.locks.Lock(ctx, teamID)
	if err != nil {
		return err
	}
	defer unlock()

	return a.inTeamTx(ctx, teamID, func(r Repository) error {
		team, err := r.GetTeam(ctx, teamID)
		if err != nil {
			return fmt.Errorf("failed to get team: %w", err)
		}
		policy, err := a.policy(ctx, r, team.LeagueID)
		if err != nil {
			return err
		}
		return fn(r, *team, policy, a.clock.Now().UTC())
	})
}

// withContract resolves the owning team, then re-reads the contract under the
// team lock so a concurrent mutation is observed before eligibility is checked.
func (a *App) withContract(ctx context.Context, contractID uuid.UUID, fn contractFunc) error {
	if contractID == uuid.Nil {
		return &capengine.ValidationError{Field: "contract_id", Rule: "is required"}
	}
	c, err := a.repo.GetContract(ctx, contractID)
	if err != nil {
		return fmt.Errorf("failed to get contract: %w", err)
	}

	return a.withTeam(ctx, c.TeamID, func(r Repository, team models.FantasyTeam, policy capengine.LeaguePolicy, now time.Time) error {
		current, err := r.GetContract(ctx, contractID)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if current.TeamID != team.ID {
			return fmt.Errorf("contract %s moved from team %s to %s", contractID, team.ID, current.TeamID)
		}
		return fn(r, *current, team, policy, now)
	})
}

func (a *App) policy(ctx context.Context, r Repository, leagueID uuid.UUID) (capengine.LeaguePolicy, error) {
	league, err := r.GetLeague(ctx, leagueID)
	if err != nil {
		return capengine.LeaguePolicy{}, fmt.Errorf("failed to get league: %w", err)
	}
	return capengine.NewLeaguePolicy(*league)
}

// recomputeTeam derives the team aggregate from what is now stored and saves it.
func (a *App) recomputeTeam(ctx context.Context, r Repository, policy capengine.LeaguePolicy, team models.FantasyTeam, now time.Time) (models.FantasyTeam, capengine.TeamCap, error) {
	contracts, err := r.ListTeamContracts(ctx, team.ID)
	if err != nil {
		return models.FantasyTeam{}, capengine.TeamCap{}, fmt.Errorf("failed to list team contracts: %w", err)
	}
	deadMoney, err := r.ListTeamDeadMoney(ctx, team.ID)
	if err != nil {
		return models.FantasyTeam{}, capengine.TeamCap{}, fmt.Errorf("failed to list team dead money: %w", err)
	}

	teamCap := capengine.ComputeTeamCap(policy, contracts, deadMoney)
	team = capengine.ApplyTeamCap(team, teamCap)
	team.UpdatedAt = now
	if err := r.UpdateTeam(ctx, team); err != nil {
		return models.FantasyTeam{}, capengine.TeamCap{}, err
	}
	return team, teamCap, nil
}

func (a *App) emit(ctx context.Context, r Repository, policy capengine.LeaguePolicy, eventType string, payload any, now time.Time) error {
	event, err := outbox.NewEvent(policy.LeagueID, eventType, payload, now)
	if err != nil {
		return err
	}
	return r.InsertOutboxEvent(ctx, event)
}

func contractPayload(policy capengine.LeaguePolicy, c models.Contract, team models.FantasyTeam) events.ContractPayload {
	return events.ContractPayload{
		ContractID:     c.ID.String(),
		TeamID:         c.TeamID.String(),
		PlayerID:       c.PlayerID.String(),
		Season:         policy.Season,
		CurrentSalary:  c.CurrentSalary,
		YearsRemaining: c.YearsRemaining,
		Status:         string(c.Status),
		AvailableCap:   team.AvailableCap,
	}
}
