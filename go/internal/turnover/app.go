package turnover

import (
	"context"
	"errors"
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
	"golang.org/x/sync/errgroup"
)

var (
	// ErrAlreadyTurnedOver is returned when the requested season has already been closed.
	ErrAlreadyTurnedOver = errors.New("season already turned over")
	// ErrSeasonMismatch is returned when the caller's season is not the league's current season.
	ErrSeasonMismatch = errors.New("season does not match league")
)

// DefaultWorkers bounds how many contracts are turned over at once.
const DefaultWorkers = 8

// Repository defines what the app layer needs from storage
type Repository interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	UpdateLeague(ctx context.Context, league models.League) error
	ListLeagueTeams(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
	UpdateTeam(ctx context.Context, team models.FantasyTeam) error
	ListLeagueContracts(ctx context.Context, leagueID uuid.UUID) ([]models.Contract, error)
	UpsertContract(ctx context.Context, c models.Contract) error
	ListLeagueDeadMoney(ctx context.Context, leagueID uuid.UUID) ([]models.DeadMoney, error)
	InsertOutboxEvent(ctx context.Context, e outbox.Event) error
}

// LeagueTxFunc runs fn in one transaction holding the league row and all of its team rows.
type LeagueTxFunc func(ctx context.Context, leagueID uuid.UUID, fn func(Repository) error) error

// MarketInvalidator drops cached position markets once salaries change.
type MarketInvalidator interface {
	InvalidateLeague(leagueID uuid.UUID)
}

// App runs season turnover for a league
type App struct {
	repo       Repository
	inLeagueTx LeagueTxFunc
	markets    MarketInvalidator
	locks      *keylock.Locker
	clock      clockwork.Clock
	workers    int
}

// NewApp creates a new turnover App. workers <= 0 uses DefaultWorkers.
func NewApp(repo Repository, inLeagueTx LeagueTxFunc, markets MarketInvalidator, locks *keylock.Locker, clock clockwork.Clock, workers int) *App {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &App{
		repo:       repo,
		inLeagueTx: inLeagueTx,
		markets:    markets,
		locks:      locks,
		clock:      clock,
		workers:    workers,
	}
}

// Preview returns every change turnover would make without writing anything
func (a *App) Preview(ctx context.Context, req PreviewRequest) (*Plan, error) {
	league, err := a.repo.GetLeague(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	policy, err := capengine.NewLeaguePolicy(*league)
	if err != nil {
		return nil, err
	}
	contracts, err := a.repo.ListLeagueContracts(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league contracts: %w", err)
	}

	changes := capengine.PlanTurnover(policy, contracts)
	return &Plan{
		LeagueID:       league.ID,
		FromSeason:     league.Season,
		ToSeason:       league.Season + 1,
		Changes:        changes,
		ExpiringCount:  countStatus(changes, models.ContractStatusExpired),
		ContractsCount: len(changes),
	}, nil
}

// Commit closes req.Season: every live contract in the league is turned over,
// then each team is recomputed for the new season and the league advances.
// All of it commits in one transaction. Retrying a committed season fails with
// ErrAlreadyTurnedOver.
func (a *App) Commit(ctx context.Context, req CommitRequest) (*CommitResult, error) {
	if req.Season <= 0 {
		return nil, &capengine.ValidationError{Field: "season", Rule: "the season being closed is required"}
	}
	teams, err := a.repo.ListLeagueTeams(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}
	keys := []uuid.UUID{req.LeagueID}
	for _, t := range teams {
		keys = append(keys, t.ID)
	}
	unlock, err := a.locks.LockAll(ctx, keys)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result CommitResult
	err = a.inLeagueTx(ctx, req.LeagueID, func(r Repository) error {
		league, err := r.GetLeague(ctx, req.LeagueID)
		if err != nil {
			return fmt.Errorf("failed to get league: %w", err)
		}
		if league.LastTurnoverSeason != nil && *league.LastTurnoverSeason >= req.Season {
			return fmt.Errorf("league %s season %d: %w", league.ID, req.Season, ErrAlreadyTurnedOver)
		}
		if req.Season != league.Season {
			return fmt.Errorf("league %s is in season %d, not %d: %w", league.ID, league.Season, req.Season, ErrSeasonMismatch)
		}
		policy, err := capengine.NewLeaguePolicy(*league)
		if err != nil {
			return err
		}
		now := a.clock.Now().UTC()

		contracts, changes, err := a.turnContracts(ctx, r, policy, now)
		if err != nil {
			return err
		}

		next := policy.NextSeason()
		updatedTeams, err := a.recomputeTeams(ctx, r, next, contracts, now)
		if err != nil {
			return err
		}

		previous := league.Season
		league.Season = next.Season
		league.LastTurnoverSeason = &previous
		league.UpdatedAt = now
		if err := r.UpdateLeague(ctx, *league); err != nil {
			return err
		}

		result = CommitResult{
			LeagueID:       league.ID,
			PreviousSeason: previous,
			Season:         league.Season,
			Changes:        changes,
			Teams:          updatedTeams,
		}
		event, err := outbox.NewEvent(league.ID, events.TypeSeasonTurnoverCommitted, events.SeasonTurnoverCommittedPayload{
			LeagueID:          league.ID.String(),
			PreviousSeason:    previous,
			Season:            league.Season,
			ContractsTurned:   len(changes),
			ContractsExpired:  countStatus(changes, models.ContractStatusExpired),
			TeamsRecalculated: len(updatedTeams),
		}, now)
		if err != nil {
			return err
		}
		return r.InsertOutboxEvent(ctx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to commit season turnover: %w", err)
	}

	a.markets.InvalidateLeague(req.LeagueID)
	log.Info().
		Str("league_id", result.LeagueID.String()).
		Int("previous_season", result.PreviousSeason).
		Int("season", result.Season).
		Int("contracts_turned", len(result.Changes)).
		Int("teams", len(result.Teams)).
		Msg("season turnover committed")
	return &result, nil
}

// turnContracts is phase one: every live contract is aged and written
// independently. It returns the whole league's contracts after the barrier.
func (a *App) turnContracts(ctx context.Context, r Repository, policy capengine.LeaguePolicy, now time.Time) ([]models.Contract, []capengine.TurnoverChange, error) {
	contracts, err := r.ListLeagueContracts(ctx, policy.LeagueID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list league contracts: %w", err)
	}

	turned := make([]models.Contract, len(contracts))
	changed := make([]*capengine.TurnoverChange, len(contracts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, c := range contracts {
		g.Go(func() error {
			next, change, ok := capengine.TurnContract(policy, c)
			turned[i] = next
			if !ok {
				return nil
			}
			next.UpdatedAt = now
			turned[i] = next
			changed[i] = &change
			if err := r.UpsertContract(gctx, next); err != nil {
				return fmt.Errorf("failed to turn over contract %s: %w", c.ID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	changes := make([]capengine.TurnoverChange, 0, len(contracts))
	for _, change := range changed {
		if change != nil {
			changes = append(changes, *change)
		}
	}
	return turned, changes, nil
}

// recomputeTeams is phase two: each team's cap and tag count for the new season.
func (a *App) recomputeTeams(ctx context.Context, r Repository, next capengine.LeaguePolicy, contracts []models.Contract, now time.Time) ([]models.FantasyTeam, error) {
	teams, err := r.ListLeagueTeams(ctx, next.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}
	deadMoney, err := r.ListLeagueDeadMoney(ctx, next.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league dead money: %w", err)
	}

	contractsByTeam := make(map[uuid.UUID][]models.Contract, len(teams))
	for _, c := range contracts {
		contractsByTeam[c.TeamID] = append(contractsByTeam[c.TeamID], c)
	}
	deadMoneyByTeam := make(map[uuid.UUID][]models.DeadMoney, len(teams))
	for _, d := range deadMoney {
		deadMoneyByTeam[d.TeamID] = append(deadMoneyByTeam[d.TeamID], d)
	}

	updated := make([]models.FantasyTeam, len(teams))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, team := range teams {
		g.Go(func() error {
			team = capengine.RecomputeTeam(next, team, contractsByTeam[team.ID], deadMoneyByTeam[team.ID])
			team.UpdatedAt = now
			if err := r.UpdateTeam(gctx, team); err != nil {
				return fmt.Errorf("failed to recompute team %s: %w", team.ID, err)
			}
			updated[i] = team
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return updated, nil
}

func countStatus(changes []capengine.TurnoverChange, status models.ContractStatus) int {
	n := 0
	for _, c := range changes {
		if c.After.Status == status {
			n++
		}
	}
	return n
}
