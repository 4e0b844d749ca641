package leagues

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/dynastycap/go/internal/capengine"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Repository defines what the app layer needs from storage
type Repository interface {
	CreateLeague(ctx context.Context, l models.League) error
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	CreateTeam(ctx context.Context, t models.FantasyTeam) error
	ListLeagueTeams(ctx context.Context, leagueID uuid.UUID) ([]models.FantasyTeam, error)
}

// App handles league and team setup
type App struct {
	repo    Repository
	presets map[string]capengine.PolicyPreset
	clock   clockwork.Clock
}

// NewApp creates a new leagues App. presets may be nil.
func NewApp(repo Repository, presets map[string]capengine.PolicyPreset, clock clockwork.Clock) *App {
	return &App{
		repo:    repo,
		presets: presets,
		clock:   clock,
	}
}

// CreateLeague creates a league from a preset or explicit settings
func (a *App) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	if err := a.validateCreateLeagueRequest(req); err != nil {
		return nil, err
	}

	now := a.clock.Now().UTC()
	league := models.League{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Season:    req.Season,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Preset != "" {
		preset, ok := a.presets[req.Preset]
		if !ok {
			return nil, &capengine.ValidationError{Field: "preset", Rule: fmt.Sprintf("unknown preset %q", req.Preset)}
		}
		preset.ApplyTo(&league)
	} else {
		s := req.Settings
		league.SalaryCap = s.SalaryCap
		league.AnnualIncreasePercentage = s.AnnualIncreasePercentage
		league.MinimumSalary = s.MinimumSalary
		league.MaxFranchiseTags = s.MaxFranchiseTags
		league.DeadMoneyConfig = s.DeadMoneyConfig
	}
	if _, err := capengine.NewLeaguePolicy(league); err != nil {
		return nil, err
	}

	if err := a.repo.CreateLeague(ctx, league); err != nil {
		return nil, fmt.Errorf("failed to create league: %w", err)
	}

	log.Info().
		Str("league_id", league.ID.String()).
		Str("name", league.Name).
		Int("season", league.Season).
		Int64("salary_cap", league.SalaryCap).
		Msg("league created")
	return &league, nil
}

// CreateTeam adds a team with the league's full cap available
func (a *App) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.FantasyTeam, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &capengine.ValidationError{Field: "name", Rule: "is required"}
	}
	league, err := a.repo.GetLeague(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}

	team := models.FantasyTeam{
		ID:           uuid.New(),
		LeagueID:     league.ID,
		Name:         strings.TrimSpace(req.Name),
		AvailableCap: league.SalaryCap,
		UpdatedAt:    a.clock.Now().UTC(),
	}
	if err := a.repo.CreateTeam(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	log.Info().
		Str("team_id", team.ID.String()).
		Str("league_id", league.ID.String()).
		Str("name", team.Name).
		Msg("team created")
	return &team, nil
}

// GetLeague retrieves a league and its teams
func (a *App) GetLeague(ctx context.Context, req LeagueRequest) (*LeagueSummary, error) {
	league, err := a.repo.GetLeague(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	teams, err := a.repo.ListLeagueTeams(ctx, league.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list league teams: %w", err)
	}
	return &LeagueSummary{League: *league, Teams: teams}, nil
}

// PresetNames returns the configured preset names in order
func (a *App) PresetNames() []string {
	names := make([]string, 0, len(a.presets))
	for name := range a.presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (a *App) validateCreateLeagueRequest(req CreateLeagueRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return &capengine.ValidationError{Field: "name", Rule: "is required"}
	}
	if req.Season <= 0 {
		return &capengine.ValidationError{Field: "season", Rule: "must be positive"}
	}
	if req.Preset == "" && req.Settings == nil {
		return &capengine.ValidationError{Field: "settings", Rule: "a preset or explicit settings are required"}
	}
	if req.Preset != "" && req.Settings != nil {
		return &capengine.ValidationError{Field: "settings", Rule: "give a preset or settings, not both"}
	}
	return nil
}
