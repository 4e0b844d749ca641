package leagues

import (
	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/shopspring/decimal"
)

// CreateLeagueRequest represents the data needed to create a new league.
// Either Preset names a configured cap preset or Settings is supplied.
type CreateLeagueRequest struct {
	Name     string          `json:"name"`
	Season   int             `json:"season"`
	Preset   string          `json:"preset,omitempty"`
	Settings *LeagueSettings `json:"settings,omitempty"`
}

// LeagueSettings are the cap rules of a league
type LeagueSettings struct {
	SalaryCap                int64                  `json:"salary_cap"`
	AnnualIncreasePercentage decimal.Decimal        `json:"annual_increase_percentage"`
	MinimumSalary            int64                  `json:"minimum_salary"`
	MaxFranchiseTags         int                    `json:"max_franchise_tags"`
	DeadMoneyConfig          models.DeadMoneyConfig `json:"dead_money_config"`
}

// CreateTeamRequest represents the data needed to add a team to a league
type CreateTeamRequest struct {
	LeagueID uuid.UUID `json:"league_id"`
	Name     string    `json:"name"`
}

// LeagueRequest identifies a league
type LeagueRequest struct {
	LeagueID uuid.UUID `json:"league_id"`
}

// ListPresetsRequest is empty
type ListPresetsRequest struct{}

// ListPresetsResponse names every configured preset
type ListPresetsResponse struct {
	Presets []string `json:"presets"`
}

// LeagueSummary is a league with its teams
type LeagueSummary struct {
	League models.League        `json:"league"`
	Teams  []models.FantasyTeam `json:"teams"`
}
