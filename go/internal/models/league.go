package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxDeadMoneyYearsKey is the largest years-remaining bucket in a dead money table.
const MaxDeadMoneyYearsKey = 4

// DeadMoneyConfig is the share of a released contract's salary that stays on the cap.
type DeadMoneyConfig struct {
	CurrentSeason decimal.Decimal         `json:"current_season"`
	FutureSeasons map[int]decimal.Decimal `json:"future_seasons"` // keyed by years remaining, 1..4
}

// League represents a salary-cap dynasty league for one season
type League struct {
	ID                       uuid.UUID       `json:"id"`
	Name                     string          `json:"name"`
	Season                   int             `json:"season"`
	SalaryCap                int64           `json:"salary_cap"`
	AnnualIncreasePercentage decimal.Decimal `json:"annual_increase_percentage"`
	MinimumSalary            int64           `json:"minimum_salary"`
	MaxFranchiseTags         int             `json:"max_franchise_tags"`
	DeadMoneyConfig          DeadMoneyConfig `json:"dead_money_config"`
	LastTurnoverSeason       *int            `json:"last_turnover_season,omitempty"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
}
