package capengine

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaxContractYears is the longest term a contract or extension may carry.
const MaxContractYears = 4

// LeaguePolicy is a validated view of a league's cap settings. Every calculator
// takes a LeaguePolicy so none of them re-checks percentage ranges.
type LeaguePolicy struct {
	LeagueID         uuid.UUID
	Season           int
	SalaryCap        int64
	AnnualIncrease   decimal.Decimal
	MinimumSalary    int64
	MaxFranchiseTags int

	deadMoneyCurrent decimal.Decimal
	deadMoneyFuture  [models.MaxDeadMoneyYearsKey + 1]decimal.Decimal
}

// NewLeaguePolicy validates a league's cap configuration.
func NewLeaguePolicy(league models.League) (LeaguePolicy, error) {
	if league.SalaryCap <= 0 {
		return LeaguePolicy{}, invalid(uuid.Nil, "salary_cap", "must be positive, got %d", league.SalaryCap)
	}
	if league.MinimumSalary < 0 {
		return LeaguePolicy{}, invalid(uuid.Nil, "minimum_salary", "must not be negative, got %d", league.MinimumSalary)
	}
	if league.MaxFranchiseTags < 0 {
		return LeaguePolicy{}, invalid(uuid.Nil, "max_franchise_tags", "must not be negative, got %d", league.MaxFranchiseTags)
	}
	if !inUnitRange(league.AnnualIncreasePercentage) {
		return LeaguePolicy{}, invalid(uuid.Nil, "annual_increase_percentage", "must be within [0,1], got %s", league.AnnualIncreasePercentage)
	}
	if !inUnitRange(league.DeadMoneyConfig.CurrentSeason) {
		return LeaguePolicy{}, invalid(uuid.Nil, "dead_money_config.current_season", "must be within [0,1], got %s", league.DeadMoneyConfig.CurrentSeason)
	}

	p := LeaguePolicy{
		LeagueID:         league.ID,
		Season:           league.Season,
		SalaryCap:        league.SalaryCap,
		AnnualIncrease:   league.AnnualIncreasePercentage,
		MinimumSalary:    league.MinimumSalary,
		MaxFranchiseTags: league.MaxFranchiseTags,
		deadMoneyCurrent: league.DeadMoneyConfig.CurrentSeason,
	}
	for key, pct := range league.DeadMoneyConfig.FutureSeasons {
		if key < 1 || key > models.MaxDeadMoneyYearsKey {
			return LeaguePolicy{}, invalid(uuid.Nil, "dead_money_config.future_seasons", "key %d outside 1..%d", key, models.MaxDeadMoneyYearsKey)
		}
		if !inUnitRange(pct) {
			return LeaguePolicy{}, invalid(uuid.Nil, "dead_money_config.future_seasons", "value for %d years must be within [0,1], got %s", key, pct)
		}
		p.deadMoneyFuture[key] = pct
	}
	return p, nil
}

// DeadMoneyCurrentSeason returns the share of salary charged in the release season.
func (p LeaguePolicy) DeadMoneyCurrentSeason() decimal.Decimal {
	return p.deadMoneyCurrent
}

// DeadMoneyFutureSeason returns the next-season share for a contract with
// yearsRemaining left, clamping to the largest bucket. Missing buckets are zero.
func (p LeaguePolicy) DeadMoneyFutureSeason(yearsRemaining int) decimal.Decimal {
	if yearsRemaining < 1 {
		return decimal.Zero
	}
	return p.deadMoneyFuture[min(yearsRemaining, models.MaxDeadMoneyYearsKey)]
}

// NextSeason returns the same policy advanced by one season.
func (p LeaguePolicy) NextSeason() LeaguePolicy {
	p.Season++
	return p
}

// PolicyPreset is a named set of cap settings loaded from YAML.
type PolicyPreset struct {
	SalaryCap        int64   `yaml:"salary_cap"`
	AnnualIncrease   float64 `yaml:"annual_increase"`
	MinimumSalary    int64   `yaml:"minimum_salary"`
	MaxFranchiseTags int     `yaml:"max_franchise_tags"`
	DeadMoney        struct {
		CurrentSeason float64         `yaml:"current_season"`
		FutureSeasons map[int]float64 `yaml:"future_seasons"`
	} `yaml:"dead_money"`
}

type presetFile struct {
	Presets map[string]PolicyPreset `yaml:"presets"`
}

// LoadPresets reads league cap presets from a YAML file.
func LoadPresets(path string) (map[string]PolicyPreset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}

// ParsePresets decodes presets and validates each of them.
func ParsePresets(data []byte) (map[string]PolicyPreset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}
	for name, preset := range file.Presets {
		var league models.League
		preset.ApplyTo(&league)
		if _, err := NewLeaguePolicy(league); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return file.Presets, nil
}

// ApplyTo copies the preset's cap settings onto a league.
func (pp PolicyPreset) ApplyTo(league *models.League) {
	league.SalaryCap = pp.SalaryCap
	league.AnnualIncreasePercentage = decimal.NewFromFloat(pp.AnnualIncrease)
	league.MinimumSalary = pp.MinimumSalary
	league.MaxFranchiseTags = pp.MaxFranchiseTags
	league.DeadMoneyConfig = models.DeadMoneyConfig{
		CurrentSeason: decimal.NewFromFloat(pp.DeadMoney.CurrentSeason),
		FutureSeasons: make(map[int]decimal.Decimal, len(pp.DeadMoney.FutureSeasons)),
	}
	for years, pct := range pp.DeadMoney.FutureSeasons {
		league.DeadMoneyConfig.FutureSeasons[years] = decimal.NewFromFloat(pct)
	}
}
