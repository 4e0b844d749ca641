package capengine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
)

// CreateContractInput describes a newly acquired contract.
type CreateContractInput struct {
	PlayerID        uuid.UUID
	TeamID          uuid.UUID
	Position        models.Position
	Years           int
	AnnualSalary    int64
	AcquisitionType models.AcquisitionType
	GuaranteedMoney int64
	// DraftRound is the rookie draft round; only first rounders get a fourth-year option.
	DraftRound int
}

// CreateContract builds an ACTIVE contract in the policy's season.
func CreateContract(p LeaguePolicy, in CreateContractInput) (models.Contract, error) {
	if in.PlayerID == uuid.Nil {
		return models.Contract{}, invalid(uuid.Nil, "player_id", "is required")
	}
	if in.TeamID == uuid.Nil {
		return models.Contract{}, invalid(uuid.Nil, "team_id", "is required")
	}
	if err := validatePosition(in.Position); err != nil {
		return models.Contract{}, err
	}
	if err := validateAcquisitionType(in.AcquisitionType); err != nil {
		return models.Contract{}, err
	}
	if err := validateYears(uuid.Nil, "contract_years", in.Years); err != nil {
		return models.Contract{}, err
	}
	if err := validateSalary(p, uuid.Nil, "annual_salary", in.AnnualSalary); err != nil {
		return models.Contract{}, err
	}

	total := termValue(in.AnnualSalary, in.Years, p)
	if in.GuaranteedMoney < 0 || in.GuaranteedMoney > total {
		return models.Contract{}, invalid(uuid.Nil, "guaranteed_money", "must be within [0,%d], got %d", total, in.GuaranteedMoney)
	}
	if in.DraftRound < 0 {
		return models.Contract{}, invalid(uuid.Nil, "draft_round", "must not be negative, got %d", in.DraftRound)
	}

	return models.Contract{
		ID:                  uuid.New(),
		PlayerID:            in.PlayerID,
		TeamID:              in.TeamID,
		LeagueID:            p.LeagueID,
		Position:            in.Position,
		OriginalSalary:      in.AnnualSalary,
		CurrentSalary:       in.AnnualSalary,
		OriginalYears:       in.Years,
		YearsRemaining:      in.Years,
		TotalValue:          total,
		GuaranteedMoney:     in.GuaranteedMoney,
		AcquisitionType:     in.AcquisitionType,
		Status:              models.ContractStatusActive,
		HasFourthYearOption: in.AcquisitionType == models.AcquisitionTypeRookieDraft && in.DraftRound == 1,
		SignedSeason:        p.Season,
	}, nil
}

// ExtendContract adds years to an eligible contract at a new salary. Years are
// added to what remains; only CurrentSalary changes, OriginalSalary is history.
// A contract is either extended or franchise tagged over its life, never both.
func ExtendContract(p LeaguePolicy, c models.Contract, additionalYears int, newSalary int64) (models.Contract, error) {
	if err := validateYears(c.ID, "additional_years", additionalYears); err != nil {
		return models.Contract{}, err
	}
	if err := validateSalary(p, c.ID, "new_salary", newSalary); err != nil {
		return models.Contract{}, err
	}
	if c.HasBeenExtended {
		return models.Contract{}, ineligible(c.ID, "extension", "contract has already been extended")
	}
	if c.HasBeenTagged {
		return models.Contract{}, ineligible(c.ID, "extension", "contract has been franchise tagged")
	}
	if err := checkFinalYear(c, "extension"); err != nil {
		return models.Contract{}, err
	}

	c.CurrentSalary = newSalary
	c.YearsRemaining += additionalYears
	c.TotalValue += newSalary * int64(additionalYears)
	c.HasBeenExtended = true
	c.Status = models.ContractStatusExtended
	return c, nil
}

// TagResult carries the updated contract and team after a franchise tag.
type TagResult struct {
	Contract models.Contract    `json:"contract"`
	Team     models.FantasyTeam `json:"team"`
	Quote    TagQuote           `json:"quote"`
}

// ApplyFranchiseTag tags c for one season at its market value. The team's tag
// allotment is checked before the contract's own eligibility.
func ApplyFranchiseTag(p LeaguePolicy, c models.Contract, team models.FantasyTeam, market PositionMarket) (TagResult, error) {
	if team.ID != c.TeamID {
		return TagResult{}, invalid(c.ID, "team_id", "contract belongs to team %s, not %s", c.TeamID, team.ID)
	}
	if market.Position != c.Position {
		return TagResult{}, invalid(c.ID, "position", "market is for %s, contract is %s", market.Position, c.Position)
	}
	if err := CheckTagLimit(p, team); err != nil {
		return TagResult{}, err
	}
	if err := CheckTagEligibility(c); err != nil {
		return TagResult{}, err
	}

	quote := QuoteFranchiseTag(c, market)
	c.CurrentSalary = quote.TagValue
	c.YearsRemaining = 1
	c.TotalValue += quote.TagValue
	c.HasBeenTagged = true
	c.Status = models.ContractStatusTagged
	team.FranchiseTagsUsed++

	return TagResult{Contract: c, Team: team, Quote: quote}, nil
}

// ReleaseResult carries the cut contract and the dead money it leaves behind.
type ReleaseResult struct {
	Contract  models.Contract    `json:"contract"`
	DeadMoney []models.DeadMoney `json:"dead_money"`
	Charge    DeadMoneyCharge    `json:"charge"`
}

// ReleaseContract cuts c and books its dead money in the current season and,
// if non-zero, the next one.
func ReleaseContract(p LeaguePolicy, c models.Contract) (ReleaseResult, error) {
	switch c.Status {
	case models.ContractStatusCut:
		return ReleaseResult{}, ineligible(c.ID, "release", "contract has already been released")
	case models.ContractStatusExpired:
		return ReleaseResult{}, ineligible(c.ID, "release", "contract has expired")
	}

	charge := ComputeDeadMoney(p, c)
	contractID := c.ID
	reason := fmt.Sprintf("released in %d", p.Season)

	var records []models.DeadMoney
	if charge.CurrentSeasonCharge > 0 {
		records = append(records, models.DeadMoney{
			ID:         uuid.New(),
			TeamID:     c.TeamID,
			PlayerID:   c.PlayerID,
			ContractID: &contractID,
			Amount:     charge.CurrentSeasonCharge,
			Year:       p.Season,
			Reason:     reason,
		})
	}
	if charge.NextSeasonCharge > 0 {
		records = append(records, models.DeadMoney{
			ID:         uuid.New(),
			TeamID:     c.TeamID,
			PlayerID:   c.PlayerID,
			ContractID: &contractID,
			Amount:     charge.NextSeasonCharge,
			Year:       p.Season + 1,
			Reason:     reason,
		})
	}

	season := p.Season
	c.Status = models.ContractStatusCut
	c.ReleasedSeason = &season

	return ReleaseResult{Contract: c, DeadMoney: records, Charge: charge}, nil
}

// ActivateFourthYearOption adds one escalated year to a first-round rookie contract.
func ActivateFourthYearOption(p LeaguePolicy, c models.Contract) (models.Contract, error) {
	if !c.HasFourthYearOption {
		return models.Contract{}, ineligible(c.ID, "fourth-year option", "contract has no fourth-year option")
	}
	if c.FourthYearOptionActivated {
		return models.Contract{}, ineligible(c.ID, "fourth-year option", "option already activated")
	}
	if err := checkFinalYear(c, "fourth-year option"); err != nil {
		return models.Contract{}, err
	}

	c.CurrentSalary = escalate(c.CurrentSalary, p.AnnualIncrease)
	c.YearsRemaining++
	c.TotalValue += c.CurrentSalary
	c.FourthYearOptionActivated = true
	return c, nil
}

// termValue sums the salary across a term, escalating every year after the first.
func termValue(salary int64, years int, p LeaguePolicy) int64 {
	var total int64
	for i := 0; i < years; i++ {
		if i > 0 {
			salary = escalate(salary, p.AnnualIncrease)
		}
		total += salary
	}
	return total
}

func validateYears(contractID uuid.UUID, field string, years int) error {
	if years < 1 || years > MaxContractYears {
		return invalid(contractID, field, "must be within 1..%d, got %d", MaxContractYears, years)
	}
	return nil
}

func validateSalary(p LeaguePolicy, contractID uuid.UUID, field string, salary int64) error {
	if salary <= 0 {
		return invalid(contractID, field, "must be positive, got %d", salary)
	}
	if salary < p.MinimumSalary {
		return invalid(contractID, field, "must be at least the league minimum %d, got %d", p.MinimumSalary, salary)
	}
	return nil
}

func validateAcquisitionType(t models.AcquisitionType) error {
	switch t {
	case models.AcquisitionTypeAuction, models.AcquisitionTypeFAAB, models.AcquisitionTypeRookieDraft,
		models.AcquisitionTypeTrade, models.AcquisitionTypeUndisputed:
		return nil
	default:
		return invalid(uuid.Nil, "acquisition_type", "unknown acquisition type %q", t)
	}
}

func validatePosition(pos models.Position) error {
	switch pos {
	case models.PositionQB, models.PositionRB, models.PositionWR, models.PositionTE,
		models.PositionK, models.PositionDEF:
		return nil
	default:
		return invalid(uuid.Nil, "position", "unknown position %q", pos)
	}
}
