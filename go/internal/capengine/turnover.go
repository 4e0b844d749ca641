package capengine

import (
	"github.com/google/uuid"
	"github.com/mcdev12/dynastycap/go/internal/models"
)

// ContractTerms is the part of a contract season turnover changes.
type ContractTerms struct {
	YearsRemaining int                   `json:"years_remaining"`
	CurrentSalary  int64                 `json:"current_salary"`
	Status         models.ContractStatus `json:"status"`
}

// TurnoverChange pairs a contract's terms before and after turnover.
type TurnoverChange struct {
	ContractID uuid.UUID     `json:"contract_id"`
	TeamID     uuid.UUID     `json:"team_id"`
	PlayerID   uuid.UUID     `json:"player_id"`
	Before     ContractTerms `json:"before"`
	After      ContractTerms `json:"after"`
}

func termsOf(c models.Contract) ContractTerms {
	return ContractTerms{YearsRemaining: c.YearsRemaining, CurrentSalary: c.CurrentSalary, Status: c.Status}
}

// TurnContract ages one contract by a season. Contracts outside the cap are
// returned unchanged with ok=false.
//
//	N > 1  -> N-1, salary escalated
//	N == 1 -> 0, salary unchanged (now eligible for extension or tag)
//	N == 0 -> EXPIRED, terms unchanged
func TurnContract(p LeaguePolicy, c models.Contract) (models.Contract, TurnoverChange, bool) {
	if !c.Status.CountsAgainstCap() {
		return c, TurnoverChange{}, false
	}

	change := TurnoverChange{
		ContractID: c.ID,
		TeamID:     c.TeamID,
		PlayerID:   c.PlayerID,
		Before:     termsOf(c),
	}

	switch {
	case c.YearsRemaining > 1:
		c.YearsRemaining--
		c.CurrentSalary = escalate(c.CurrentSalary, p.AnnualIncrease)
	case c.YearsRemaining == 1:
		c.YearsRemaining = 0
	default:
		c.YearsRemaining = 0
		c.Status = models.ContractStatusExpired
	}

	change.After = termsOf(c)
	return c, change, true
}

// PlanTurnover previews turnover for every counted contract without mutating the input.
func PlanTurnover(p LeaguePolicy, contracts []models.Contract) []TurnoverChange {
	changes := make([]TurnoverChange, 0, len(contracts))
	for _, c := range contracts {
		if _, change, ok := TurnContract(p, c); ok {
			changes = append(changes, change)
		}
	}
	return changes
}

// RecomputeTeam rebuilds a team's aggregate for the policy's season after
// turnover: cap figures from its contracts and ledger, tag count reset.
func RecomputeTeam(p LeaguePolicy, team models.FantasyTeam, contracts []models.Contract, deadMoney []models.DeadMoney) models.FantasyTeam {
	team = ApplyTeamCap(team, ComputeTeamCap(p, contracts, deadMoney))
	team.FranchiseTagsUsed = 0
	return team
}
