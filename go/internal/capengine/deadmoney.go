package capengine

import "github.com/mcdev12/dynastycap/go/internal/models"

// DeadMoneyCharge is what a team absorbs if a contract is released now.
type DeadMoneyCharge struct {
	CurrentSeasonCharge int64 `json:"current_season_charge"`
	ProjectedNextSalary int64 `json:"projected_next_salary"`
	NextSeasonCharge    int64 `json:"next_season_charge"`
}

// Total is the combined charge across both seasons.
func (d DeadMoneyCharge) Total() int64 {
	return d.CurrentSeasonCharge + d.NextSeasonCharge
}

// ComputeDeadMoney returns the current and next season charges for releasing c.
func ComputeDeadMoney(p LeaguePolicy, c models.Contract) DeadMoneyCharge {
	charge := DeadMoneyCharge{
		CurrentSeasonCharge: scale(c.CurrentSalary, p.DeadMoneyCurrentSeason()),
	}
	if c.YearsRemaining >= 1 {
		charge.ProjectedNextSalary = escalate(c.CurrentSalary, p.AnnualIncrease)
		charge.NextSeasonCharge = scale(charge.ProjectedNextSalary, p.DeadMoneyFutureSeason(c.YearsRemaining))
	}
	return charge
}
