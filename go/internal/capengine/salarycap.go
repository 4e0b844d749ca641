package capengine

import "github.com/mcdev12/dynastycap/go/internal/models"

// TeamCap is the cap summary for one team in the policy's season.
type TeamCap struct {
	SalaryCap              int64 `json:"salary_cap"`
	UsedCap                int64 `json:"used_cap"`
	CurrentSeasonDeadMoney int64 `json:"current_season_dead_money"`
	NextSeasonDeadMoney    int64 `json:"next_season_dead_money"`
	AvailableCap           int64 `json:"available_cap"`
	ProjectedNextSeasonCap int64 `json:"projected_next_season_cap"`
	ActiveContracts        int   `json:"active_contracts"`
}

// UsedCap sums current salary over contracts that count against the cap.
func UsedCap(contracts []models.Contract) int64 {
	var used int64
	for _, c := range contracts {
		if c.Status.CountsAgainstCap() {
			used += c.CurrentSalary
		}
	}
	return used
}

// SumDeadMoney totals the ledger entries booked for year.
func SumDeadMoney(records []models.DeadMoney, year int) int64 {
	var total int64
	for _, r := range records {
		if r.Year == year {
			total += r.Amount
		}
	}
	return total
}

// ComputeTeamCap derives a team's cap figures from its contracts and dead
// money ledger. The projection applies the league raise to every counted
// contract, including ones that will expire before it takes effect.
func ComputeTeamCap(p LeaguePolicy, contracts []models.Contract, deadMoney []models.DeadMoney) TeamCap {
	used := UsedCap(contracts)
	current := SumDeadMoney(deadMoney, p.Season)
	next := SumDeadMoney(deadMoney, p.Season+1)

	active := 0
	for _, c := range contracts {
		if c.Status.CountsAgainstCap() {
			active++
		}
	}

	return TeamCap{
		SalaryCap:              p.SalaryCap,
		UsedCap:                used,
		CurrentSeasonDeadMoney: current,
		NextSeasonDeadMoney:    next,
		AvailableCap:           p.SalaryCap - used - current,
		ProjectedNextSeasonCap: p.SalaryCap - escalate(used, p.AnnualIncrease) - next,
		ActiveContracts:        active,
	}
}

// ApplyTeamCap writes the derived cap figures onto a team aggregate.
func ApplyTeamCap(team models.FantasyTeam, tc TeamCap) models.FantasyTeam {
	team.AvailableCap = tc.AvailableCap
	team.CurrentDeadMoney = tc.CurrentSeasonDeadMoney
	team.NextSeasonDeadMoney = tc.NextSeasonDeadMoney
	return team
}
