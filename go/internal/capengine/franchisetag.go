package capengine

import (
	"github.com/mcdev12/dynastycap/go/internal/models"
	"github.com/shopspring/decimal"
)

// TagRaiseMultiplier is the minimum raise a franchise tag grants over current salary.
var TagRaiseMultiplier = decimal.RequireFromString("1.15")

// TagQuote breaks down how a tag value was reached.
type TagQuote struct {
	SalaryRaise     int64 `json:"salary_raise"`
	PositionAverage int64 `json:"position_average"`
	TagValue        int64 `json:"tag_value"`
}

// QuoteFranchiseTag prices a tag as the larger of a 15% raise and the
// position's top-salary average.
func QuoteFranchiseTag(c models.Contract, market PositionMarket) TagQuote {
	q := TagQuote{
		SalaryRaise:     scale(c.CurrentSalary, TagRaiseMultiplier),
		PositionAverage: market.Average,
	}
	q.TagValue = max(q.SalaryRaise, q.PositionAverage)
	return q
}

// FranchiseTagValue returns the salary a tag would set for c.
func FranchiseTagValue(c models.Contract, market PositionMarket) int64 {
	return QuoteFranchiseTag(c, market).TagValue
}

// CheckTagLimit rejects a tag when the team has used its allotment for the season.
func CheckTagLimit(p LeaguePolicy, team models.FantasyTeam) error {
	if team.FranchiseTagsUsed >= p.MaxFranchiseTags {
		return &LimitError{
			TeamID: team.ID,
			Rule:   "max franchise tags per season",
			Limit:  p.MaxFranchiseTags,
			Used:   team.FranchiseTagsUsed,
		}
	}
	return nil
}

// CheckTagEligibility verifies the contract itself may be tagged.
func CheckTagEligibility(c models.Contract) error {
	if c.HasBeenTagged {
		return ineligible(c.ID, "franchise tag", "contract has already been tagged")
	}
	if c.HasBeenExtended {
		return ineligible(c.ID, "franchise tag", "contract has been extended")
	}
	return checkFinalYear(c, "franchise tag")
}
