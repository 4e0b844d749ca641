package capengine

import "github.com/mcdev12/dynastycap/go/internal/models"

// EligibleYearsRemaining is the years-remaining value at which a contract may be
// extended, tagged, or have its fourth-year option picked up. Eligibility starts
// once turnover has consumed the last contracted year.
const EligibleYearsRemaining = 0

// InFinalYear reports whether c has run out its term but is still live.
func InFinalYear(c models.Contract) bool {
	return c.Status.CountsAgainstCap() && c.YearsRemaining == EligibleYearsRemaining
}

func checkFinalYear(c models.Contract, operation string) error {
	if !c.Status.CountsAgainstCap() {
		return ineligible(c.ID, operation, "contract status is %s", c.Status)
	}
	if c.YearsRemaining != EligibleYearsRemaining {
		return ineligible(c.ID, operation, "contract has %d years remaining, eligible at %d", c.YearsRemaining, EligibleYearsRemaining)
	}
	return nil
}
