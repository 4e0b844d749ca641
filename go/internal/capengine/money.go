package capengine

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// scale multiplies a whole-unit amount by a fraction and rounds to the nearest unit.
func scale(amount int64, factor decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(factor).Round(0).IntPart()
}

// escalate applies a compounding raise of pct to amount.
func escalate(amount int64, pct decimal.Decimal) int64 {
	return scale(amount, one.Add(pct))
}

func inUnitRange(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(one)
}
