package budgets

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	infoRatio     = decimal.RequireFromString("0.6")
	dangerRatio   = decimal.RequireFromString("0.8")
	exceededRatio = decimal.NewFromInt(1)
	hundred       = decimal.NewFromInt(100)
)

// TierFor depends only on spent and amount, so repeated checks against an
// unchanged ledger always agree.
func TierFor(spent, amount decimal.Decimal) Tier {
	if !amount.IsPositive() {
		return TierExceeded
	}
	ratio := spent.Div(amount)
	switch {
	case ratio.GreaterThanOrEqual(exceededRatio):
		return TierExceeded
	case ratio.GreaterThanOrEqual(dangerRatio):
		return TierDanger
	case ratio.GreaterThanOrEqual(infoRatio):
		return TierInfo
	}
	return TierSilent
}

func Percentage(spent, amount decimal.Decimal) decimal.Decimal {
	if !amount.IsPositive() {
		return decimal.Zero
	}
	return spent.Div(amount).Mul(hundred).Round(1)
}

// Window returns the [start, end) period containing now in now's location.
// Weeks start on Monday.
func Window(period Period, now time.Time) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if period == PeriodWeekly {
		offset := (int(day.Weekday()) + 6) % 7
		start := day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 7)
	}
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
