package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	trendThreshold = 0.15
	monthLayout    = "2006-01"
)

// MonthWindow returns [from, to) covering the current calendar month and the
// months-1 months before it, in now's location.
func MonthWindow(now time.Time, months int) (time.Time, time.Time) {
	if months < 1 {
		months = 1
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(months - 1), 0), first.AddDate(0, 1, 0)
}

// MonthKeys lists the "2006-01" keys of every calendar month in [from, to).
func MonthKeys(from, to time.Time) []string {
	keys := make([]string, 0)
	for m := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, from.Location()); m.Before(to); m = m.AddDate(0, 1, 0) {
		keys = append(keys, m.Format(monthLayout))
	}
	return keys
}

// AnalyzePatterns groups monthly expense rows per category over the window
// months. A month without spending counts as zero; rows outside the window are
// ignored.
func AnalyzePatterns(rows []MonthlyCategoryRow, window []string) []SpendingPattern {
	type bucket struct {
		name   string
		months map[string]decimal.Decimal
	}
	inWindow := make(map[string]bool, len(window))
	for _, month := range window {
		inWindow[month] = true
	}

	buckets := make(map[string]*bucket)
	order := make([]string, 0)
	for _, row := range rows {
		if !inWindow[row.Month] {
			continue
		}
		b, ok := buckets[row.CategoryID]
		if !ok {
			b = &bucket{name: row.CategoryName, months: make(map[string]decimal.Decimal)}
			buckets[row.CategoryID] = b
			order = append(order, row.CategoryID)
		}
		b.months[row.Month] = b.months[row.Month].Add(row.Total)
	}

	patterns := make([]SpendingPattern, 0, len(buckets))
	for _, categoryID := range order {
		b := buckets[categoryID]

		values := make([]decimal.Decimal, 0, len(window))
		months := make([]MonthAmount, 0, len(window))
		for _, month := range window {
			total := b.months[month]
			values = append(values, total)
			months = append(months, MonthAmount{Month: month, Total: total})
		}

		average := mean(values)
		if !average.IsPositive() {
			continue
		}

		patterns = append(patterns, SpendingPattern{
			CategoryID:     categoryID,
			CategoryName:   b.name,
			MonthlyAverage: average.Round(2),
			Trend:          ClassifyTrend(values),
			Volatility:     Volatility(values),
			Months:         months,
		})
	}

	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].MonthlyAverage.GreaterThan(patterns[j].MonthlyAverage)
	})
	return patterns
}

// ClassifyTrend compares the mean of the earlier half of the series with the
// later half.
func ClassifyTrend(values []decimal.Decimal) Trend {
	if len(values) < 2 {
		return TrendStable
	}
	half := len(values) / 2
	first := mean(values[:half])
	second := mean(values[half:])

	if !first.IsPositive() {
		if second.IsPositive() {
			return TrendIncreasing
		}
		return TrendStable
	}

	change := second.Sub(first).Div(first).InexactFloat64()
	switch {
	case change > trendThreshold:
		return TrendIncreasing
	case change < -trendThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// Volatility is the coefficient of variation (population standard deviation
// over mean), 0 when the mean is 0.
func Volatility(values []decimal.Decimal) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values).InexactFloat64()
	if m == 0 {
		return 0
	}

	var sumSquares float64
	for _, v := range values {
		d := v.InexactFloat64() - m
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares/float64(len(values))) / m
}

func mean(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	return decimal.Sum(decimal.Zero, values...).Div(decimal.NewFromInt(int64(len(values))))
}
