package valuation

import (
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/ndewijer/ETF-Portfolio-Tracker-Backend/internal/model"
)

// GrowthUnavailable is the label of a year with no usable prior year.
const GrowthUnavailable = "-"

// AnalyzeDividends aggregates dividend records for the dashboards.
//
// Records paid on or before asOf (compared by calendar day) are received,
// later ones are pending; only that split depends on asOf. Yearly, monthly and
// per-ticker totals count both. Yield on cost divides the selected year's
// income by the cost basis of the current holdings (avgPrice × quantity,
// without fees), whatever year is selected.
func AnalyzeDividends(records []model.Dividend, holdings []model.Holding, selectedYear int, asOf time.Time, monthlyGoal float64) model.DividendAnalysis {
	cutoff := dayOf(asOf)

	analysis := model.DividendAnalysis{
		AsOf:         cutoff,
		SelectedYear: selectedYear,
		MonthlyGoal:  monthlyGoal,
	}

	yearly := make(map[int]*model.DividendYearTotal)
	byTicker := make(map[string]float64)
	var tickerOrder []string

	for _, d := range records {
		received := !dayOf(d.PaymentDate).After(cutoff)
		year := d.PaymentDate.Year()

		yt, ok := yearly[year]
		if !ok {
			yt = &model.DividendYearTotal{Year: year}
			yearly[year] = yt
		}
		yt.Amount += d.Amount

		if received {
			analysis.ReceivedTotal += d.Amount
			yt.Received += d.Amount
		} else {
			analysis.PendingTotal += d.Amount
			yt.Pending += d.Amount
		}

		if year != selectedYear {
			continue
		}
		analysis.TotalInYear += d.Amount
		analysis.MonthlyTotals[d.PaymentDate.Month()-1] += d.Amount
		if received {
			analysis.ReceivedInYear += d.Amount
		} else {
			analysis.PendingInYear += d.Amount
		}
		if _, seen := byTicker[d.Ticker]; !seen {
			tickerOrder = append(tickerOrder, d.Ticker)
		}
		byTicker[d.Ticker] += d.Amount
	}

	analysis.YearlyTotals = yearlyWithGrowth(yearly)

	analysis.AvailableYears = make([]int, 0, len(yearly))
	for year := range yearly {
		analysis.AvailableYears = append(analysis.AvailableYears, year)
	}
	slices.Sort(analysis.AvailableYears)
	slices.Reverse(analysis.AvailableYears)

	analysis.TickerTotals = make([]model.DividendTickerTotal, 0, len(tickerOrder))
	for _, ticker := range tickerOrder {
		analysis.TickerTotals = append(analysis.TickerTotals, model.DividendTickerTotal{
			Ticker: ticker,
			Amount: byTicker[ticker],
		})
	}
	sort.SliceStable(analysis.TickerTotals, func(i, j int) bool {
		return analysis.TickerTotals[i].Amount > analysis.TickerTotals[j].Amount
	})

	analysis.TotalPortfolioCost = CostBasis(holdings)
	analysis.YieldOnCost = percentOf(analysis.TotalInYear, analysis.TotalPortfolioCost)
	analysis.AvgMonthlyIncome = analysis.TotalInYear / 12
	if monthlyGoal > 0 {
		analysis.GoalProgress = analysis.AvgMonthlyIncome / monthlyGoal * 100
	}

	return analysis
}

// CostBasis returns Σ avgPrice × quantity over the holdings, fees excluded.
func CostBasis(holdings []model.Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += h.AvgPrice * h.Quantity
	}
	return total
}

// YearlyTotals returns per-year dividend totals in ascending year order,
// each compared with the previous available year.
func YearlyTotals(records []model.Dividend, asOf time.Time) []model.DividendYearTotal {
	return AnalyzeDividends(records, nil, asOf.Year(), asOf, 0).YearlyTotals
}

func yearlyWithGrowth(yearly map[int]*model.DividendYearTotal) []model.DividendYearTotal {
	years := make([]int, 0, len(yearly))
	for year := range yearly {
		years = append(years, year)
	}
	slices.Sort(years)

	totals := make([]model.DividendYearTotal, 0, len(years))
	for i, year := range years {
		yt := *yearly[year]
		yt.GrowthLabel = GrowthUnavailable
		if i > 0 {
			prev := yearly[years[i-1]].Amount
			if prev > 0 {
				growth := (yt.Amount - prev) / prev * 100
				yt.Growth = &growth
				yt.GrowthLabel = fmt.Sprintf("%.2f%%", growth)
			}
		}
		totals = append(totals, yt)
	}
	return totals
}

// dayOf returns the calendar date of t, as midnight UTC.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
