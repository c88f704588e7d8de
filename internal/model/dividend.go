package model

import "time"

// Dividend represents a single dividend payment as entered by the user.
// Ticker references a holding's Code but the link is not enforced.
type Dividend struct {
	ID             string     `json:"id"`
	PaymentDate    time.Time  `json:"paymentDate"`
	ExDividendDate *time.Time `json:"exDividendDate,omitempty"`
	Ticker         string     `json:"ticker"`
	Amount         float64    `json:"amount"`
	Note           string     `json:"note,omitempty"`
}

// DividendYearTotal is the dividend income of one calendar year.
// Growth is nil when there is no usable prior year to compare with,
// which is distinct from a growth of 0%.
type DividendYearTotal struct {
	Year        int      `json:"year"`
	Amount      float64  `json:"amount"`
	Received    float64  `json:"received"`
	Pending     float64  `json:"pending"`
	Growth      *float64 `json:"growth"`
	GrowthLabel string   `json:"growthLabel"` // "25.00%" or "-"
}

// DividendTickerTotal is the contribution of one ticker within a year.
type DividendTickerTotal struct {
	Ticker string  `json:"ticker"`
	Amount float64 `json:"amount"`
}

// DividendAnalysis aggregates the dividend records for dashboards.
// Lifetime figures cover every record; InYear figures cover SelectedYear only.
type DividendAnalysis struct {
	AsOf         time.Time `json:"asOf"`
	SelectedYear int       `json:"selectedYear"`

	ReceivedTotal  float64 `json:"receivedTotal"`
	PendingTotal   float64 `json:"pendingTotal"`
	ReceivedInYear float64 `json:"receivedInYear"`
	PendingInYear  float64 `json:"pendingInYear"`
	TotalInYear    float64 `json:"totalInYear"`

	YearlyTotals   []DividendYearTotal   `json:"yearlyTotals"`
	MonthlyTotals  [12]float64           `json:"monthlyTotals"`
	TickerTotals   []DividendTickerTotal `json:"tickerTotals"`
	AvailableYears []int                 `json:"availableYears"`

	TotalPortfolioCost float64 `json:"totalPortfolioCost"`
	YieldOnCost        float64 `json:"yieldOnCost"`
	AvgMonthlyIncome   float64 `json:"avgMonthlyIncome"`
	MonthlyGoal        float64 `json:"monthlyGoal"`
	GoalProgress       float64 `json:"goalProgress"`
}
