package model

// Settings holds the user-adjustable values stored next to the holdings.
type Settings struct {
	Cash                float64 `json:"cash"`
	MonthlyDividendGoal float64 `json:"monthlyDividendGoal"`
	TargetStockFraction float64 `json:"targetStockFraction"`
}

// Setting keys used in the setting table.
const (
	SettingCash                = "cash"
	SettingMonthlyDividendGoal = "monthly_dividend_goal"
	SettingTargetStockFraction = "target_stock_fraction"
)
