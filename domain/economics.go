package domain

// EconomicsParameters are the business inputs of the profit calculator.
type EconomicsParameters struct {
	AverageDealSize       float64 `json:"averageDealSize"`
	CommissionRatePercent float64 `json:"commissionRatePercent"`
	MonthlyCallVolume     int     `json:"monthlyCallVolume"`
	AgentMonthlyCost      float64 `json:"agentMonthlyCost"`
}

// EconomicsSnapshot is derived from the parameters and the session counters.
// Currency values and ROI are whole units; ProfitPerCall keeps its fraction.
type EconomicsSnapshot struct {
	CallsToday             int     `json:"callsToday"`
	Conversions            int     `json:"conversions"`
	ConversionRate         float64 `json:"conversionRate"`
	ProfitPerDeal          float64 `json:"profitPerDeal"`
	DailyProfit            float64 `json:"dailyProfit"`
	MonthlyProfit          float64 `json:"monthlyProfit"`
	YearlyProfit           float64 `json:"yearlyProfit"`
	ROIPercent             float64 `json:"roiPercent"`
	ProfitPerCall          float64 `json:"profitPerCall"`
	NetAnnualProfit        float64 `json:"netAnnualProfit"`
	BreakEvenCallsPerMonth int     `json:"breakEvenCallsPerMonth"`
}

type CalculateInput struct {
	CallsToday  int                  `json:"callsToday"`
	Conversions int                  `json:"conversions"`
	Parameters  *EconomicsParameters `json:"parameters,omitempty"`
}
