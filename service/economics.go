package service

import (
	"math"

	"solar-agent/domain"
)

// roundToUnit rounds half up to the nearest whole currency unit.
func roundToUnit(value float64) float64 {
	return math.Floor(value + 0.5)
}

// ComputeEconomics derives the profit snapshot from today's counters and the
// business parameters. It never fails: out-of-range inputs are the caller's
// concern and simply produce out-of-range numbers.
func ComputeEconomics(callsToday, conversions int, p domain.EconomicsParameters) domain.EconomicsSnapshot {
	conversionRate := DefaultConversionRate
	if callsToday > 0 {
		conversionRate = float64(conversions) / float64(callsToday)
	}

	profitPerDeal := p.AverageDealSize * p.CommissionRatePercent / 100

	dailyProfit := float64(callsToday)*conversionRate*profitPerDeal - p.AgentMonthlyCost/DaysPerMonth
	monthlyProfit := float64(p.MonthlyCallVolume)*conversionRate*profitPerDeal - p.AgentMonthlyCost
	yearlyProfit := monthlyProfit * MonthsPerYear

	yearlyCost := p.AgentMonthlyCost * MonthsPerYear
	roi := 0.0
	if p.AgentMonthlyCost != 0 {
		roi = yearlyProfit / yearlyCost * 100
	}

	profitPerCall := 0.0
	if p.MonthlyCallVolume != 0 {
		profitPerCall = monthlyProfit / float64(p.MonthlyCallVolume)
	}

	breakEven := 0
	if margin := conversionRate * profitPerDeal; margin > 0 {
		breakEven = int(math.Ceil(p.AgentMonthlyCost / margin))
	}

	return domain.EconomicsSnapshot{
		CallsToday:             callsToday,
		Conversions:            conversions,
		ConversionRate:         conversionRate,
		ProfitPerDeal:          profitPerDeal,
		DailyProfit:            roundToUnit(dailyProfit),
		MonthlyProfit:          roundToUnit(monthlyProfit),
		YearlyProfit:           roundToUnit(yearlyProfit),
		ROIPercent:             roundToUnit(roi),
		ProfitPerCall:          profitPerCall,
		NetAnnualProfit:        roundToUnit(yearlyProfit - yearlyCost),
		BreakEvenCallsPerMonth: breakEven,
	}
}
