package service

const (
	// DefaultConversionRate is used before any call has been placed today.
	DefaultConversionRate = 0.30
	DaysPerMonth          = 30
	MonthsPerYear         = 12

	MaxAverageDealSize     = 100_000_000.0
	MaxCommissionPercent   = 100.0
	MaxMonthlyCallVolume   = 10_000_000
	MaxAgentMonthlyCost    = 100_000_000.0
	MaxSessionCounter      = 10_000_000
	MinCredentialLength    = 8
	MaxClientNameLength    = 120
	defaultProspectName    = "New Prospect"
	defaultCallNotes       = "Automated solar consultation"
	genericDispatchFailed  = "Failed to start call"
	genericAssistantFailed = "Failed to create assistant"
)
