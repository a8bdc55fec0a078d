package service

import (
	"sync"

	"solar-agent/domain"
	"solar-agent/logger"
)

// CounterSource exposes the session counters owned by the call controller.
type CounterSource interface {
	Counters() (callsToday, conversions int)
}

// EconomicsService holds the current calculator parameters and computes
// snapshots against the live session counters.
type EconomicsService struct {
	mu       sync.RWMutex
	params   domain.EconomicsParameters
	counters CounterSource
	log      logger.Logger
}

func NewEconomicsService(defaults domain.EconomicsParameters, counters CounterSource, log logger.Logger) *EconomicsService {
	return &EconomicsService{
		params:   defaults,
		counters: counters,
		log:      log,
	}
}

func (s *EconomicsService) Parameters() domain.EconomicsParameters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// UpdateParameters replaces the parameters after validation. Invalid input
// leaves the current parameters untouched.
func (s *EconomicsService) UpdateParameters(p domain.EconomicsParameters) (domain.EconomicsParameters, error) {
	if err := ValidateParameters(p); err != nil {
		return domain.EconomicsParameters{}, err
	}

	s.mu.Lock()
	s.params = p
	s.mu.Unlock()

	s.log.Info("economics parameters updated", map[string]interface{}{
		"averageDealSize":       p.AverageDealSize,
		"commissionRatePercent": p.CommissionRatePercent,
		"monthlyCallVolume":     p.MonthlyCallVolume,
		"agentMonthlyCost":      p.AgentMonthlyCost,
	})
	return p, nil
}

// Snapshot computes the economics for the current session.
func (s *EconomicsService) Snapshot() domain.EconomicsSnapshot {
	callsToday, conversions := s.counters.Counters()
	return ComputeEconomics(callsToday, conversions, s.Parameters())
}

// Calculate evaluates a what-if scenario. Parameters default to the current
// ones when the input carries none.
func (s *EconomicsService) Calculate(input domain.CalculateInput) (domain.EconomicsSnapshot, error) {
	if input.CallsToday < 0 || input.CallsToday > MaxSessionCounter {
		return domain.EconomicsSnapshot{}, domain.NewValidationError(
			domain.ErrCodeInvalidInput, "callsToday", "must be between 0 and 10000000")
	}
	if input.Conversions < 0 || input.Conversions > MaxSessionCounter {
		return domain.EconomicsSnapshot{}, domain.NewValidationError(
			domain.ErrCodeInvalidInput, "conversions", "must be between 0 and 10000000")
	}

	params := s.Parameters()
	if input.Parameters != nil {
		if err := ValidateParameters(*input.Parameters); err != nil {
			return domain.EconomicsSnapshot{}, err
		}
		params = *input.Parameters
	}

	return ComputeEconomics(input.CallsToday, input.Conversions, params), nil
}
