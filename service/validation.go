package service

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"solar-agent/domain"
)

// e164Rule applies domain.IsValidPhone. Empty values are left to Required.
var e164Rule = validation.By(func(value interface{}) error {
	phone, _ := value.(string)
	if phone == "" || domain.IsValidPhone(phone) {
		return nil
	}
	return errors.New("must be in E.164 format, e.g. +12345678901")
})

// ValidateParameters checks economics parameters before they are stored.
func ValidateParameters(p domain.EconomicsParameters) error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.AverageDealSize,
			validation.Required.Error("must be greater than 0"),
			validation.Min(0.0).Exclusive().Error("must be greater than 0"),
			validation.Max(MaxAverageDealSize)),
		validation.Field(&p.CommissionRatePercent,
			validation.Min(0.0), validation.Max(MaxCommissionPercent)),
		validation.Field(&p.MonthlyCallVolume,
			validation.Min(0), validation.Max(MaxMonthlyCallVolume)),
		validation.Field(&p.AgentMonthlyCost,
			validation.Min(0.0), validation.Max(MaxAgentMonthlyCost)),
	)
	return toValidationError(err)
}

// toValidationError turns ozzo field errors into a single ValidationError
// for the first field in alphabetical order.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.NewValidationError(domain.ErrCodeInvalidInput, "", err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	first := fields[0]
	code := domain.ErrCodeInvalidInput
	if first == "phone" || first == "phoneNumber" {
		code = domain.ErrCodeInvalidPhone
	}
	return domain.NewValidationError(code, first, fieldErrs[first].Error())
}
