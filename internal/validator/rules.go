package validator

import (
	"log"
	"strings"

	"fanstero_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// Валюты, которые поддерживает Stripe Checkout для наших планов
var supportedCurrencies = map[string]struct{}{
	"EUR": {}, "USD": {}, "GBP": {}, "CHF": {}, "PLN": {},
}

// registerCustomRules регистрирует кастомные правила в экземпляре валидатора
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-currency", validateCurrency)
	mustRegister("is-payout-status", validatePayoutStatus)
	mustRegister("is-payout-method", validatePayoutMethod)
	mustRegister("is-decimal-price", validateDecimalPrice)
}

func validateCurrency(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустое значение - забота 'required'
	}
	_, ok := supportedCurrencies[strings.ToUpper(value)]
	return ok
}

func validatePayoutStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PayoutStatus(value) {
	case models.PayoutStatusPending, models.PayoutStatusApproved, models.PayoutStatusPaid, models.PayoutStatusRejected:
		return true
	default:
		return false
	}
}

func validatePayoutMethod(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.PayoutMethod(value) {
	case models.PayoutMethodIBAN, models.PayoutMethodPayPal, models.PayoutMethodCrypto:
		return true
	default:
		return false
	}
}

// validateDecimalPrice - строка вида "9.99": неотрицательная, не больше двух знаков после точки
func validateDecimalPrice(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	if strings.HasPrefix(value, "-") {
		return false
	}
	parts := strings.Split(value, ".")
	if len(parts) > 2 || parts[0] == "" {
		return false
	}
	if len(parts) == 2 && (len(parts[1]) == 0 || len(parts[1]) > 2) {
		return false
	}
	for _, p := range parts {
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
