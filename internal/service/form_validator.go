package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/merchantkit/payment-stripe/internal/localization"
)

// PaymentInfoForm holds the raw card-entry form fields as submitted at the
// payment-info checkout step.
type PaymentInfoForm struct {
	CreditCardType string `json:"credit_card_type"`
	CardholderName string `json:"cardholder_name" validate:"required"`
	CardNumber     string `json:"card_number" validate:"required,credit_card"`
	CardCode       string `json:"card_code" validate:"required,numeric,min=3,max=4"`
	ExpireMonth    string `json:"expire_month" validate:"required,numeric"`
	ExpireYear     string `json:"expire_year" validate:"required,numeric"`
}

// FormValidator checks card-entry form fields before they reach the
// orchestrator. Stateless, no remote calls.
type FormValidator struct {
	validate *validator.Validate
	locale   *localization.Service
}

func NewFormValidator(locale *localization.Service) *FormValidator {
	return &FormValidator{
		validate: validator.New(),
		locale:   locale,
	}
}

// validation messages, keyed by struct field. Resolved through the
// localization resources when installed, with these literals as fallbacks.
var formMessages = map[string]struct {
	resource string
	fallback string
}{
	"CardholderName": {"plugins.payments.stripe.validation.cardholdername", "Cardholder name is required"},
	"CardNumber":     {"plugins.payments.stripe.validation.cardnumber", "Card number is not valid"},
	"CardCode":       {"plugins.payments.stripe.validation.cardcode", "Card code is not valid"},
	"ExpireMonth":    {"plugins.payments.stripe.validation.expiremonth", "Expiration month is required"},
	"ExpireYear":     {"plugins.payments.stripe.validation.expireyear", "Expiration year is required"},
}

// Validate returns the list of validation warnings for the form; an empty
// list means the form is valid.
func (v *FormValidator) Validate(ctx context.Context, form PaymentInfoForm) []string {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	warnings := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		warnings = append(warnings, v.message(ctx, fieldErr.Field()))
	}
	return warnings
}

func (v *FormValidator) message(ctx context.Context, field string) string {
	m, ok := formMessages[field]
	if !ok {
		return field + " is not valid"
	}
	if v.locale != nil {
		if resolved := v.locale.GetResource(ctx, m.resource); resolved != m.resource {
			return resolved
		}
	}
	return m.fallback
}
