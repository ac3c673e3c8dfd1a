package controller

import (
	"github.com/merchantkit/payment-stripe/internal/domain/payment"
	"github.com/merchantkit/payment-stripe/internal/service"
	"github.com/merchantkit/payment-stripe/internal/settings"
	"github.com/shopspring/decimal"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (string money, validation tags).
// Controllers convert these to domain types before calling business logic.

// CheckoutPaymentRequest is the card-entry checkout submission.
type CheckoutPaymentRequest struct {
	CreditCardType string `json:"credit_card_type"`
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	CardCode       string `json:"card_code"`
	ExpireMonth    string `json:"expire_month"`
	ExpireYear     string `json:"expire_year"`

	OrderTotal decimal.Decimal `json:"order_total"`
	OrderGUID  string          `json:"order_guid,omitempty"`
	CustomerID int64           `json:"customer_id" validate:"required"`
	StoreID    int64           `json:"store_id" validate:"gte=0"`
}

// Form extracts the raw card-entry fields for validation.
func (r *CheckoutPaymentRequest) Form() service.PaymentInfoForm {
	return service.PaymentInfoForm{
		CreditCardType: r.CreditCardType,
		CardholderName: r.CardholderName,
		CardNumber:     r.CardNumber,
		CardCode:       r.CardCode,
		ExpireMonth:    r.ExpireMonth,
		ExpireYear:     r.ExpireYear,
	}
}

// RecurringPaymentRequest starts or renews a recurring payment; no card data
// travels on this path.
type RecurringPaymentRequest struct {
	OrderGUID  string          `json:"order_guid" validate:"required,uuid"`
	OrderTotal decimal.Decimal `json:"order_total"`
	CustomerID int64           `json:"customer_id" validate:"required"`
	StoreID    int64           `json:"store_id" validate:"gte=0"`
}

// PaymentOperationRequest targets an existing order payment for capture,
// refund, void, or recurring cancellation.
type PaymentOperationRequest struct {
	OrderGUID      string           `json:"order_guid" validate:"required,uuid"`
	AmountToRefund *decimal.Decimal `json:"amount_to_refund,omitempty"`
}

// ConfigurationModel mirrors the admin configuration view: current values
// plus per-store override flags for the active store scope.
type ConfigurationModel struct {
	TransactMode            string          `json:"transact_mode"`
	AdditionalFee           decimal.Decimal `json:"additional_fee"`
	AdditionalFeePercentage bool            `json:"additional_fee_percentage"`
	APIKey                  string          `json:"api_key"`

	TransactModeOverride            bool `json:"transact_mode_override_for_store"`
	AdditionalFeeOverride           bool `json:"additional_fee_override_for_store"`
	AdditionalFeePercentageOverride bool `json:"additional_fee_percentage_override_for_store"`
	APIKeyOverride                  bool `json:"api_key_override_for_store"`

	ActiveStoreScope int64 `json:"active_store_scope"`
}

// --- Response DTOs ---

// ProcessPaymentResponse reports the outcome of a payment attempt.
type ProcessPaymentResponse struct {
	PaymentStatus          string   `json:"payment_status,omitempty"`
	AllowStoringCardNumber bool     `json:"allow_storing_card_number"`
	Errors                 []string `json:"errors,omitempty"`
}

// OperationResponse reports the outcome of capture/refund/void/cancel.
type OperationResponse struct {
	Errors []string `json:"errors,omitempty"`
}

// FeeResponse carries the additional handling fee for checkout display.
type FeeResponse struct {
	AdditionalFee decimal.Decimal `json:"additional_fee"`
}

// DescriptionResponse carries the localized payment method description.
type DescriptionResponse struct {
	Description string `json:"description"`
}

// ConfigureResponse wraps the configuration view with the anti-forgery
// token the admin client must echo on POST.
type ConfigureResponse struct {
	Configuration    ConfigurationModel `json:"configuration"`
	AntiForgeryToken string             `json:"anti_forgery_token"`
}

// SavedResponse confirms a configuration save.
type SavedResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromProcessPaymentResult converts a domain result to an API response.
func FromProcessPaymentResult(r *payment.ProcessPaymentResult) *ProcessPaymentResponse {
	return &ProcessPaymentResponse{
		PaymentStatus:          string(r.NewPaymentStatus),
		AllowStoringCardNumber: r.AllowStoringCardNumber,
		Errors:                 r.Errors,
	}
}

// FromSettings converts resolved settings and override flags to the admin
// view model.
func FromSettings(s *settings.PaymentSettings, o *settings.Overrides, storeScope int64) ConfigurationModel {
	return ConfigurationModel{
		TransactMode:                    string(s.TransactMode),
		AdditionalFee:                   s.AdditionalFee,
		AdditionalFeePercentage:         s.AdditionalFeePercentage,
		APIKey:                          s.APIKey,
		TransactModeOverride:            o.TransactMode,
		AdditionalFeeOverride:           o.AdditionalFee,
		AdditionalFeePercentageOverride: o.AdditionalFeePercentage,
		APIKeyOverride:                  o.APIKey,
		ActiveStoreScope:                storeScope,
	}
}

// ToSettings converts a submitted configuration model to typed settings.
// The transaction mode is NOT taken from the model: the save path forces
// Authorize regardless of the submitted value.
func (m *ConfigurationModel) ToSettings() *settings.PaymentSettings {
	return &settings.PaymentSettings{
		TransactMode:            payment.TransactModeAuthorize,
		AdditionalFee:           m.AdditionalFee,
		AdditionalFeePercentage: m.AdditionalFeePercentage,
		APIKey:                  m.APIKey,
	}
}

// ToOverrides extracts the per-store override flags.
func (m *ConfigurationModel) ToOverrides() *settings.Overrides {
	return &settings.Overrides{
		TransactMode:            m.TransactModeOverride,
		AdditionalFee:           m.AdditionalFeeOverride,
		AdditionalFeePercentage: m.AdditionalFeePercentageOverride,
		APIKey:                  m.APIKeyOverride,
	}
}
