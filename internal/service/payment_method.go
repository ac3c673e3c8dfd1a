package service

import (
	"context"
	"strconv"
	"time"

	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"
	"github.com/merchantkit/payment-stripe/internal/domain/payment"
	"github.com/merchantkit/payment-stripe/internal/gateway/stripe"
	"github.com/merchantkit/payment-stripe/internal/infrastructure/observability"
	"github.com/merchantkit/payment-stripe/internal/localization"
	"github.com/merchantkit/payment-stripe/internal/settings"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Fixed error messages for operations this payment method does not support.
const (
	msgCaptureNotSupported      = "Capture method not supported"
	msgRefundNotSupported       = "Refund method not supported"
	msgVoidNotSupported         = "Void method not supported"
	msgTransactModeNotSupported = "Not supported transaction type"
	msgChargeFailed             = "Failed"
)

const descriptionResource = "plugins.payments.stripe.paymentmethoddescription"

// PaymentMethodService orchestrates a payment attempt: tokenize the card,
// compute the charge amount, create the charge, and map the provider's
// response to an order payment status.
type PaymentMethodService struct {
	gateway  stripe.Client
	fees     *FeeService
	locale   *localization.Service
	currency string
	metrics  *observability.Metrics
	logger   zerolog.Logger
}

func NewPaymentMethodService(
	gateway stripe.Client,
	fees *FeeService,
	locale *localization.Service,
	currency string,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *PaymentMethodService {
	return &PaymentMethodService{
		gateway:  gateway,
		fees:     fees,
		locale:   locale,
		currency: currency,
		metrics:  metrics,
		logger:   logger,
	}
}

// ProcessPayment processes a one-time payment. The transaction mode setting
// is ignored on this path: the charge is always created with immediate
// capture. The recurring path below honors the mode instead; the mismatch is
// inherited behavior, kept until product confirms the intent.
func (s *PaymentMethodService) ProcessPayment(ctx context.Context, req *payment.ProcessPaymentRequest, cfg *settings.PaymentSettings) (*payment.ProcessPaymentResult, error) {
	start := time.Now()
	logger := observability.StoreLogger(s.logger, req.StoreID)
	result := &payment.ProcessPaymentResult{
		AllowStoringCardNumber: false,
	}

	token, err := s.gateway.CreateToken(ctx, cfg.APIKey, stripe.CardParams{
		Number:   req.CardNumber,
		ExpMonth: req.ExpireMonth,
		ExpYear:  req.ExpireYear,
		CVC:      req.CVV,
		Name:     strconv.FormatInt(req.CustomerID, 10),
	})
	if err != nil {
		logger.Error().Err(err).Str("order_guid", req.OrderGUID.String()).Msg("token creation failed")
		s.recordPayment("one_time", "token_error", start)
		s.recordError("token")
		result.AddError(err.Error())
		return result, nil
	}

	amountCents := s.chargeAmountCents(req.OrderTotal, cfg)

	charge, err := s.gateway.CreateCharge(ctx, cfg.APIKey, stripe.ChargeParams{
		TokenID:     token,
		AmountCents: amountCents,
		Currency:    s.currency,
		Description: req.OrderGUID.String(),
		Capture:     true,
	})
	if err != nil {
		logger.Error().Err(err).Str("order_guid", req.OrderGUID.String()).Msg("charge creation failed")
		s.recordPayment("one_time", "charge_error", start)
		s.recordError("charge")
		result.AddError(err.Error())
		return result, nil
	}

	if charge.Captured {
		result.NewPaymentStatus = payment.StatusPaid
		s.recordPayment("one_time", "paid", start)
	} else {
		result.AddError(msgChargeFailed)
		s.recordPayment("one_time", "failed", start)
		s.recordError("not_captured")
	}

	return result, nil
}

// chargeAmountCents converts the order total plus the additional fee to
// integer minor-currency units. Both conversions truncate toward zero
// rather than round; the display path may therefore differ from the charged
// amount by one cent.
func (s *PaymentMethodService) chargeAmountCents(orderTotal decimal.Decimal, cfg *settings.PaymentSettings) int64 {
	cents := orderTotal.Mul(hundred).IntPart()
	if cfg.AdditionalFee.IsPositive() {
		fee := s.fees.Calculate(cfg.AdditionalFee, cfg.AdditionalFeePercentage, orderTotal)
		cents += fee.Mul(hundred).IntPart()
	}
	return cents
}

// ProcessRecurringPayment maps the configured transaction mode to a status
// without any gateway call.
func (s *PaymentMethodService) ProcessRecurringPayment(req *payment.ProcessPaymentRequest, cfg *settings.PaymentSettings) *payment.ProcessPaymentResult {
	result := &payment.ProcessPaymentResult{
		AllowStoringCardNumber: true,
	}

	switch cfg.TransactMode {
	case payment.TransactModeAuthorize:
		result.NewPaymentStatus = payment.StatusAuthorized
	case payment.TransactModeAuthorizeAndCapture:
		result.NewPaymentStatus = payment.StatusPaid
	default:
		result.AddError(msgTransactModeNotSupported)
	}

	return result
}

// Capture is not supported.
func (s *PaymentMethodService) Capture(req *payment.CapturePaymentRequest) *payment.CapturePaymentResult {
	result := &payment.CapturePaymentResult{}
	result.AddError(msgCaptureNotSupported)
	return result
}

// Refund is not supported.
func (s *PaymentMethodService) Refund(req *payment.RefundPaymentRequest) *payment.RefundPaymentResult {
	result := &payment.RefundPaymentResult{}
	result.AddError(msgRefundNotSupported)
	return result
}

// Void is not supported.
func (s *PaymentMethodService) Void(req *payment.VoidPaymentRequest) *payment.VoidPaymentResult {
	result := &payment.VoidPaymentResult{}
	result.AddError(msgVoidNotSupported)
	return result
}

// CancelRecurringPayment always succeeds; there is nothing to cancel on the
// provider side for manually managed recurring payments.
func (s *PaymentMethodService) CancelRecurringPayment(req *payment.CancelRecurringPaymentRequest) *payment.CancelRecurringPaymentResult {
	return &payment.CancelRecurringPaymentResult{}
}

// GetAdditionalHandlingFee returns the fee shown in the checkout summary.
// The charge path computes its own fee from the same settings.
func (s *PaymentMethodService) GetAdditionalHandlingFee(orderTotal decimal.Decimal, cfg *settings.PaymentSettings) decimal.Decimal {
	return s.fees.Calculate(cfg.AdditionalFee, cfg.AdditionalFeePercentage, orderTotal)
}

// GetPaymentInfo builds a payment request from the validated card form.
// Order and customer fields are filled in by the caller.
func (s *PaymentMethodService) GetPaymentInfo(form PaymentInfoForm) (*payment.ProcessPaymentRequest, error) {
	month, err := strconv.Atoi(form.ExpireMonth)
	if err != nil {
		return nil, domainErrors.NewValidationError("expire_month", "must be numeric")
	}
	year, err := strconv.Atoi(form.ExpireYear)
	if err != nil {
		return nil, domainErrors.NewValidationError("expire_year", "must be numeric")
	}

	return &payment.ProcessPaymentRequest{
		CardType:       form.CreditCardType,
		CardholderName: form.CardholderName,
		CardNumber:     form.CardNumber,
		ExpireMonth:    month,
		ExpireYear:     year,
		CVV:            form.CardCode,
	}, nil
}

// CanRePostProcessPayment reports whether a placed-but-unpaid order can
// re-enter payment processing. Not a redirection method, so always false; a
// nil order is a caller bug and fails fast.
func (s *PaymentMethodService) CanRePostProcessPayment(order *payment.Order) (bool, error) {
	if order == nil {
		return false, domainErrors.ErrNilOrder
	}
	return false, nil
}

// HidePaymentMethod reports whether the method should be hidden during
// checkout.
func (s *PaymentMethodService) HidePaymentMethod() bool {
	return false
}

// PostProcessPayment is used by redirection-based methods only; nothing to
// do here.
func (s *PaymentMethodService) PostProcessPayment(req *payment.ProcessPaymentRequest) {}

// PaymentMethodDescription resolves the localized checkout description.
func (s *PaymentMethodService) PaymentMethodDescription(ctx context.Context) string {
	return s.locale.GetResource(ctx, descriptionResource)
}

// Capability flags.

func (s *PaymentMethodService) SupportCapture() bool       { return false }
func (s *PaymentMethodService) SupportRefund() bool        { return false }
func (s *PaymentMethodService) SupportPartialRefund() bool { return false }
func (s *PaymentMethodService) SupportVoid() bool          { return false }

func (s *PaymentMethodService) RecurringPaymentType() payment.RecurringPaymentType {
	return payment.RecurringManual
}

func (s *PaymentMethodService) MethodType() payment.MethodType {
	return payment.MethodTypeStandard
}

func (s *PaymentMethodService) recordPayment(path, outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.PaymentsTotal.WithLabelValues(path, outcome).Inc()
	s.metrics.PaymentDuration.WithLabelValues(path, outcome).Observe(time.Since(start).Seconds())
}

func (s *PaymentMethodService) recordError(kind string) {
	if s.metrics == nil {
		return
	}
	s.metrics.PaymentErrors.WithLabelValues(kind).Inc()
}
