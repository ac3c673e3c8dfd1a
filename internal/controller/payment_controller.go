package controller

import (
	"net/http"

	domainErrors "github.com/merchantkit/payment-stripe/internal/domain/errors"
	"github.com/merchantkit/payment-stripe/internal/domain/payment"
	"github.com/merchantkit/payment-stripe/internal/service"
	"github.com/merchantkit/payment-stripe/internal/settings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentController exposes the checkout-facing payment surface: the card
// entry form submission, fee preview, and the recurring/management
// operations.
type PaymentController struct {
	payments  *service.PaymentMethodService
	validator *service.FormValidator
	settings  *settings.Service
}

func NewPaymentController(payments *service.PaymentMethodService, validator *service.FormValidator, settingsService *settings.Service) *PaymentController {
	return &PaymentController{
		payments:  payments,
		validator: validator,
		settings:  settingsService,
	}
}

// ProcessPayment handles POST /api/v1/checkout/payment.
func (c *PaymentController) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req CheckoutPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.OrderTotal.IsNegative() {
		writeError(w, domainErrors.NewValidationError("order_total", "must not be negative"))
		return
	}

	ctx := r.Context()

	if warnings := c.validator.Validate(ctx, req.Form()); len(warnings) > 0 {
		writeJSON(w, http.StatusBadRequest, ProcessPaymentResponse{Errors: warnings})
		return
	}

	paymentReq, err := c.payments.GetPaymentInfo(req.Form())
	if err != nil {
		writeError(w, err)
		return
	}
	paymentReq.OrderTotal = req.OrderTotal
	paymentReq.CustomerID = req.CustomerID
	paymentReq.StoreID = req.StoreID
	if req.OrderGUID != "" {
		guid, err := uuid.Parse(req.OrderGUID)
		if err != nil {
			writeError(w, domainErrors.NewValidationError("order_guid", "must be a valid UUID"))
			return
		}
		paymentReq.OrderGUID = guid
	} else {
		paymentReq.OrderGUID = uuid.New()
	}

	cfg, err := c.settings.Load(ctx, req.StoreID)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := c.payments.ProcessPayment(ctx, paymentReq, cfg)
	if err != nil {
		writeError(w, err)
		return
	}
	if !result.Success() {
		writeJSON(w, http.StatusPaymentRequired, FromProcessPaymentResult(result))
		return
	}
	writeJSON(w, http.StatusOK, FromProcessPaymentResult(result))
}

// GetFee handles GET /api/v1/checkout/fee?order_total=..&store_id=..
func (c *PaymentController) GetFee(w http.ResponseWriter, r *http.Request) {
	total, err := decimal.NewFromString(r.URL.Query().Get("order_total"))
	if err != nil {
		writeError(w, domainErrors.NewValidationError("order_total", "must be a decimal number"))
		return
	}
	storeID, err := storeIDFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	cfg, err := c.settings.Load(r.Context(), storeID)
	if err != nil {
		writeError(w, err)
		return
	}

	fee := c.payments.GetAdditionalHandlingFee(total, cfg)
	writeJSON(w, http.StatusOK, FeeResponse{AdditionalFee: fee})
}

// GetDescription handles GET /api/v1/checkout/description.
func (c *PaymentController) GetDescription(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DescriptionResponse{
		Description: c.payments.PaymentMethodDescription(r.Context()),
	})
}

// ProcessRecurringPayment handles POST /api/v1/checkout/recurring. No card
// data travels on this path; the outcome depends only on the configured
// transaction mode.
func (c *PaymentController) ProcessRecurringPayment(w http.ResponseWriter, r *http.Request) {
	var req RecurringPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	cfg, err := c.settings.Load(r.Context(), req.StoreID)
	if err != nil {
		writeError(w, err)
		return
	}

	paymentReq := &payment.ProcessPaymentRequest{
		OrderTotal: req.OrderTotal,
		OrderGUID:  uuid.MustParse(req.OrderGUID),
		CustomerID: req.CustomerID,
		StoreID:    req.StoreID,
	}

	result := c.payments.ProcessRecurringPayment(paymentReq, cfg)
	if !result.Success() {
		writeJSON(w, http.StatusUnprocessableEntity, FromProcessPaymentResult(result))
		return
	}
	writeJSON(w, http.StatusOK, FromProcessPaymentResult(result))
}

// CancelRecurringPayment handles DELETE /api/v1/checkout/recurring.
func (c *PaymentController) CancelRecurringPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentOperationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result := c.payments.CancelRecurringPayment(&payment.CancelRecurringPaymentRequest{
		OrderGUID: uuid.MustParse(req.OrderGUID),
	})
	writeJSON(w, http.StatusOK, OperationResponse{Errors: result.Errors})
}

// CapturePayment handles POST /api/v1/payments/capture.
func (c *PaymentController) CapturePayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentOperationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result := c.payments.Capture(&payment.CapturePaymentRequest{
		OrderGUID: uuid.MustParse(req.OrderGUID),
	})
	writeJSON(w, http.StatusUnprocessableEntity, OperationResponse{Errors: result.Errors})
}

// RefundPayment handles POST /api/v1/payments/refund.
func (c *PaymentController) RefundPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentOperationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	refundReq := &payment.RefundPaymentRequest{
		OrderGUID: uuid.MustParse(req.OrderGUID),
	}
	if req.AmountToRefund != nil {
		refundReq.AmountToRefund = *req.AmountToRefund
		refundReq.IsPartial = true
	}

	result := c.payments.Refund(refundReq)
	writeJSON(w, http.StatusUnprocessableEntity, OperationResponse{Errors: result.Errors})
}

// VoidPayment handles POST /api/v1/payments/void.
func (c *PaymentController) VoidPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentOperationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result := c.payments.Void(&payment.VoidPaymentRequest{
		OrderGUID: uuid.MustParse(req.OrderGUID),
	})
	writeJSON(w, http.StatusUnprocessableEntity, OperationResponse{Errors: result.Errors})
}

func storeIDFromQuery(r *http.Request) (int64, error) {
	raw := r.URL.Query().Get("store_id")
	if raw == "" {
		return settings.GlobalScope, nil
	}
	storeID, err := parseStoreID(raw)
	if err != nil {
		return 0, domainErrors.NewValidationError("store_id", "must be a non-negative integer")
	}
	return storeID, nil
}
