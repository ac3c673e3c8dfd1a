package payment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents an order payment status. The zero value means the
// status was never set; callers must treat an unset status as a failed
// payment attempt.
type PaymentStatus string

const (
	StatusPending    PaymentStatus = "pending"
	StatusAuthorized PaymentStatus = "authorized"
	StatusPaid       PaymentStatus = "paid"
	StatusRefunded   PaymentStatus = "refunded"
	StatusVoided     PaymentStatus = "voided"
)

// TransactMode controls whether a payment is merely authorized or authorized
// and captured immediately.
type TransactMode string

const (
	TransactModeAuthorize           TransactMode = "authorize"
	TransactModeAuthorizeAndCapture TransactMode = "authorize_and_capture"
)

// Valid reports whether the mode is one of the supported transaction modes.
func (m TransactMode) Valid() bool {
	return m == TransactModeAuthorize || m == TransactModeAuthorizeAndCapture
}

// RecurringPaymentType describes how recurring payments are handled.
type RecurringPaymentType string

const (
	RecurringManual RecurringPaymentType = "manual"
)

// MethodType describes the checkout integration style of the payment method.
type MethodType string

const (
	MethodTypeStandard MethodType = "standard"
)

// ProcessPaymentRequest carries everything needed to process one payment
// attempt. It is built once from validated form input and consumed exactly
// once by the orchestrator.
type ProcessPaymentRequest struct {
	CardType       string
	CardholderName string
	CardNumber     string
	ExpireMonth    int
	ExpireYear     int
	CVV            string

	OrderTotal decimal.Decimal
	OrderGUID  uuid.UUID
	CustomerID int64
	StoreID    int64
}

// ProcessPaymentResult is the terminal outcome of a payment attempt.
type ProcessPaymentResult struct {
	NewPaymentStatus       PaymentStatus
	AllowStoringCardNumber bool
	Errors                 []string
}

// AddError appends a processing error to the result.
func (r *ProcessPaymentResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Success reports whether the attempt produced no errors.
func (r *ProcessPaymentResult) Success() bool {
	return len(r.Errors) == 0
}

// Order is the subset of an order the payment method needs to see.
type Order struct {
	ID      int64
	GUID    uuid.UUID
	StoreID int64
	Total   decimal.Decimal
}

// CapturePaymentRequest asks for a previously authorized payment to be
// captured. Capture is not supported by this method.
type CapturePaymentRequest struct {
	OrderGUID uuid.UUID
}

type CapturePaymentResult struct {
	Errors []string
}

func (r *CapturePaymentResult) AddError(msg string) { r.Errors = append(r.Errors, msg) }
func (r *CapturePaymentResult) Success() bool       { return len(r.Errors) == 0 }

// RefundPaymentRequest asks for a full or partial refund. Refund is not
// supported by this method.
type RefundPaymentRequest struct {
	OrderGUID      uuid.UUID
	AmountToRefund decimal.Decimal
	IsPartial      bool
}

type RefundPaymentResult struct {
	Errors []string
}

func (r *RefundPaymentResult) AddError(msg string) { r.Errors = append(r.Errors, msg) }
func (r *RefundPaymentResult) Success() bool       { return len(r.Errors) == 0 }

// VoidPaymentRequest asks for an authorization to be voided. Void is not
// supported by this method.
type VoidPaymentRequest struct {
	OrderGUID uuid.UUID
}

type VoidPaymentResult struct {
	Errors []string
}

func (r *VoidPaymentResult) AddError(msg string) { r.Errors = append(r.Errors, msg) }
func (r *VoidPaymentResult) Success() bool       { return len(r.Errors) == 0 }

// CancelRecurringPaymentRequest cancels a recurring payment schedule.
type CancelRecurringPaymentRequest struct {
	OrderGUID uuid.UUID
}

type CancelRecurringPaymentResult struct {
	Errors []string
}

func (r *CancelRecurringPaymentResult) AddError(msg string) { r.Errors = append(r.Errors, msg) }
func (r *CancelRecurringPaymentResult) Success() bool       { return len(r.Errors) == 0 }
