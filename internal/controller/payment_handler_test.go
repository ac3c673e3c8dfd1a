package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/merchantkit/payment-stripe/internal/domain/payment"
	"github.com/merchantkit/payment-stripe/internal/gateway/stripe"
	"github.com/merchantkit/payment-stripe/internal/localization"
	"github.com/merchantkit/payment-stripe/internal/service"
	"github.com/merchantkit/payment-stripe/internal/settings"
	"github.com/merchantkit/payment-stripe/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

// --- Test Helpers ---

type paymentHandlerDeps struct {
	controller  *PaymentController
	gateway     *testutil.MockGatewayClient
	settingRepo *testutil.MockSettingRepository
}

func setupPaymentHandler(t *testing.T) paymentHandlerDeps {
	t.Helper()

	gateway := testutil.NewMockGatewayClient()
	settingRepo := testutil.NewMockSettingRepository()
	cache := testutil.NewMemoryCache()
	settingsService := settings.NewService(settingRepo, cache, nil, zerolog.Nop())
	locale := localization.NewService(testutil.NewMockLocaleRepository(), zerolog.Nop())

	paymentService := service.NewPaymentMethodService(gateway, service.NewFeeService(), locale, "usd", nil, zerolog.Nop())
	formValidator := service.NewFormValidator(locale)

	ctx := context.Background()
	require.NoError(t, settingRepo.Upsert(ctx, settings.NameTransactMode, "authorize", settings.GlobalScope))
	require.NoError(t, settingRepo.Upsert(ctx, settings.NameAdditionalFee, "0", settings.GlobalScope))
	require.NoError(t, settingRepo.Upsert(ctx, settings.NameAdditionalFeePercentage, "false", settings.GlobalScope))
	require.NoError(t, settingRepo.Upsert(ctx, settings.NameAPIKey, "sk_test", settings.GlobalScope))

	return paymentHandlerDeps{
		controller:  NewPaymentController(paymentService, formValidator, settingsService),
		gateway:     gateway,
		settingRepo: settingRepo,
	}
}

func checkoutBody(t *testing.T, mutate func(map[string]any)) *bytes.Reader {
	t.Helper()
	body := map[string]any{
		"credit_card_type": "Visa",
		"cardholder_name":  "Maria Souza",
		"card_number":      "4242424242424242",
		"card_code":        "123",
		"expire_month":     "12",
		"expire_year":      "2030",
		"order_total":      "19.99",
		"customer_id":      42,
		"store_id":         1,
	}
	if mutate != nil {
		mutate(body)
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

// --- ProcessPayment Tests ---

func TestProcessPaymentHandler_Success(t *testing.T) {
	deps := setupPaymentHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment", checkoutBody(t, nil))
	rec := httptest.NewRecorder()
	deps.controller.ProcessPayment(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "paid", resp.PaymentStatus)
	assert.False(t, resp.AllowStoringCardNumber)
	assert.Empty(t, resp.Errors)

	assert.Equal(t, int64(1999), deps.gateway.LastCharge.AmountCents)
	assert.True(t, deps.gateway.LastCharge.Capture)
}

func TestProcessPaymentHandler_InvalidForm(t *testing.T) {
	deps := setupPaymentHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment", checkoutBody(t, func(b map[string]any) {
		b["card_number"] = "1234567890123456"
	}))
	rec := httptest.NewRecorder()
	deps.controller.ProcessPayment(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp ProcessPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Card number is not valid"}, resp.Errors)
	assert.Equal(t, 0, deps.gateway.TokenCalls)
}

func TestProcessPaymentHandler_ChargeNotCaptured(t *testing.T) {
	deps := setupPaymentHandler(t)
	deps.gateway.CreateChargeFunc = func(ctx context.Context, apiKey string, params stripe.ChargeParams) (*stripe.Charge, error) {
		return &stripe.Charge{ID: "ch_1", Captured: false}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment", checkoutBody(t, nil))
	rec := httptest.NewRecorder()
	deps.controller.ProcessPayment(rec, req)

	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var resp ProcessPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Failed"}, resp.Errors)
	assert.Empty(t, resp.PaymentStatus)
}

func TestProcessPaymentHandler_MissingCustomerID(t *testing.T) {
	deps := setupPaymentHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment", checkoutBody(t, func(b map[string]any) {
		delete(b, "customer_id")
	}))
	rec := httptest.NewRecorder()
	deps.controller.ProcessPayment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProcessPaymentHandler_BadOrderGUID(t *testing.T) {
	deps := setupPaymentHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/payment", checkoutBody(t, func(b map[string]any) {
		b["order_guid"] = "not-a-uuid"
	}))
	rec := httptest.NewRecorder()
	deps.controller.ProcessPayment(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, deps.gateway.TokenCalls)
}

// --- Fee and Description Tests ---

func TestGetFeeHandler(t *testing.T) {
	deps := setupPaymentHandler(t)
	require.NoError(t, deps.settingRepo.Upsert(context.Background(), settings.NameAdditionalFee, "5", settings.GlobalScope))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/fee?order_total=19.99&store_id=0", nil)
	rec := httptest.NewRecorder()
	deps.controller.GetFee(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp FeeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.AdditionalFee.Equal(decimalFromString(t, "5")))
}

func TestGetFeeHandler_BadTotal(t *testing.T) {
	deps := setupPaymentHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/fee?order_total=abc", nil)
	rec := httptest.NewRecorder()
	deps.controller.GetFee(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetDescriptionHandler(t *testing.T) {
	deps := setupPaymentHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/description", nil)
	rec := httptest.NewRecorder()
	deps.controller.GetDescription(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

// --- Recurring Tests ---

func TestProcessRecurringHandler_Authorize(t *testing.T) {
	deps := setupPaymentHandler(t)

	body := map[string]any{
		"order_guid":  "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		"order_total": "19.99",
		"customer_id": 42,
		"store_id":    0,
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/recurring", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	deps.controller.ProcessRecurringPayment(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ProcessPaymentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, string(payment.StatusAuthorized), resp.PaymentStatus)
	assert.True(t, resp.AllowStoringCardNumber)
	assert.Equal(t, 0, deps.gateway.ChargeCalls)
}

// --- Unsupported Operation Tests ---

func TestUnsupportedOperationHandlers(t *testing.T) {
	deps := setupPaymentHandler(t)

	body := `{"order_guid": "7c9e6679-7425-40de-944b-e07fc1f90ae7"}`
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{"capture", deps.controller.CapturePayment, "Capture method not supported"},
		{"refund", deps.controller.RefundPayment, "Refund method not supported"},
		{"void", deps.controller.VoidPayment, "Void method not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/"+tt.name, bytes.NewReader([]byte(body)))
			rec := httptest.NewRecorder()
			tt.handler(rec, req)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp OperationResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, []string{tt.wantErr}, resp.Errors)
		})
	}

	assert.Equal(t, 0, deps.gateway.TokenCalls)
	assert.Equal(t, 0, deps.gateway.ChargeCalls)
}

func TestCancelRecurringHandler_AlwaysSucceeds(t *testing.T) {
	deps := setupPaymentHandler(t)

	body := `{"order_guid": "7c9e6679-7425-40de-944b-e07fc1f90ae7"}`
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/checkout/recurring", bytes.NewReader([]byte(body)))
	rec := httptest.NewRecorder()
	deps.controller.CancelRecurringPayment(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp OperationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Errors)
}
