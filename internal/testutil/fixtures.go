package testutil

import (
	"github.com/merchantkit/payment-stripe/internal/domain/payment"
	"github.com/merchantkit/payment-stripe/internal/settings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func NewTestPaymentRequest(orderTotal string, storeID int64) *payment.ProcessPaymentRequest {
	return &payment.ProcessPaymentRequest{
		CardType:       "Visa",
		CardholderName: "Maria Souza",
		CardNumber:     "4242424242424242",
		ExpireMonth:    12,
		ExpireYear:     2030,
		CVV:            "123",
		OrderTotal:     decimal.RequireFromString(orderTotal),
		OrderGUID:      uuid.New(),
		CustomerID:     42,
		StoreID:        storeID,
	}
}

func NewTestSettings(transactMode payment.TransactMode, fee string, percentage bool) *settings.PaymentSettings {
	return &settings.PaymentSettings{
		TransactMode:            transactMode,
		AdditionalFee:           decimal.RequireFromString(fee),
		AdditionalFeePercentage: percentage,
		APIKey:                  "sk_test_123",
	}
}
