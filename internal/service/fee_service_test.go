package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculate_FixedFee(t *testing.T) {
	svc := NewFeeService()

	fee := svc.Calculate(decimal.RequireFromString("5"), false, decimal.RequireFromString("19.99"))
	assert.True(t, fee.Equal(decimal.NewFromInt(5)), "got %s", fee)
}

func TestCalculate_PercentageFee(t *testing.T) {
	svc := NewFeeService()

	tests := []struct {
		name       string
		fee        string
		orderTotal string
		want       string
	}{
		{"ten percent", "10", "19.99", "1.999"},
		{"whole result", "10", "100", "10"},
		{"fractional rate", "2.5", "80", "2"},
		{"zero total", "10", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Calculate(decimal.RequireFromString(tt.fee), true, decimal.RequireFromString(tt.orderTotal))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestCalculate_PercentageIgnoresNothing(t *testing.T) {
	// The calculator itself returns the raw value; callers decide whether a
	// non-positive fee applies.
	svc := NewFeeService()

	fee := svc.Calculate(decimal.Zero, false, decimal.RequireFromString("19.99"))
	assert.True(t, fee.IsZero())
}
