package service

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FeeService computes the additional handling fee charged on top of the
// order total.
type FeeService struct{}

func NewFeeService() *FeeService {
	return &FeeService{}
}

// Calculate returns the additional fee for an order total. Percentage fees
// are a share of the order total; fixed fees are returned as-is regardless
// of cart contents. Pure, no error conditions.
func (s *FeeService) Calculate(baseFee decimal.Decimal, isPercentage bool, orderTotal decimal.Decimal) decimal.Decimal {
	if isPercentage {
		return orderTotal.Mul(baseFee).Div(hundred)
	}
	return baseFee
}
