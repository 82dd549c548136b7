package services

import "github.com/shopspring/decimal"

// SplitAmount делит оплату: комиссия платформы округляется вниз, остаток - создателю
func SplitAmount(amountCents, feePercent int64) (creatorShare, platformFee int64) {
	if amountCents <= 0 {
		return 0, 0
	}
	if feePercent < 0 {
		feePercent = 0
	}
	if feePercent > 100 {
		feePercent = 100
	}
	fee := decimal.NewFromInt(amountCents).
		Mul(decimal.NewFromInt(feePercent)).
		Div(decimal.NewFromInt(100)).
		Floor().
		IntPart()
	return amountCents - fee, fee
}

// FormatCents - 1234 -> "12.34"
func FormatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
