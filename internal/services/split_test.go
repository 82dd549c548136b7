package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitAmount(t *testing.T) {
	tests := []struct {
		name      string
		amount    int64
		pct       int64
		wantShare int64
		wantFee   int64
	}{
		{"ten percent", 1000, 10, 900, 100},
		{"fee rounds down", 999, 10, 900, 99},
		{"small amount", 5, 10, 5, 0},
		{"no fee", 1234, 0, 1234, 0},
		{"zero amount", 0, 10, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			share, fee := SplitAmount(tt.amount, tt.pct)
			assert.Equal(t, tt.wantShare, share)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.amount, share+fee)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "12.34", FormatCents(1234))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "-1.00", FormatCents(-100))
}
