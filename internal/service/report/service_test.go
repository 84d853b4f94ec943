package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{
			name:     "whole amount has no cents fraction",
			amount:   "1000",
			currency: "LKR",
			want:     "one thousand LKR",
		},
		{
			name:     "cents are zero padded",
			amount:   "17.05",
			currency: "LKR",
			want:     "seventeen and 05/100 LKR",
		},
		{
			name:     "fraction keeps cents out of the words",
			amount:   "100.50",
			currency: "LKR",
			want:     "one hundred and 50/100 LKR",
		},
		{
			name:     "zero",
			amount:   "0",
			currency: "LKR",
			want:     "zero LKR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, amountInWords(amount, tt.currency))
		})
	}
}
