package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductPricing(t *testing.T) {
	testCases := []struct {
		name                     string
		price                    string
		discountPrice            *decimal.Decimal
		expectedEffectivePrice   string
		expectedOnSale           bool
		expectedDiscountPercents int
	}{
		{
			name:                   "no discount",
			price:                  "20.00",
			expectedEffectivePrice: "20",
		},
		{
			name:                     "discounted",
			price:                    "20.00",
			discountPrice:            decPtr("15.00"),
			expectedEffectivePrice:   "15",
			expectedOnSale:           true,
			expectedDiscountPercents: 25,
		},
		{
			name:                     "fractional percentage truncates",
			price:                    "29.99",
			discountPrice:            decPtr("19.99"),
			expectedEffectivePrice:   "19.99",
			expectedOnSale:           true,
			expectedDiscountPercents: 33,
		},
		{
			name:                   "discount equal to price is not a sale",
			price:                  "20.00",
			discountPrice:          decPtr("20.00"),
			expectedEffectivePrice: "20",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			product := Product{
				Price:         decimal.RequireFromString(tc.price),
				DiscountPrice: tc.discountPrice,
			}

			assert.Equal(t, tc.expectedEffectivePrice, product.EffectivePrice().String())
			assert.Equal(t, tc.expectedOnSale, product.IsOnSale())
			assert.Equal(t, tc.expectedDiscountPercents, product.DiscountPercentage())
		})
	}
}
