package models

import (
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOrderNumber(t *testing.T) {
	now := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)

	number := NewOrderNumber(now)

	assert.Regexp(t, regexp.MustCompile(`^ORD-20260829-[0-9A-F]{8}$`), number)
}

func TestNewOrderNumberIsRandomized(t *testing.T) {
	now := time.Now()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[NewOrderNumber(now)] = true
	}

	assert.Len(t, seen, 50)
}

func TestOrderItemLineTotal(t *testing.T) {
	item := OrderItem{
		Quantity: 3,
		Price:    decimal.RequireFromString("4.50"),
	}

	assert.Equal(t, "13.5", item.LineTotal().String())
}
