package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligibleAfter(t *testing.T) {
	tests := []struct {
		count    int
		eligible bool
	}{
		{0, false},
		{1, false},
		{2, false},
		{3, false},
		{4, true},
		{5, false},
		{8, false},
		{9, true},
		{10, false},
		{14, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.eligible, EligibleAfter(tt.count), "count=%d", tt.count)
	}
}

func TestLoyaltyLedger_RecordCompletion(t *testing.T) {
	ledger := &LoyaltyLedger{}

	// Walk through ten completions and check the derived flag at each step.
	for i := 1; i <= 10; i++ {
		ledger.RecordCompletion()
		assert.Equal(t, i, ledger.BookingsCount)
		assert.Equal(t, i%5 == 4, ledger.DiscountAvailable, "after %d completions", i)
	}
}

func TestLoyaltyLedger_ConsumeDiscount(t *testing.T) {
	ledger := &LoyaltyLedger{BookingsCount: 4, DiscountAvailable: true}

	ledger.ConsumeDiscount()

	assert.False(t, ledger.DiscountAvailable)
	assert.Equal(t, 4, ledger.BookingsCount, "consuming the discount must not touch the counter")
}
