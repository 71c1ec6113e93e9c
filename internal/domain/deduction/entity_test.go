package deduction

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeduction_Validate(t *testing.T) {
	t.Parallel()

	amount := decimal.NewFromInt(50)
	negAmount := decimal.NewFromInt(-50)
	pct := decimal.NewFromInt(5)
	negPct := decimal.NewFromInt(-5)

	tests := []struct {
		name    string
		d       Deduction
		wantErr error
	}{
		{"fixed amount", Deduction{Amount: &amount}, nil},
		{"percentage", Deduction{IsPercentage: true, Percentage: &pct}, nil},
		{"fixed without amount", Deduction{}, ErrMalformedDeduction},
		{"percentage without percentage", Deduction{IsPercentage: true}, ErrMalformedDeduction},
		{"both representations", Deduction{IsPercentage: true, Amount: &amount, Percentage: &pct}, ErrMalformedDeduction},
		{"amount on percentage flag off", Deduction{Amount: &amount, Percentage: &pct}, ErrMalformedDeduction},
		{"negative amount", Deduction{Amount: &negAmount}, ErrNegativeDeduction},
		{"negative percentage", Deduction{IsPercentage: true, Percentage: &negPct}, ErrNegativeDeduction},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.d.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestDeduction_AppliesTo(t *testing.T) {
	t.Parallel()

	periodStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	beforePeriod := periodStart.AddDate(0, -1, 0)
	afterPeriod := periodEnd.AddDate(0, 1, 0)

	base := Deduction{IsActive: true, ValidFrom: beforePeriod}

	t.Run("active within window", func(t *testing.T) {
		t.Parallel()
		assert.True(t, base.AppliesTo(periodStart, periodEnd))
	})

	t.Run("inactive", func(t *testing.T) {
		t.Parallel()
		d := base
		d.IsActive = false
		assert.False(t, d.AppliesTo(periodStart, periodEnd))
	})

	t.Run("starts after period", func(t *testing.T) {
		t.Parallel()
		d := base
		d.ValidFrom = afterPeriod
		assert.False(t, d.AppliesTo(periodStart, periodEnd))
	})

	t.Run("expired before period", func(t *testing.T) {
		t.Parallel()
		d := base
		d.ValidTo = &beforePeriod
		assert.False(t, d.AppliesTo(periodStart, periodEnd))
	})

	t.Run("expires mid period", func(t *testing.T) {
		t.Parallel()
		midPeriod := periodStart.AddDate(0, 0, 10)
		d := base
		d.ValidTo = &midPeriod
		assert.True(t, d.AppliesTo(periodStart, periodEnd))
	})

	t.Run("starts mid period", func(t *testing.T) {
		t.Parallel()
		d := base
		d.ValidFrom = periodStart.AddDate(0, 0, 10)
		assert.True(t, d.AppliesTo(periodStart, periodEnd))
	})
}
