package payroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayrollStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from    PayrollStatus
		to      PayrollStatus
		allowed bool
	}{
		{PayrollStatusDraft, PayrollStatusCalculated, true},
		{PayrollStatusDraft, PayrollStatusCancelled, true},
		{PayrollStatusDraft, PayrollStatusApproved, false},
		{PayrollStatusDraft, PayrollStatusPaid, false},

		{PayrollStatusCalculated, PayrollStatusCalculated, true}, // recalculation
		{PayrollStatusCalculated, PayrollStatusApproved, true},
		{PayrollStatusCalculated, PayrollStatusCancelled, true},
		{PayrollStatusCalculated, PayrollStatusDraft, false},
		{PayrollStatusCalculated, PayrollStatusPaid, false},

		{PayrollStatusApproved, PayrollStatusPaid, true},
		{PayrollStatusApproved, PayrollStatusCancelled, false},
		{PayrollStatusApproved, PayrollStatusCalculated, false},
		{PayrollStatusApproved, PayrollStatusDraft, false},

		{PayrollStatusPaid, PayrollStatusCancelled, false},
		{PayrollStatusPaid, PayrollStatusDraft, false},
		{PayrollStatusCancelled, PayrollStatusDraft, false},
		{PayrollStatusCancelled, PayrollStatusCalculated, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestPayrollStatus_IsTerminal(t *testing.T) {
	t.Parallel()

	assert.False(t, PayrollStatusDraft.IsTerminal())
	assert.False(t, PayrollStatusCalculated.IsTerminal())
	assert.False(t, PayrollStatusApproved.IsTerminal())
	assert.True(t, PayrollStatusPaid.IsTerminal())
	assert.True(t, PayrollStatusCancelled.IsTerminal())
}

func TestPayrollStatus_Calculable(t *testing.T) {
	t.Parallel()

	assert.True(t, PayrollStatusDraft.Calculable())
	assert.True(t, PayrollStatusCalculated.Calculable())
	assert.False(t, PayrollStatusApproved.Calculable())
	assert.False(t, PayrollStatusPaid.Calculable())
	assert.False(t, PayrollStatusCancelled.Calculable())
}
