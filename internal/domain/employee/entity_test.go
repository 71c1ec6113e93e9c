package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayFrequency_PeriodsPerYear(t *testing.T) {
	t.Parallel()

	tests := []struct {
		frequency PayFrequency
		periods   int64
	}{
		{PayFrequencyMonthly, 12},
		{PayFrequencyBiweekly, 24},
		{PayFrequencyWeekly, 52},
	}

	for _, tt := range tests {
		periods, err := tt.frequency.PeriodsPerYear()
		require.NoError(t, err)
		assert.Equal(t, tt.periods, periods)
	}

	_, err := PayFrequency("quarterly").PeriodsPerYear()
	assert.ErrorIs(t, err, ErrUnknownPayFrequency)
}
