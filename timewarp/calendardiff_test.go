package timewarp

import (
	"context"
	"testing"

	"github.com/luthersystems/timewarp/calendar"
	"github.com/stretchr/testify/require"
)

func TestCalendarDiffAcrossLeapDay(t *testing.T) {
	start := NewDate(daysSince(2024, 2, 29))
	end := NewDate(daysSince(2025, 2, 28))
	got, err := CalendarDiff(context.Background(), start, end)
	require.NoError(t, err)
	require.Equal(t, calendar.YMDiff{Years: 0, Months: 11, Days: 30}, got)
}

func TestCalendarDiffRejectsMissing(t *testing.T) {
	_, err := CalendarDiff(context.Background(), MissingDate(), NewDate(0))
	require.Error(t, err)
}
