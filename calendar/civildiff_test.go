package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daysOf(year, month0, day int) int {
	return DaysFromComponents(year-1970, month0, day)
}

func TestDiffYMDSameDate(t *testing.T) {
	d := daysOf(2024, 5, 17)
	diff, err := DiffYMD(d, d)
	require.NoError(t, err)
	assert.Equal(t, YMDiff{}, diff)
}

func TestDiffYMDAcrossLeapDay(t *testing.T) {
	start := daysOf(2024, 1, 29) // 2024-02-29
	end := daysOf(2025, 1, 28)   // 2025-02-28
	diff, err := DiffYMD(start, end)
	require.NoError(t, err)
	assert.Equal(t, YMDiff{Years: 0, Months: 11, Days: 30}, diff)
}

func TestDiffYMDMonthRollover(t *testing.T) {
	// Jan 31 + 1 month rolls into March (Go's AddDate semantics: 2023 is
	// not a leap year, so Feb has 28 days and the 31st lands on March 3),
	// not a clamp to the last day of February.
	start := daysOf(2023, 0, 31) // 2023-01-31
	end := daysOf(2023, 2, 5)    // 2023-03-05
	diff, err := DiffYMD(start, end)
	require.NoError(t, err)
	assert.Equal(t, YMDiff{Years: 0, Months: 1, Days: 2}, diff)
}

func TestDiffYMDWholeYears(t *testing.T) {
	start := daysOf(2018, 5, 1) // 2018-06-01
	end := daysOf(2024, 5, 1)   // 2024-06-01
	diff, err := DiffYMD(start, end)
	require.NoError(t, err)
	assert.Equal(t, YMDiff{Years: 6, Months: 0, Days: 0}, diff)
}

func TestDiffYMDRejectsStartAfterEnd(t *testing.T) {
	_, err := DiffYMD(daysOf(2024, 5, 2), daysOf(2024, 5, 1))
	assert.ErrorIs(t, err, ErrStartAfterEnd)
}
