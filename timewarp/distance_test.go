package timewarp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func daysSince(year, month, day int) int {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return int(t.Unix() / 86400)
}

func TestDistanceDayEveryOne(t *testing.T) {
	origin := &Origin{Value: NewDate(daysSince(2024, 1, 1))}
	x := Vector{Values: []Value{
		NewDate(daysSince(2024, 1, 1)),
		NewDate(daysSince(2024, 1, 2)),
		NewDate(daysSince(2024, 1, 31)),
	}}
	got, err := Distance(context.Background(), x, Period{Kind: Day, Every: 1}, origin)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 30}, got)
}

func TestDistanceMonthEveryOneAcrossYearBoundary(t *testing.T) {
	origin := &Origin{Value: NewDate(daysSince(2023, 11, 15))}
	x := Vector{Values: []Value{
		NewDate(daysSince(2023, 11, 15)),
		NewDate(daysSince(2023, 12, 1)),
		NewDate(daysSince(2024, 1, 1)),
		NewDate(daysSince(2024, 2, 29)),
	}}
	got, err := Distance(context.Background(), x, Period{Kind: Month, Every: 1}, origin)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 2, 3}, got)
}

func TestDistanceQuarterGroupsThreeMonths(t *testing.T) {
	origin := &Origin{Value: NewDate(daysSince(2024, 1, 1))}
	x := Vector{Values: []Value{
		NewDate(daysSince(2024, 1, 1)),
		NewDate(daysSince(2024, 3, 31)),
		NewDate(daysSince(2024, 4, 1)),
	}}
	got, err := Distance(context.Background(), x, Period{Kind: Quarter, Every: 1}, origin)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 0, 1}, got)
}

func TestDistanceWeekEveryOne(t *testing.T) {
	origin := &Origin{Value: NewDate(daysSince(2024, 1, 1))}
	x := Vector{Values: []Value{
		NewDate(daysSince(2024, 1, 1)),
		NewDate(daysSince(2024, 1, 7)),
		NewDate(daysSince(2024, 1, 8)),
	}}
	got, err := Distance(context.Background(), x, Period{Kind: Week, Every: 1}, origin)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 0, 1}, got)
}

func TestDistanceYearEveryTwo(t *testing.T) {
	origin := &Origin{Value: NewDate(daysSince(2000, 1, 1))}
	x := Vector{Values: []Value{
		NewDate(daysSince(2000, 6, 1)),
		NewDate(daysSince(2002, 6, 1)),
		NewDate(daysSince(2001, 6, 1)),
	}}
	got, err := Distance(context.Background(), x, Period{Kind: Year, Every: 2}, origin)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1, 0}, got)
}

func TestDistanceAbsentOriginUsesEpoch(t *testing.T) {
	x := Vector{Values: []Value{NewDate(0), NewDate(1)}}
	got, err := Distance(context.Background(), x, Period{Kind: Day, Every: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 1}, got)
}

func TestDistanceMissingValuePropagates(t *testing.T) {
	x := Vector{Values: []Value{NewDate(0), MissingDate(), NewDate(2)}}
	got, err := Distance(context.Background(), x, Period{Kind: Day, Every: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, MissingBucket, got[1])
	require.Equal(t, int64(0), got[0])
	require.Equal(t, int64(2), got[2])
}

func TestDistanceMissingOriginIsAnError(t *testing.T) {
	origin := &Origin{Value: MissingDate()}
	x := Vector{Values: []Value{NewDate(0)}}
	_, err := Distance(context.Background(), x, Period{Kind: Day, Every: 1}, origin)
	require.Error(t, err)
}

func TestDistanceInvalidEveryIsAnError(t *testing.T) {
	x := Vector{Values: []Value{NewDate(0)}}
	_, err := Distance(context.Background(), x, Period{Kind: Day, Every: 0}, nil)
	require.Error(t, err)
}

func TestDistanceHourEveryOneOnInstants(t *testing.T) {
	origin := &Origin{Value: NewInstant(0)}
	x := Vector{Values: []Value{
		NewInstant(0),
		NewInstant(3599),
		NewInstant(3600),
		NewInstant(-1),
	}}
	got, err := Distance(context.Background(), x, Period{Kind: Hour, Every: 1}, origin)
	require.NoError(t, err)
	require.Equal(t, []int64{0, 0, 1, -1}, got)
}

func TestDistanceMillisecondGuardsFloatNoise(t *testing.T) {
	got, err := Distance(context.Background(), Vector{Values: []Value{NewInstant(-0.002)}},
		Period{Kind: Millisecond, Every: 1}, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{-2}, got)
}

func TestDistanceYdayAlignsAcrossLeapYear(t *testing.T) {
	origin := &Origin{Value: NewDate(daysSince(2019, 1, 1))}
	x := Vector{Values: []Value{
		NewDate(daysSince(2019, 3, 1)),
		NewDate(daysSince(2020, 3, 1)), // 2020 is a leap year
	}}
	got, err := Distance(context.Background(), x, Period{Kind: Yday, Every: 1}, origin)
	require.NoError(t, err)
	// 365 buckets for 2019, plus March 1st being day 60 of 2020 vs day 59
	// of 2019 (a January 1st origin is not leap-adjusted).
	require.Equal(t, int64(366), got[1]-got[0])
}
