package calendar

// marchFirstYDay is the 0-based day-of-year boundary of the leap
// adjustment: 58 is February 28th (March 1st is 59 in a non-leap year).
// Leap-day drift only ever affects days of year on or after this boundary;
// earlier January and February days land on the same yday bucket in every
// year regardless of leap status.
const marchFirstYDay = 58

// ydayLeapAdjustment returns the correction applied to an origin's
// day-of-year when comparing it against a (yearOffset, yday) pair in a year
// whose leap-ness may differ from the origin year's.
//
// Without this, a leap year's extra day on February 29th shifts every
// March-onward day-of-year by one relative to a non-leap year, which would
// otherwise misalign "the Nth day-of-year bucket" across year boundaries.
func ydayLeapAdjustment(yearOffset, yday int, originLeap bool) int {
	if yday < marchFirstYDay {
		return 0
	}

	yearLeap := IsLeapYear(yearOffset + 1970)

	switch {
	case originLeap && yearLeap:
		return 0
	case originLeap && !yearLeap:
		return -1
	case !originLeap && yearLeap:
		return 1
	default:
		return 0
	}
}

// YdayOrigin is the precomputed origin state needed by YdayDistance: the
// origin's year offset, its day-of-year, and whether its year is a leap
// year.
type YdayOrigin struct {
	YearOffset int
	YDay       int
	Leap       bool
}

// YdayDistance computes the year-day (or, with every multiplied by 7,
// year-week) bucket index for a timestamp at (yearOffset, yday), given
// daysSinceEpoch (its absolute day count) and an origin. every must be >=
// 1. This compensates for leap-year drift so that the origin's
// day-of-year starts bucket 0 of every calendar year, independent of
// whether that year is a leap year.
func YdayDistance(daysSinceEpoch, yearOffset, yday int, origin YdayOrigin, every int) int {
	unitsInNonLeapYear := (365-1)/every + 1
	unitsInLeapYear := (366-1)/every + 1

	originYdayAdjusted := origin.YDay + ydayLeapAdjustment(yearOffset, yday, origin.Leap)

	lastOriginYearOffset := yearOffset
	if yday < originYdayAdjusted {
		lastOriginYearOffset--
	}

	lastOrigin := DaysBeforeYear(lastOriginYearOffset) + origin.YDay +
		ydayLeapAdjustment(lastOriginYearOffset, origin.YDay, origin.Leap)

	daysSinceLastOrigin := daysSinceEpoch - lastOrigin
	unitsInYear := FloorDivInt(daysSinceLastOrigin, every)

	yearsBetweenOrigins := lastOriginYearOffset - origin.YearOffset
	// The year starting at an origin day before the boundary holds a Feb 29th
	// when that year itself is a leap year; from an origin day on or after
	// the boundary, when the following year is.
	leapFrom, leapTo := origin.YearOffset, lastOriginYearOffset
	if origin.YDay < marchFirstYDay {
		leapFrom--
		leapTo--
	}
	leapYearsBetweenOrigins := LeapYearsBeforeAndIncludingYear(leapTo) -
		LeapYearsBeforeAndIncludingYear(leapFrom)
	nonLeapYearsBetweenOrigins := yearsBetweenOrigins - leapYearsBetweenOrigins

	unitsBetweenOrigins := unitsInLeapYear*leapYearsBetweenOrigins +
		unitsInNonLeapYear*nonLeapYearsBetweenOrigins

	return unitsBetweenOrigins + unitsInYear
}
