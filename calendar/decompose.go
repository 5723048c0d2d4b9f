package calendar

// Calendar epoch bookkeeping. The proleptic Gregorian calendar is anchored
// at 0001-01-01; 1970-01-01 falls 719,162 days and 477 leap years after
// that anchor. Every year in this file is expressed as yearOffset, an
// offset from 1970 (so 1970 itself is yearOffset 0), matching the
// "year_offset" vocabulary of the original timeslide C source this engine
// is ported from.
const (
	daysFrom0001ToEpoch = 719162
	leapYearsToEpoch    = 477
)

// IsLeapYear reports whether the given (absolute, not offset) year is a
// leap year in the proleptic Gregorian calendar.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// DaysBeforeYear returns the number of days between 1970-01-01 and the
// first day of the year (1970 + yearOffset), i.e. the epoch-relative day
// count of that year's January 1st.
func DaysBeforeYear(yearOffset int) int {
	year := yearOffset + 1970 - 1
	days := year*365 + FloorDivInt(year, 4) - FloorDivInt(year, 100) + FloorDivInt(year, 400)
	return days - daysFrom0001ToEpoch
}

// LeapYearsBeforeAndIncludingYear counts leap years in (0001, 1970+yearOffset],
// anchored so that year_offset 0 (1970) evaluates to 0.
func LeapYearsBeforeAndIncludingYear(yearOffset int) int {
	year := yearOffset + 1970
	n := FloorDivInt(year, 4) - FloorDivInt(year, 100) + FloorDivInt(year, 400)
	return n - leapYearsToEpoch
}

// Components is the calendar decomposition of a day count since epoch.
type Components struct {
	YearOffset int // offset from 1970
	Month      int // 0-based, [0, 11]
	Day        int // 1-based, [1, 31]
	YDay       int // 0-based day of year, [0, 365]
}

var cumulativeDaysNonLeap = [13]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334, 365}
var cumulativeDaysLeap = [13]int{0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335, 366}

// ConvertDaysToComponents decomposes a signed day count since 1970-01-01
// into (year offset, 0-based month, 1-based day of month, 0-based day of
// year). It round-trips exactly with DaysBeforeYear: for every day count d,
// DaysBeforeYear(c.YearOffset) + c.YDay == d.
func ConvertDaysToComponents(days int) Components {
	// A year is ~365.2425 days; use that as a first estimate and then walk
	// to the exact year using DaysBeforeYear, which is cheap and bounds the
	// walk to at most a couple of iterations even for wildly wrong guesses
	// near the edges of the 32-bit day range.
	yearOffset := FloorDivInt(days*10000, 3652425)
	for DaysBeforeYear(yearOffset+1) <= days {
		yearOffset++
	}
	for DaysBeforeYear(yearOffset) > days {
		yearOffset--
	}

	yday := days - DaysBeforeYear(yearOffset)

	cum := &cumulativeDaysNonLeap
	if IsLeapYear(yearOffset + 1970) {
		cum = &cumulativeDaysLeap
	}

	month := 0
	for month < 11 && cum[month+1] <= yday {
		month++
	}
	day := yday - cum[month] + 1

	return Components{
		YearOffset: yearOffset,
		Month:      month,
		Day:        day,
		YDay:       yday,
	}
}

// DaysFromComponents is the inverse of ConvertDaysToComponents: given a
// year offset, a 0-based month, and a 1-based day of month, it returns the
// signed day count since 1970-01-01.
func DaysFromComponents(yearOffset, month, day int) int {
	cum := &cumulativeDaysNonLeap
	if IsLeapYear(yearOffset + 1970) {
		cum = &cumulativeDaysLeap
	}
	yday := cum[month] + day - 1
	return DaysBeforeYear(yearOffset) + yday
}
