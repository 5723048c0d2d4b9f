package calendar

import "errors"

// YMDiff is a canonical (years, months, days) span between two civil dates,
// computed by the "max whole months, then days" rule: the largest whole
// number of months that can be added to start without passing end, with the
// remainder expressed in whole days.
type YMDiff struct {
	Years  int
	Months int
	Days   int
}

var (
	// ErrStartAfterEnd indicates start occurs after end.
	ErrStartAfterEnd = errors.New("calendar: start after end")
)

// DiffYMD computes the canonical (years, months, days) span between two day
// counts since 1970-01-01, the same epoch ConvertDaysToComponents and
// DaysFromComponents use. Month arithmetic rolls over the way Go's
// time.AddDate does: a day of month past the end of the target month
// spills into the month after (adding a month to March 31st lands on
// May 1st, to January 31st on March 2nd or 3rd), rather than clamping to
// the last day.
func DiffYMD(startDays, endDays int) (YMDiff, error) {
	if startDays > endDays {
		return YMDiff{}, ErrStartAfterEnd
	}
	start := ConvertDaysToComponents(startDays)
	end := ConvertDaysToComponents(endDays)

	m := (end.YearOffset-start.YearOffset)*12 + (end.Month - start.Month)
	anchor := addMonths(start, m)

	// At most one step back or forward corrects the arithmetic estimate
	// into the unique M satisfying addMonths(start, M) <= end <
	// addMonths(start, M+1).
	if anchor > endDays {
		m--
		anchor = addMonths(start, m)
	}
	if next := addMonths(start, m+1); next <= endDays {
		m++
		anchor = next
	}

	return YMDiff{
		Years:  m / 12,
		Months: m % 12,
		Days:   endDays - anchor,
	}, nil
}

// addMonths shifts start's civil date by the given whole number of months
// and returns the resulting day count since 1970-01-01. It reuses
// DaysFromComponents rather than clamping the day of month explicitly: a
// day that overflows the target month (e.g. day 31 landing in a 30-day
// month) simply advances the running day count into the following month,
// which is exactly how DaysFromComponents already behaves.
func addMonths(start Components, months int) int {
	absoluteMonth := (start.YearOffset+1970)*12 + start.Month + months
	yearOffset := FloorDivInt(absoluteMonth, 12) - 1970
	month := absoluteMonth - (yearOffset+1970)*12
	return DaysFromComponents(yearOffset, month, start.Day)
}
