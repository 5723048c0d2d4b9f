package timewarp

import (
	"context"

	"github.com/luthersystems/timewarp/bucketerr"
	"github.com/luthersystems/timewarp/calendar"
)

// CalendarDiff reports the canonical (years, months, days) span between
// two Values (an Instant counts as its UTC calendar day), using the "max
// whole months, then days" rule. Unlike
// Distance, which buckets many elements against one origin, CalendarDiff
// answers a single pairwise question and is useful for reporting
// human-readable gaps between bucket boundaries.
func CalendarDiff(ctx context.Context, start, end Value) (calendar.YMDiff, error) {
	if start.IsMissing() || end.IsMissing() {
		return calendar.YMDiff{}, bucketerr.InvalidArgument(ctx, "calendar diff operands must not be missing")
	}
	startDays := valueToDays(start)
	endDays := valueToDays(end)
	diff, err := calendar.DiffYMD(startDays, endDays)
	if err != nil {
		return calendar.YMDiff{}, bucketerr.InvalidArgument(ctx, "calendar diff: %v", err)
	}
	return diff, nil
}

// valueToDays converts a Value to a day count since 1970-01-01 for the
// civil date it represents, discarding any sub-day precision an Instant
// might carry by flooring it to the start of its UTC day.
func valueToDays(v Value) int {
	if v.Kind == KindDate {
		return v.Days
	}
	return int(calendar.FloorDiv(calendar.GuardedFloorSeconds(v.Seconds), 86400))
}
