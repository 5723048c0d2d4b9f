package timewarp

import (
	"math"
	"time"

	"github.com/luthersystems/timewarp/calendar"
)

// secondsToTime converts an absolute seconds-since-epoch value to a
// time.Time in UTC, guarding against the floating point representation
// noise that guardedFloor* were written to compensate for.
func secondsToTime(seconds float64) time.Time {
	whole := calendar.GuardedFloorSeconds(seconds)
	frac := seconds - float64(whole)
	return time.Unix(whole, int64(math.Round(frac*1e9))).UTC()
}

// referenceZone picks the timezone in which calendar-resolution (Year
// through Day/Yday) decomposition happens for a single Distance call.
//
// If an origin is given and both the origin and x declare a zone, the
// origin's zone wins: x is reinterpreted in the origin's wall-clock frame
// before bucketing. If an origin is given and either side lacks a zone,
// UTC is used. If origin is absent, x's own zone is used when x declares
// one (bucket 0 then starts at wall-clock midnight 1970-01-01 in that
// zone, see originDayCount), and UTC otherwise. UTC is a no-op for Date
// vectors.
func referenceZone(x Vector, origin *Origin) *time.Location {
	if origin == nil {
		if x.Location != nil {
			return x.Location
		}
		return time.UTC
	}
	if origin.Location != nil && x.Location != nil {
		return origin.Location
	}
	return time.UTC
}

// dayCount returns the signed day-count-since-epoch of v, decomposed in
// loc when v is an Instant. Dates carry no zone and are returned as-is.
func dayCount(v Value, loc *time.Location) (days int, missing bool) {
	if v.IsMissing() {
		return 0, true
	}
	if v.Kind == KindDate {
		return v.Days, false
	}
	t := secondsToTime(v.Seconds).In(loc)
	y, m, d := t.Date()
	return calendar.DaysFromComponents(y-1970, int(m)-1, d), false
}

// originDayCount returns the origin's day count in loc, or 0 when origin
// is absent: the local date 1970-01-01, so the epoch is wall-clock
// midnight in loc ("epoch in x's timezone").
func originDayCount(origin *Origin, loc *time.Location) (days int, missing bool) {
	if origin == nil {
		return 0, false
	}
	return dayCount(origin.Value, loc)
}

// instantSeconds returns the absolute, zone-independent seconds-since-epoch
// of v. Used for the sub-day period families (Hour, Minute, Second,
// Millisecond), for which zone never matters: an instant is the same
// instant no matter which zone labels it.
func instantSeconds(v Value) (seconds float64, missing bool) {
	if v.IsMissing() {
		return 0, true
	}
	if v.Kind == KindDate {
		return float64(v.Days) * 86400, false
	}
	return v.Seconds, false
}

// originInstantSeconds returns the origin's absolute seconds since epoch,
// or 0 (the epoch itself) when origin is absent.
func originInstantSeconds(origin *Origin) (seconds float64, missing bool) {
	if origin == nil {
		return 0, false
	}
	return instantSeconds(origin.Value)
}
