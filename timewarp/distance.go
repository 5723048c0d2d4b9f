package timewarp

import (
	"context"
	"math"
	"time"

	"github.com/luthersystems/timewarp/bucketerr"
	"github.com/luthersystems/timewarp/calendar"
	"github.com/luthersystems/timewarp/oplog"
)

// MissingBucket is the sentinel bucket index Distance emits for an input
// element that was missing. It is the minimum value representable by a
// signed 64-bit integer, chosen so it can never collide with a real
// bucket index regardless of period width or origin.
const MissingBucket = int64(math.MinInt64)

// monthUnits returns the months-since-epoch (for Month/Quarter) or
// years-since-epoch (for Year) count implied by a calendar decomposition,
// the common unit both period kinds floor-divide by their width.
func monthUnits(kind PeriodKind, c calendar.Components) int {
	if kind == Year {
		return c.YearOffset
	}
	return c.YearOffset*12 + c.Month
}

// effectiveEvery expands a Period's Every into the unit width the
// underlying day/month arithmetic actually floor-divides by: Quarter
// reuses Month arithmetic at 3x width, and Week/Yweek reuse Day/Yday
// arithmetic at 7x width.
func effectiveEvery(p Period) int {
	switch p.Kind {
	case Quarter:
		return p.Every * 3
	case Week, Yweek:
		return p.Every * 7
	default:
		return p.Every
	}
}

// Distance computes, for each element of x, the index of the period
// bucket it falls into relative to origin (or the epoch, if origin is
// nil). A missing element yields MissingBucket.
func Distance(ctx context.Context, x Vector, period Period, origin *Origin) ([]int64, error) {
	oplog.AddFields(ctx, map[string]interface{}{
		"op": "distance", "period": period.Kind.String(), "every": period.Every, "n": x.Len(),
	})

	if err := period.validate(ctx); err != nil {
		return nil, err
	}
	if origin != nil && origin.Value.IsMissing() {
		return nil, bucketerr.InvalidArgument(ctx, "origin must not be missing")
	}

	out := make([]int64, x.Len())
	every := effectiveEvery(period)

	switch period.Kind {
	case Year, Quarter, Month:
		loc := referenceZone(x, origin)
		originDays, _ := originDayCount(origin, loc)
		originUnits := monthUnits(period.Kind, calendar.ConvertDaysToComponents(originDays))
		for i, v := range x.Values {
			d, missing := dayCount(v, loc)
			if missing {
				out[i] = MissingBucket
				continue
			}
			units := monthUnits(period.Kind, calendar.ConvertDaysToComponents(d))
			out[i] = int64(calendar.FloorDivInt(units-originUnits, every))
		}

	case Week, Day:
		loc := referenceZone(x, origin)
		originDays, _ := originDayCount(origin, loc)
		for i, v := range x.Values {
			d, missing := dayCount(v, loc)
			if missing {
				out[i] = MissingBucket
				continue
			}
			out[i] = int64(calendar.FloorDivInt(d-originDays, every))
		}

	case Yweek, Yday:
		loc := referenceZone(x, origin)
		originDays, _ := originDayCount(origin, loc)
		oc := calendar.ConvertDaysToComponents(originDays)
		ydayOrigin := calendar.YdayOrigin{
			YearOffset: oc.YearOffset,
			YDay:       oc.YDay,
			Leap:       calendar.IsLeapYear(oc.YearOffset + 1970),
		}
		for i, v := range x.Values {
			d, missing := dayCount(v, loc)
			if missing {
				out[i] = MissingBucket
				continue
			}
			c := calendar.ConvertDaysToComponents(d)
			out[i] = int64(calendar.YdayDistance(d, c.YearOffset, c.YDay, ydayOrigin, every))
		}

	case Hour, Minute, Second:
		width := int64(1)
		if period.Kind == Hour {
			width = 3600
		} else if period.Kind == Minute {
			width = 60
		}
		originSecs, _ := originInstantSeconds(origin)
		if origin == nil && x.Location != nil {
			originSecs = float64(time.Date(1970, 1, 1, 0, 0, 0, 0, x.Location).Unix())
		}
		originWhole := calendar.GuardedFloorSeconds(originSecs)
		for i, v := range x.Values {
			secs, missing := instantSeconds(v)
			if missing {
				out[i] = MissingBucket
				continue
			}
			whole := calendar.GuardedFloorSeconds(secs)
			out[i] = calendar.FloorDiv(whole-originWhole, width*int64(every))
		}

	case Millisecond:
		originSecs, _ := originInstantSeconds(origin)
		if origin == nil && x.Location != nil {
			originSecs = float64(time.Date(1970, 1, 1, 0, 0, 0, 0, x.Location).Unix())
		}
		originMillis := calendar.GuardedFloorMilliseconds(originSecs)
		for i, v := range x.Values {
			secs, missing := instantSeconds(v)
			if missing {
				out[i] = MissingBucket
				continue
			}
			millis := calendar.GuardedFloorMilliseconds(secs)
			out[i] = calendar.FloorDiv(millis-originMillis, int64(every))
		}

	default:
		// unreachable: period.validate already rejected any other kind.
		return nil, bucketerr.Unexpected(ctx, "unhandled period kind %d", period.Kind)
	}

	return out, nil
}
