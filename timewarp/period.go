package timewarp

import (
	"context"

	"github.com/luthersystems/timewarp/bucketerr"
)

// PeriodKind names the unit a Period buckets by.
type PeriodKind int

const (
	Year PeriodKind = iota
	Quarter
	Month
	Week
	Yweek
	Day
	Yday
	Hour
	Minute
	Second
	Millisecond
)

func (k PeriodKind) String() string {
	switch k {
	case Year:
		return "year"
	case Quarter:
		return "quarter"
	case Month:
		return "month"
	case Week:
		return "week"
	case Yweek:
		return "yweek"
	case Day:
		return "day"
	case Yday:
		return "yday"
	case Hour:
		return "hour"
	case Minute:
		return "minute"
	case Second:
		return "second"
	case Millisecond:
		return "millisecond"
	default:
		return "unrecognized"
	}
}

// calendarResolution reports whether k requires calendar (zone-aware)
// decomposition, as opposed to being a pure function of absolute seconds
// since epoch.
func (k PeriodKind) calendarResolution() bool {
	switch k {
	case Year, Quarter, Month, Week, Yweek, Day, Yday:
		return true
	default:
		return false
	}
}

// Period names a bucket width: every k-units, starting from some origin.
type Period struct {
	Kind  PeriodKind
	Every int
}

// validate checks p's invariants, returning a bucketerr.InvalidArgument
// error describing the first violation found, or nil.
func (p Period) validate(ctx context.Context) error {
	if p.Kind < Year || p.Kind > Millisecond {
		return bucketerr.InvalidArgument(ctx, "unrecognized period kind: %d", p.Kind)
	}
	if p.Every < 1 {
		return bucketerr.InvalidArgument(ctx, "period every must be >= 1, got %d", p.Every)
	}
	return nil
}
