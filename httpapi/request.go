package httpapi

import (
	"context"
	"fmt"
	"time"

	"github.com/luthersystems/timewarp/bucketerr"
	"github.com/luthersystems/timewarp/timewarp"
)

const dateLayout = "2006-01-02"

// valueJSON is the wire representation of a single timewarp.Value: either
// an ISO-8601 date string (kind "date"), a float seconds-since-epoch
// (kind "instant"), or an object with neither field for a missing slot. A
// JSON null in place of the object is rejected.
type valueJSON struct {
	Date    *string  `json:"date,omitempty"`
	Instant *float64 `json:"instant,omitempty"`
}

func (v *valueJSON) toValue(ctx context.Context) (timewarp.Value, error) {
	if v == nil {
		return timewarp.Value{}, bucketerr.InvalidArgument(ctx, "missing timestamp value")
	}
	switch {
	case v.Date != nil:
		t, err := time.Parse(dateLayout, *v.Date)
		if err != nil {
			return timewarp.Value{}, bucketerr.InvalidArgument(ctx, "invalid date %q: %v", *v.Date, err)
		}
		days := int(t.Unix() / 86400)
		return timewarp.NewDate(days), nil
	case v.Instant != nil:
		return timewarp.NewInstant(*v.Instant), nil
	default:
		return timewarp.MissingDate(), nil
	}
}

// vectorJSON is the wire representation of a timewarp.Vector.
type vectorJSON struct {
	Values []*valueJSON `json:"values"`
	Zone   string       `json:"zone,omitempty"`
}

func (vj *vectorJSON) toVector(ctx context.Context) (timewarp.Vector, error) {
	if vj == nil || len(vj.Values) == 0 {
		return timewarp.Vector{}, bucketerr.InvalidArgument(ctx, "values must be a non-empty array")
	}
	loc, err := parseZone(ctx, vj.Zone)
	if err != nil {
		return timewarp.Vector{}, err
	}
	values := make([]timewarp.Value, len(vj.Values))
	for i, vv := range vj.Values {
		val, err := vv.toValue(ctx)
		if err != nil {
			return timewarp.Vector{}, fmt.Errorf("values[%d]: %w", i, err)
		}
		values[i] = val
	}
	return timewarp.Vector{Values: values, Location: loc}, nil
}

// originJSON is the wire representation of a timewarp.Origin.
type originJSON struct {
	Value *valueJSON `json:"value"`
	Zone  string      `json:"zone,omitempty"`
}

func (oj *originJSON) toOrigin(ctx context.Context) (*timewarp.Origin, error) {
	if oj == nil {
		return nil, nil
	}
	val, err := oj.Value.toValue(ctx)
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	loc, err := parseZone(ctx, oj.Zone)
	if err != nil {
		return nil, err
	}
	return &timewarp.Origin{Value: val, Location: loc}, nil
}

// periodJSON is the wire representation of a timewarp.Period.
type periodJSON struct {
	Kind  string `json:"kind"`
	Every int    `json:"every"`
}

var periodKinds = map[string]timewarp.PeriodKind{
	"year":        timewarp.Year,
	"quarter":     timewarp.Quarter,
	"month":       timewarp.Month,
	"week":        timewarp.Week,
	"yweek":       timewarp.Yweek,
	"day":         timewarp.Day,
	"yday":        timewarp.Yday,
	"hour":        timewarp.Hour,
	"minute":      timewarp.Minute,
	"second":      timewarp.Second,
	"millisecond": timewarp.Millisecond,
}

func (pj *periodJSON) toPeriod(ctx context.Context) (timewarp.Period, error) {
	if pj == nil {
		return timewarp.Period{}, bucketerr.InvalidArgument(ctx, "missing period")
	}
	kind, ok := periodKinds[pj.Kind]
	if !ok {
		return timewarp.Period{}, bucketerr.InvalidArgument(ctx, "unrecognized period kind %q", pj.Kind)
	}
	return timewarp.Period{Kind: kind, Every: pj.Every}, nil
}

func parseZone(ctx context.Context, zone string) (*time.Location, error) {
	if zone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, bucketerr.InvalidArgument(ctx, "unrecognized zone %q: %v", zone, err)
	}
	return loc, nil
}

// bucketRequest is the common request body shape shared by Distance,
// Changes, Boundary, Ranges, and IsSorted.
type bucketRequest struct {
	Values *vectorJSON `json:"values"`
	Period *periodJSON `json:"period"`
	Origin *originJSON `json:"origin,omitempty"`
	// Archive, when true, persists the response body to the configured
	// resultstore.ResultStore under the request id.
	Archive bool `json:"archive,omitempty"`
	// NotifyEmail, when non-empty, sends a completion email on success.
	NotifyEmail string `json:"notify_email,omitempty"`
}

func (br *bucketRequest) decode(ctx context.Context) (timewarp.Vector, timewarp.Period, *timewarp.Origin, error) {
	x, err := br.Values.toVector(ctx)
	if err != nil {
		return timewarp.Vector{}, timewarp.Period{}, nil, err
	}
	period, err := br.Period.toPeriod(ctx)
	if err != nil {
		return timewarp.Vector{}, timewarp.Period{}, nil, err
	}
	origin, err := br.Origin.toOrigin(ctx)
	if err != nil {
		return timewarp.Vector{}, timewarp.Period{}, nil, err
	}
	return x, period, origin, nil
}
