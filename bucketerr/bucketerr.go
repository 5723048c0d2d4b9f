// Package bucketerr classifies errors raised by the bucketing engine and
// its HTTP surface into a small taxonomy, and converts that taxonomy to
// HTTP status codes and gRPC-style codes.Code values for logging and
// metrics purposes.
package bucketerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/luthersystems/timewarp/oplog"
)

// TimestampFormat uses RFC3339 for all error timestamps.
const TimestampFormat = time.RFC3339

// Kind classifies an Error into one of a small number of buckets, each
// mapped to a gRPC code and an HTTP status.
type Kind int

const (
	// KindUnexpected is a bug or unhandled condition; callers cannot act on
	// it beyond retrying.
	KindUnexpected Kind = iota
	// KindInvalidArgument is a caller-supplied period, origin, or value that
	// fails validation (e.g. every <= 0, a missing origin, a malformed
	// timestamp vector).
	KindInvalidArgument
	// KindUnsorted classifies a distance sequence that is not
	// non-decreasing. Changes, Boundary and Ranges do not check sortedness
	// and never raise it.
	KindUnsorted
	// KindInfrastructure is a failure in a supporting system: object
	// storage, archival, notification delivery.
	KindInfrastructure
	// KindUnavailable means the service cannot currently serve the request
	// (e.g. a dependency is down), but the request itself was well formed.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindUnsorted:
		return "UNSORTED"
	case KindInfrastructure:
		return "INFRASTRUCTURE"
	case KindUnavailable:
		return "UNAVAILABLE"
	default:
		return "UNEXPECTED"
	}
}

// Code returns the gRPC status code this Kind is classified as. The
// engine itself never speaks gRPC; this is used purely to give the
// taxonomy a well-known, ecosystem-standard code space for logging and
// metrics labels. The HTTP status WriteHTTPError writes comes from
// httpStatus, not from this code.
func (k Kind) Code() codes.Code {
	switch k {
	case KindInvalidArgument, KindUnsorted:
		return codes.InvalidArgument
	case KindInfrastructure:
		return codes.DataLoss
	case KindUnavailable:
		return codes.Unavailable
	default:
		return codes.Unknown
	}
}

// httpStatus maps a Kind to the HTTP status written by WriteHTTPError.
func (k Kind) httpStatus() int {
	switch k {
	case KindInvalidArgument, KindUnsorted:
		return http.StatusBadRequest
	case KindInfrastructure:
		return http.StatusInternalServerError
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified error raised anywhere in the bucketing engine or
// its HTTP surface.
type Error struct {
	ID        string
	Kind      Kind
	Timestamp time.Time
	Message   string
}

// Error implements error.
func (e *Error) Error() string {
	return e.Message
}

// GRPCStatus lets errors.As-compatible callers recover a *status.Status
// via google.golang.org/grpc/status.FromError, without this package
// depending on a running gRPC server.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Kind.Code(), e.Message)
}

func newError(ctx context.Context, kind Kind, format string, args ...interface{}) *Error {
	return &Error{
		ID:        oplog.ReqID(ctx),
		Kind:      kind,
		Timestamp: time.Now(),
		Message:   fmt.Sprintf(format, args...),
	}
}

// Unexpected constructs a KindUnexpected error: a bug or unhandled
// condition.
func Unexpected(ctx context.Context, format string, args ...interface{}) *Error {
	return newError(ctx, KindUnexpected, format, args...)
}

// InvalidArgument constructs a KindInvalidArgument error: bad caller
// input (period, origin, or timestamp values).
func InvalidArgument(ctx context.Context, format string, args ...interface{}) *Error {
	return newError(ctx, KindInvalidArgument, format, args...)
}

// Unsorted constructs a KindUnsorted error for a caller whose distance
// sequence is not non-decreasing.
func Unsorted(ctx context.Context, format string, args ...interface{}) *Error {
	return newError(ctx, KindUnsorted, format, args...)
}

// Infrastructure constructs a KindInfrastructure error: a supporting
// system (storage, archival, notification) failed.
func Infrastructure(ctx context.Context, format string, args ...interface{}) *Error {
	return newError(ctx, KindInfrastructure, format, args...)
}

// Unavailable constructs a KindUnavailable error.
func Unavailable(ctx context.Context, format string, args ...interface{}) *Error {
	return newError(ctx, KindUnavailable, format, args...)
}

func init() {
	errorTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timewarp_error_total",
			Help: "How many classified errors were raised, partitioned by kind.",
		},
		[]string{"kind"},
	)
	prometheus.MustRegister(errorTotal)
	incErrorMetric = func(k Kind) {
		errorTotal.WithLabelValues(k.String()).Inc()
	}
}

var incErrorMetric func(Kind)

// errorResponse is the JSON body WriteHTTPError writes.
type errorResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
}

// WriteHTTPError is the last chance to turn an error into a response
// before it reaches the caller. It classifies err (recovering an *Error
// via errors.As, and falling back to KindUnexpected for anything else),
// logs unexpected errors, increments the per-kind error counter, and
// writes a JSON error body with the matching HTTP status.
func WriteHTTPError(ctx context.Context, w http.ResponseWriter, err error) {
	var be *Error
	if !errors.As(err, &be) {
		if !errors.Is(err, context.Canceled) {
			oplog.StandardEntry(ctx).WithError(err).Error("unhandled error")
		}
		be = Unexpected(ctx, "internal server error")
	}

	incErrorMetric(be.Kind)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(be.Kind.httpStatus())
	resp := errorResponse{
		ID:        be.ID,
		Kind:      be.Kind.String(),
		Timestamp: be.Timestamp.Format(TimestampFormat),
		Message:   be.Message,
	}
	b, merr := json.Marshal(resp)
	if merr != nil {
		oplog.StandardEntry(ctx).WithError(merr).Error("marshal error response")
		b = []byte(`{"kind":"UNEXPECTED","message":"internal server error"}`)
	}
	_, werr := w.Write(b)
	if werr != nil {
		oplog.StandardEntry(ctx).WithError(werr).Error("write error response")
	}
}
