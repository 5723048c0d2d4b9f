// Package httpapi exposes the timewarp bucketing engine (Distance,
// Changes, Boundary, Ranges, IsSorted, CalendarDiff) as JSON endpoints
// over net/http, wired through request-id/archival middleware, structured
// logging, tracing, and optional result persistence and completion
// notification.
package httpapi

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/luthersystems/timewarp/midware"
	"github.com/luthersystems/timewarp/notify"
	"github.com/luthersystems/timewarp/optrace"
	"github.com/luthersystems/timewarp/resultstore"
	"github.com/luthersystems/timewarp/static"
)

// Server holds the dependencies the JSON handlers are wired against. All
// fields are optional except LogBase; a Server with a nil Tracer, Results,
// or Mailer still serves every bucketing endpoint, only skipping the
// optional tracing/archival/notification side effects.
type Server struct {
	LogBase *logrus.Entry
	Tracer  *optrace.Tracer
	Results resultstore.ResultStore
	Mailer  *notify.SES
}

// Option configures a Server.
type Option func(*Server)

// WithTracer attaches a Tracer used to create a span around every
// bucketing operation.
func WithTracer(tr *optrace.Tracer) Option {
	return func(s *Server) { s.Tracer = tr }
}

// WithResultStore attaches a ResultStore used to persist responses when a
// request sets "archive": true.
func WithResultStore(rs resultstore.ResultStore) Option {
	return func(s *Server) { s.Results = rs }
}

// WithMailer attaches a notifier used to send completion emails when a
// request sets a non-empty "notify_email".
func WithMailer(m *notify.SES) Option {
	return func(s *Server) { s.Mailer = m }
}

// NewServer constructs a Server. logBase is the base logrus.Entry every
// request's accumulated log fields are merged onto.
func NewServer(logBase *logrus.Entry, opts ...Option) *Server {
	s := &Server{LogBase: logBase}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the full bucketing API mux, with request-id assignment
// applied to every route.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/distance", s.handleDistance)
	mux.HandleFunc("/v1/changes", s.handleChanges)
	mux.HandleFunc("/v1/boundary", s.handleBoundary)
	mux.HandleFunc("/v1/ranges", s.handleRanges)
	mux.HandleFunc("/v1/is-sorted", s.handleIsSorted)
	mux.HandleFunc("/v1/calendar-diff", s.handleCalendarDiff)
	mux.Handle("/metrics", metricsHandler())
	mux.Handle(static.OpenAPIPath, static.SwaggerHandlerOrPanic("openapi.json", static.OpenAPIFS))

	publicHandler, err := static.PublicHandler(static.PublicFS)
	if err != nil {
		panic(fmt.Errorf("static: %w", err))
	}
	mux.Handle(static.PublicPathPrefix, publicHandler)

	chain := midware.Chain{
		midware.TraceHeaders("", true),
	}
	return chain.Wrap(mux)
}
