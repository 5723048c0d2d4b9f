package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/luthersystems/timewarp/bucketerr"
	"github.com/luthersystems/timewarp/midware"
	"github.com/luthersystems/timewarp/oplog"
	"github.com/luthersystems/timewarp/opctx"
	"github.com/luthersystems/timewarp/report"
	"github.com/luthersystems/timewarp/timewarp"
)

// requestContext initializes per-request logging metadata and records the
// request id from the trace header midware.TraceHeaders assigns.
func requestContext(r *http.Request) context.Context {
	ctx := oplog.NewContext(r.Context())
	ctx = opctx.Context(ctx)
	reqID := r.Header.Get(midware.DefaultTraceHeader)
	oplog.AddField(ctx, "req_id", reqID)
	return ctx
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		oplog.StandardEntry(ctx).WithError(err).Error("encode response")
	}
}

// decodeBody reads and JSON-decodes an http request body into a
// bucketRequest, classifying a malformed body as a bucketerr.InvalidArgument.
func decodeBody(ctx context.Context, r *http.Request) (*bucketRequest, error) {
	var br bucketRequest
	if err := json.NewDecoder(r.Body).Decode(&br); err != nil {
		return nil, bucketerr.InvalidArgument(ctx, "malformed request body: %v", err)
	}
	return &br, nil
}

// span starts a tracer span, if the Server has one configured, and
// records operation details on ctx for logging.
func (s *Server) span(ctx context.Context, op string, x timewarp.Vector, period timewarp.Period, origin *timewarp.Origin) (context.Context, func()) {
	opctx.SetOperationDetails(ctx, opctx.OperationDetails{
		Period:       period.Kind.String(),
		Every:        period.Every,
		OriginSet:    origin != nil,
		ElementCount: x.Len(),
	})
	if s.Tracer == nil {
		return ctx, func() {}
	}
	spanCtx, span := s.Tracer.Span(ctx, op)
	return spanCtx, func() { span.End() }
}

// archiveResult persists body under reqID if the Server has a ResultStore
// and the request asked for archival; failures are logged but never fail
// the response, since archival is best-effort.
func (s *Server) archiveResult(ctx context.Context, archive bool, reqID string, body []byte) {
	if !archive || s.Results == nil || reqID == "" {
		return
	}
	if err := s.Results.Put(ctx, reqID, body); err != nil {
		oplog.StandardEntry(ctx).WithError(err).Error("archive result")
	}
}

// notifyCompletion sends a best-effort completion email if the Server has
// a Mailer configured and the caller supplied an address.
func (s *Server) notifyCompletion(ctx context.Context, email, op string) {
	if email == "" || s.Mailer == nil {
		return
	}
	body := "Your " + op + " request has completed."
	if err := s.Mailer.Send(ctx, body, email, "timewarp: "+op+" complete"); err != nil {
		oplog.StandardEntry(ctx).WithError(err).Error("send completion notification")
	}
}

func (s *Server) handleDistance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := requestContext(r)
	defer observeDuration("distance", start)

	br, err := decodeBody(ctx, r)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	x, period, origin, err := br.decode(ctx)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	ctx, end := s.span(ctx, "distance", x, period, origin)
	defer end()

	d, err := timewarp.Distance(ctx, x, period, origin)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}

	resp := struct {
		Distance []int64 `json:"distance"`
	}{Distance: d}
	body, _ := json.Marshal(resp)
	s.archiveResult(ctx, br.Archive, oplog.ReqID(ctx), body)
	s.notifyCompletion(ctx, br.NotifyEmail, "distance")
	writeJSON(ctx, w, resp)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := requestContext(r)
	defer observeDuration("changes", start)

	br, err := decodeBody(ctx, r)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	x, period, origin, err := br.decode(ctx)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	ctx, end := s.span(ctx, "changes", x, period, origin)
	defer end()

	c, err := timewarp.ChangesOf(ctx, x, period, origin)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}

	resp := struct {
		Changes []int64 `json:"changes"`
	}{Changes: c}
	body, _ := json.Marshal(resp)
	s.archiveResult(ctx, br.Archive, oplog.ReqID(ctx), body)
	s.notifyCompletion(ctx, br.NotifyEmail, "changes")
	writeJSON(ctx, w, resp)
}

func (s *Server) handleBoundary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := requestContext(r)
	defer observeDuration("boundary", start)

	br, err := decodeBody(ctx, r)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	x, period, origin, err := br.decode(ctx)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	ctx, end := s.span(ctx, "boundary", x, period, origin)
	defer end()

	b, err := timewarp.BoundaryOf(ctx, x, period, origin)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}

	resp := struct {
		Boundary []int64 `json:"boundary"`
	}{Boundary: b}
	body, _ := json.Marshal(resp)
	s.archiveResult(ctx, br.Archive, oplog.ReqID(ctx), body)
	s.notifyCompletion(ctx, br.NotifyEmail, "boundary")
	writeJSON(ctx, w, resp)
}

func (s *Server) handleRanges(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := requestContext(r)
	defer observeDuration("ranges", start)

	br, err := decodeBody(ctx, r)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	x, period, origin, err := br.decode(ctx)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	ctx, end := s.span(ctx, "ranges", x, period, origin)
	defer end()

	ranges, err := timewarp.RangesOf(ctx, x, period, origin)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}

	type rangeJSON struct {
		Start int64 `json:"start"`
		Stop  int64 `json:"stop"`
	}
	out := make([]rangeJSON, len(ranges))
	reportRanges := make([]report.BucketRange, len(ranges))
	for i, rg := range ranges {
		out[i] = rangeJSON{Start: rg.Start, Stop: rg.Stop}
		reportRanges[i] = report.BucketRange{Start: rg.Start, Stop: rg.Stop}
	}

	resp := struct {
		Ranges  []rangeJSON `json:"ranges"`
		Summary string      `json:"summary,omitempty"`
	}{Ranges: out}

	if r.URL.Query().Get("summary") == "true" {
		sorted, _ := timewarp.IsSortedOf(ctx, x, period, origin)
		summary := report.NewSummary(period.Kind.String(), period.Every, x.Len(), reportRanges, sorted)
		if text, err := report.RenderSummary("", summary); err == nil {
			resp.Summary = text
		} else {
			oplog.StandardEntry(ctx).WithError(err).Error("render ranges summary")
		}
	}

	body, _ := json.Marshal(resp)
	s.archiveResult(ctx, br.Archive, oplog.ReqID(ctx), body)
	s.notifyCompletion(ctx, br.NotifyEmail, "ranges")
	writeJSON(ctx, w, resp)
}

func (s *Server) handleIsSorted(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := requestContext(r)
	defer observeDuration("is-sorted", start)

	br, err := decodeBody(ctx, r)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	x, period, origin, err := br.decode(ctx)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	ctx, end := s.span(ctx, "is-sorted", x, period, origin)
	defer end()

	sorted, err := timewarp.IsSortedOf(ctx, x, period, origin)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}

	resp := struct {
		Sorted bool `json:"sorted"`
	}{Sorted: sorted}
	writeJSON(ctx, w, resp)
}

func (s *Server) handleCalendarDiff(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := requestContext(r)
	defer observeDuration("calendar-diff", start)

	var req struct {
		Start *valueJSON `json:"start"`
		End   *valueJSON `json:"end"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		bucketerr.WriteHTTPError(ctx, w, bucketerr.InvalidArgument(ctx, "malformed request body: %v", err))
		return
	}
	start1, err := req.Start.toValue(ctx)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}
	end, err := req.End.toValue(ctx)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}

	if s.Tracer != nil {
		var end2 func()
		ctx, end2 = s.span(ctx, "calendar-diff", timewarp.Vector{}, timewarp.Period{}, nil)
		defer end2()
	}

	diff, err := timewarp.CalendarDiff(ctx, start1, end)
	if err != nil {
		bucketerr.WriteHTTPError(ctx, w, err)
		return
	}

	resp := struct {
		Years  int `json:"years"`
		Months int `json:"months"`
		Days   int `json:"days"`
	}{Years: diff.Years, Months: diff.Months, Days: diff.Days}
	writeJSON(ctx, w, resp)
}
