package oplog

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func isHealthCheck(path string) bool {
	return strings.Contains(strings.ToLower(path), "healthz")
}

// HTTPRequestLogInterceptor returns http middleware that logs every request
// handled by the bucketing HTTP API and its duration. A debug message is
// printed at the beginning of a handler's execution and its duration is
// logged at the end. Adapted from the teacher's grpc method log
// interceptor to work over plain net/http instead of grpc.UnaryHandler.
func HTTPRequestLogInterceptor(base *logrus.Entry, t Timer, now Time) func(http.Handler) http.Handler {
	var nowFn func() time.Time
	if now != nil {
		nowFn = now.Now
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			stopTimer := t.StartTimer(nowFn)

			reqID := r.Header.Get("X-Request-Id")
			if reqID == "" {
				reqID = uuid.New().String()
			}

			ctx := newContextWithFields(r.Context(), logrus.Fields{
				"path":   r.URL.Path,
				"method": r.Method,
				"req_id": reqID,
			})
			r = r.WithContext(ctx)

			Entry(ctx, base).Debug("request begin")

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			mLog := Entry(ctx, base).WithField("status", rec.status)
			dur := stopTimer()
			mLog = mLog.WithField("req_dur", dur)

			if isHealthCheck(r.URL.Path) {
				mLog.Debug("request handled")
			} else {
				mLog.Info("request handled")
			}
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
