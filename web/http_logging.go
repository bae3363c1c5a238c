// ABOUTME: HTTP logging middleware that stamps each request with a ULID and logs its outcome.
// ABOUTME: The ULID encodes the arrival time and is echoed to clients as X-Request-Id.
package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
)

type requestKey struct{}

// requestInfo is the per-request record: who asked for what, and when it arrived.
type requestInfo struct {
	ID      ulid.ULID
	Method  string
	Path    string
	Arrived time.Time
}

// RequestID returns the ID assigned by the logging middleware, or "-" outside a request.
func RequestID(ctx context.Context) string {
	if info, ok := ctx.Value(requestKey{}).(requestInfo); ok {
		return info.ID.String()
	}
	return "-"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func newRequestInfo(r *http.Request) requestInfo {
	now := time.Now()
	return requestInfo{
		ID:      ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()),
		Method:  r.Method,
		Path:    r.URL.Path,
		Arrived: now,
	}
}

func webRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := newRequestInfo(r)
		w.Header().Set("X-Request-Id", info.ID.String())

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestKey{}, info)))

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		log.Printf("web request id=%s method=%s path=%q status=%d bytes=%d arrived=%s duration=%s remote=%s",
			info.ID,
			info.Method,
			info.Path,
			status,
			rec.bytes,
			info.Arrived.UTC().Format(time.RFC3339Nano),
			time.Since(info.Arrived).Round(time.Microsecond),
			r.RemoteAddr,
		)
	})
}
