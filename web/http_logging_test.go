// ABOUTME: Tests for the request logging middleware and request ID propagation.
package web

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
)

func TestWebRequestLoggerAssignsRequestID(t *testing.T) {
	var seen string
	h := webRequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := doRequest(h, http.MethodGet, "/x")

	header := rec.Header().Get("X-Request-Id")
	if header == "" {
		t.Fatal("expected X-Request-Id header")
	}
	if header != seen {
		t.Errorf("handler saw id %q, header has %q", seen, header)
	}
	if _, err := ulid.Parse(header); err != nil {
		t.Errorf("expected a ULID, got %q: %v", header, err)
	}
}

func TestWebRequestLoggerLogsOutcome(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	srv := newTestServer(t, map[string]string{"fallback.html": "home"})
	doRequest(srv, http.MethodGet, "/../etc/passwd")

	out := buf.String()
	for _, want := range []string{"action=forbidden", "web request", "status=403", `path="/../etc/passwd"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRequestIDOutsideRequest(t *testing.T) {
	if got := RequestID(context.Background()); got != "-" {
		t.Errorf("expected -, got %q", got)
	}
}

func TestStatusRecorderDefaultsToOK(t *testing.T) {
	h := webRequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hi"))
	}))
	rec := doRequest(h, http.MethodGet, "/")
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
