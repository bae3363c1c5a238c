// ABOUTME: Fail-fast middleware: a panic in request handling is logged and stops the whole server.
// ABOUTME: The client gets a generic 500 and Serve returns an error wrapping ErrFatal.
package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
)

// ErrFatal marks faults the process is not expected to survive. Callers should
// exit non-zero so a supervisor can restart them.
var ErrFatal = errors.New("fatal server fault")

func (s *Server) failFast(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.Printf("component=web action=panic id=%s err=%v\n%s", RequestID(r.Context()), rec, debug.Stack())
			writePlain(w, http.StatusInternalServerError, msgInternalError)
			s.trip(fmt.Errorf("%w: panic: %v", ErrFatal, rec))
		}()
		next.ServeHTTP(w, r)
	})
}

// trip records the first fatal fault; later ones are dropped since the
// server is already draining.
func (s *Server) trip(err error) {
	select {
	case s.fatal <- err:
	default:
	}
}
