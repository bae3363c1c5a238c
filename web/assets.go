// ABOUTME: Request path for static assets: resolve, pick the target or the fallback, then write it out.
// ABOUTME: Produces 200 with the file bytes, 403 on traversal, 404 without a fallback, 500 on read failure.
package web

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
)

// ErrNotFound reports that neither the requested file nor the fallback exists.
var ErrNotFound = errors.New("no file or fallback to serve")

const (
	msgForbidden     = "Forbidden"
	msgNotFound      = "File not found"
	msgInternalError = "Internal Server Error"
)

func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	resolved, err := ResolvePath(s.root, r.URL.Path, s.fallback)
	if err != nil {
		log.Printf("component=web action=forbidden id=%s path=%q", RequestID(r.Context()), r.URL.Path)
		writePlain(w, http.StatusForbidden, msgForbidden)
		return
	}

	target, err := s.selectTarget(resolved)
	if err != nil {
		writePlain(w, http.StatusNotFound, msgNotFound)
		return
	}

	s.serveFile(w, r, target)
}

// selectTarget returns resolved when it is a regular file, otherwise the
// fallback file when that exists. Directories count as missing.
func (s *Server) selectTarget(resolved string) (string, error) {
	if isRegularFile(resolved) {
		return resolved, nil
	}
	if isRegularFile(s.fallbackPath) {
		return s.fallbackPath, nil
	}
	return "", ErrNotFound
}

// serveFile reads the whole file before writing headers so a read failure can
// still turn into a clean 500.
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("component=web action=read_failed id=%s file=%s err=%v", RequestID(r.Context()), path, err)
		writePlain(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", s.contentTypes.Lookup(path))
	h.Set("Content-Length", strconv.Itoa(len(content)))
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(msg))
}
