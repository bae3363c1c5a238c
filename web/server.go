// ABOUTME: Static file server behind a chi router with request logging and fail-fast panic handling.
// ABOUTME: Run owns the lifecycle: listen, serve until cancelled or a fatal fault, then drain in-flight requests.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
)

// Server serves files from a single root directory. Everything on it is fixed
// at construction; request handling only reads.
type Server struct {
	router       chi.Router
	addr         string
	root         string
	fallback     string
	fallbackPath string
	contentTypes ContentTypes

	// fatal carries the first unrecoverable fault out of a handler goroutine.
	fatal chan error
}

// NewServer validates cfg and returns a ready-to-run Server. The root must be
// an existing directory and the fallback file name must resolve inside it.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = fmt.Sprintf(":%d", DefaultPort)
	}
	if cfg.FallbackFile == "" {
		cfg.FallbackFile = DefaultFallbackFile
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("Root must not be empty")
	}

	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving root directory: %w", err)
	}
	if !dirExists(root) {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	fallbackPath, err := ResolvePath(root, "/", cfg.FallbackFile)
	if err != nil {
		return nil, fmt.Errorf("fallback file %q: %w", cfg.FallbackFile, err)
	}

	s := &Server{
		addr:         cfg.Addr,
		root:         root,
		fallback:     cfg.FallbackFile,
		fallbackPath: fallbackPath,
		contentTypes: DefaultContentTypes(),
		fatal:        make(chan error, 1),
	}
	s.router = s.buildRouter()
	return s, nil
}

// Root returns the absolute root directory.
func (s *Server) Root() string {
	return s.root
}

// FallbackFile returns the root-relative fallback file name.
func (s *Server) FallbackFile() string {
	return s.fallback
}

// ServeHTTP delegates to the chi router, satisfying http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run listens on the configured address and serves until ctx is cancelled or
// a fatal fault occurs. See Serve.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, a handler trips the
// fail-fast middleware, or the listener fails. In every case it stops
// accepting, waits for in-flight responses to finish, and returns. A nil
// return means a graceful stop; otherwise the error wraps ErrFatal.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := s.httpServer()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()
	log.Printf("component=web action=listening addr=%s root=%s fallback=%s", ln.Addr(), s.root, s.fallback)

	var cause error
	select {
	case <-ctx.Done():
		log.Printf("component=web action=draining reason=shutdown")
	case cause = <-s.fatal:
		log.Printf("component=web action=draining reason=fatal err=%v", cause)
	case err := <-serveErr:
		// Serve only returns ErrServerClosed after Shutdown, so anything here is a listener failure.
		return fmt.Errorf("%w: serve: %w", ErrFatal, err)
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%w: serve: %w", ErrFatal, err)
	}
	log.Printf("component=web action=stopped")
	return cause
}

// httpServer builds the underlying http.Server with timeouts that keep slow
// clients from holding connections open indefinitely.
func (s *Server) httpServer() *http.Server {
	return &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
}

// buildRouter wires the middleware chain in front of the asset handler. Every
// method and path lands on handleAsset; the URL path alone decides what is served.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(webRequestLogger)
	r.Use(s.failFast)

	r.Handle("/*", http.HandlerFunc(s.handleAsset))
	r.NotFound(s.handleAsset)
	r.MethodNotAllowed(s.handleAsset)

	return r
}
