// ABOUTME: Tests for the static file server request path and its chi router wiring.
// ABOUTME: Covers fallback routing, content types, traversal rejection, read failures, and idempotence.
package web

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func TestServerScenario(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"fallback.html": "<h1>Home</h1>",
		"style.css":     "body { color: red; }",
	})

	rec := doRequest(srv, http.MethodGet, "/")
	assertStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "<h1>Home</h1>" {
		t.Errorf("expected fallback body, got %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html" {
		t.Errorf("expected Content-Type text/html, got %q", got)
	}

	rec = doRequest(srv, http.MethodGet, "/style.css")
	assertStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Content-Type"); got != "text/css" {
		t.Errorf("expected Content-Type text/css, got %q", got)
	}
	if got := rec.Body.String(); got != "body { color: red; }" {
		t.Errorf("unexpected body %q", got)
	}

	rec = doRequest(srv, http.MethodGet, "/../../etc/passwd")
	assertStatus(t, rec, http.StatusForbidden)

	rec = doRequest(srv, http.MethodGet, "/missing.js")
	assertStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "<h1>Home</h1>" {
		t.Errorf("expected fallback body for missing file, got %q", got)
	}

	if err := os.Remove(filepath.Join(srv.Root(), "fallback.html")); err != nil {
		t.Fatal(err)
	}
	rec = doRequest(srv, http.MethodGet, "/missing.js")
	assertStatus(t, rec, http.StatusNotFound)
	if got := rec.Body.String(); got != "File not found" {
		t.Errorf("expected not-found body, got %q", got)
	}
}

func TestServerRootWithoutFallbackIsNotFound(t *testing.T) {
	srv := newTestServer(t, map[string]string{"app.js": "console.log(1)"})

	rec := doRequest(srv, http.MethodGet, "/")
	assertStatus(t, rec, http.StatusNotFound)
}

func TestServerUnknownExtensionIsOctetStream(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"fallback.html": "home",
		"data.xyz":      "raw",
		"LICENSE":       "mit",
	})

	for _, p := range []string{"/data.xyz", "/LICENSE"} {
		rec := doRequest(srv, http.MethodGet, p)
		assertStatus(t, rec, http.StatusOK)
		if got := rec.Header().Get("Content-Type"); got != "application/octet-stream" {
			t.Errorf("%s: expected application/octet-stream, got %q", p, got)
		}
	}
}

func TestServerUppercaseExtension(t *testing.T) {
	srv := newTestServer(t, map[string]string{"LOGO.PNG": "png"})

	rec := doRequest(srv, http.MethodGet, "/LOGO.PNG")
	assertStatus(t, rec, http.StatusOK)
	if got := rec.Header().Get("Content-Type"); got != "image/png" {
		t.Errorf("expected image/png, got %q", got)
	}
}

func TestServerSuccessHeaders(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"fallback.html":   "home",
		"js/app.js":       "let a = 1;",
		"images/logo.svg": "<svg/>",
	})

	for _, p := range []string{"/", "/js/app.js", "/images/logo.svg", "/nope"} {
		rec := doRequest(srv, http.MethodGet, p)
		assertStatus(t, rec, http.StatusOK)
		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("%s: expected Access-Control-Allow-Origin *, got %q", p, got)
		}
		if got := rec.Header().Get("Content-Length"); got != strconv.Itoa(rec.Body.Len()) {
			t.Errorf("%s: expected Content-Length %d, got %q", p, rec.Body.Len(), got)
		}
	}
}

func TestServerErrorResponsesOmitCORS(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := doRequest(srv, http.MethodGet, "/../secret")
	assertStatus(t, rec, http.StatusForbidden)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no CORS header on 403, got %q", got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/plain" {
		t.Errorf("expected text/plain, got %q", got)
	}
	if got := rec.Body.String(); got != "Forbidden" {
		t.Errorf("expected Forbidden body, got %q", got)
	}
}

func TestServerTraversalNeverReadsOutsideRoot(t *testing.T) {
	parent := t.TempDir()
	if err := os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("top secret"), 0o644); err != nil {
		t.Fatal(err)
	}
	root := filepath.Join(parent, "www")
	writeFiles(t, root, map[string]string{"fallback.html": "home"})
	writeFiles(t, parent, map[string]string{"www-old/secret.txt": "old secret"})

	srv, err := NewServer(ServerConfig{Root: root})
	if err != nil {
		t.Fatalf("unexpected error creating server: %v", err)
	}

	paths := []string{
		"/../secret.txt",
		"/a/b/../../../secret.txt",
		"/..%2fsecret.txt",
		"/%2e%2e/secret.txt",
		"/../www-old/secret.txt",
		"/secret%00.txt",
	}
	for _, p := range paths {
		rec := doRequest(srv, http.MethodGet, p)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: expected 403, got %d (body %q)", p, rec.Code, rec.Body.String())
		}
	}
}

func TestServerDoubleSlashStaysInsideRoot(t *testing.T) {
	srv := newTestServer(t, map[string]string{"fallback.html": "home"})

	rec := doRequest(srv, http.MethodGet, "//etc/passwd")
	assertStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "home" {
		t.Errorf("expected fallback body, got %q", got)
	}
}

func TestServerDirectoryServesFallback(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"fallback.html":   "home",
		"docs/index.html": "docs",
	})

	for _, p := range []string{"/docs", "/docs/"} {
		rec := doRequest(srv, http.MethodGet, p)
		assertStatus(t, rec, http.StatusOK)
		if got := rec.Body.String(); got != "home" {
			t.Errorf("%s: expected fallback body for directory, got %q", p, got)
		}
	}
}

func TestServerReadFailureIsInternalError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}
	srv := newTestServer(t, map[string]string{
		"fallback.html": "home",
		"locked.js":     "secret",
	})
	if err := os.Chmod(filepath.Join(srv.Root(), "locked.js"), 0o000); err != nil {
		t.Fatal(err)
	}

	rec := doRequest(srv, http.MethodGet, "/locked.js")
	assertStatus(t, rec, http.StatusInternalServerError)
	if got := rec.Body.String(); got != "Internal Server Error" {
		t.Errorf("expected generic error body, got %q", got)
	}
}

func TestServerIgnoresMethod(t *testing.T) {
	srv := newTestServer(t, map[string]string{"fallback.html": "home", "a.json": "{}"})

	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions} {
		rec := doRequest(srv, m, "/a.json")
		assertStatus(t, rec, http.StatusOK)
		if got := rec.Header().Get("Content-Type"); got != "application/json" {
			t.Errorf("%s: expected application/json, got %q", m, got)
		}
	}
}

func TestServerIdempotent(t *testing.T) {
	srv := newTestServer(t, map[string]string{"fallback.html": "home", "app.js": "run()"})

	for _, p := range []string{"/", "/app.js", "/missing", "/../x"} {
		first := doRequest(srv, http.MethodGet, p)
		second := doRequest(srv, http.MethodGet, p)
		if first.Code != second.Code {
			t.Errorf("%s: status changed between calls: %d then %d", p, first.Code, second.Code)
		}
		if first.Body.String() != second.Body.String() {
			t.Errorf("%s: body changed between calls", p)
		}
	}
}

func TestServerCustomFallback(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"index.html": "spa"})

	srv, err := NewServer(ServerConfig{Root: root, FallbackFile: "index.html"})
	if err != nil {
		t.Fatalf("unexpected error creating server: %v", err)
	}

	rec := doRequest(srv, http.MethodGet, "/route/in/app")
	assertStatus(t, rec, http.StatusOK)
	if got := rec.Body.String(); got != "spa" {
		t.Errorf("expected spa fallback, got %q", got)
	}
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(ServerConfig{}); err == nil {
		t.Error("expected error for empty root")
	}

	missing := filepath.Join(t.TempDir(), "nope")
	if _, err := NewServer(ServerConfig{Root: missing}); err == nil {
		t.Error("expected error for missing root")
	}

	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewServer(ServerConfig{Root: file}); err == nil {
		t.Error("expected error for root that is a file")
	}

	if _, err := NewServer(ServerConfig{Root: t.TempDir(), FallbackFile: "../outside.html"}); err == nil {
		t.Error("expected error for fallback outside root")
	}
}

func TestServerRelativeRootIsMadeAbsolute(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"fallback.html": "home"})
	chdir(t, dir)

	srv, err := NewServer(ServerConfig{Root: "."})
	if err != nil {
		t.Fatalf("unexpected error creating server: %v", err)
	}
	if !filepath.IsAbs(srv.Root()) {
		t.Errorf("expected absolute root, got %q", srv.Root())
	}

	rec := doRequest(srv, http.MethodGet, "/")
	assertStatus(t, rec, http.StatusOK)
}

// newTestServer creates a Server rooted at a temporary directory seeded with files.
func newTestServer(t *testing.T, files map[string]string) *Server {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, files)
	srv, err := NewServer(ServerConfig{Addr: "127.0.0.1:0", Root: root})
	if err != nil {
		t.Fatalf("unexpected error creating server: %v", err)
	}
	return srv
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func doRequest(h http.Handler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d (body %q)", want, rec.Code, rec.Body.String())
	}
}
