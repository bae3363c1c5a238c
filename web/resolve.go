// ABOUTME: Maps an untrusted URL path onto a file path inside the served root directory.
// ABOUTME: Rejects NUL bytes and any path that lexically escapes the root before touching the filesystem.
package web

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrForbidden reports a request path that escapes the root directory.
var ErrForbidden = errors.New("path escapes root directory")

// ResolvePath joins urlPath onto root and verifies the result stays inside root.
// The path "/" (or an empty path) resolves to the fallback file. root must be an
// absolute, cleaned path. No filesystem access is performed.
func ResolvePath(root, urlPath, fallback string) (string, error) {
	if strings.IndexByte(urlPath, 0) >= 0 {
		return "", ErrForbidden
	}

	rel := fallback
	if urlPath != "" && urlPath != "/" {
		rel = strings.TrimPrefix(urlPath, "/")
	}

	// filepath.Join cleans the result, collapsing ".", "..", and repeated separators.
	resolved := filepath.Join(root, filepath.FromSlash(rel))
	if !withinRoot(root, resolved) {
		return "", ErrForbidden
	}
	return resolved, nil
}

// withinRoot reports whether path is root itself or lies beneath it. The
// separator check keeps a sibling such as /srv/www-old out of /srv/www.
func withinRoot(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
