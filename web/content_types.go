// ABOUTME: Extension to MIME type table used to label served files.
// ABOUTME: Lookups are case-insensitive on the extension; unknown extensions map to octet-stream.
package web

import (
	"path/filepath"
	"strings"
)

// DefaultContentType is returned for extensions missing from the table.
const DefaultContentType = "application/octet-stream"

// ContentTypes maps a lowercase extension, leading dot included, to a MIME type.
// A table is built once at startup and only read afterwards.
type ContentTypes map[string]string

// DefaultContentTypes returns the table used by NewServer.
func DefaultContentTypes() ContentTypes {
	return ContentTypes{
		".html":  "text/html",
		".js":    "text/javascript",
		".mjs":   "text/javascript",
		".css":   "text/css",
		".json":  "application/json",
		".map":   "application/json",
		".png":   "image/png",
		".jpg":   "image/jpeg",
		".jpeg":  "image/jpeg",
		".gif":   "image/gif",
		".svg":   "image/svg+xml",
		".ico":   "image/x-icon",
		".webp":  "image/webp",
		".txt":   "text/plain",
		".wasm":  "application/wasm",
		".woff":  "font/woff",
		".woff2": "font/woff2",
	}
}

// Lookup returns the MIME type for the file name's extension.
func (c ContentTypes) Lookup(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DefaultContentType
	}
	if ct, ok := c[ext]; ok {
		return ct
	}
	return DefaultContentType
}
