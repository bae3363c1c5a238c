// ABOUTME: Server configuration loaded from the environment and the startup working directory.
// ABOUTME: PORT falls back to 3000 when absent, non-numeric, or outside the valid TCP range.
package web

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	// DefaultPort is used when PORT is unset or unusable.
	DefaultPort = 3000
	// DefaultFallbackFile is served for "/" and for paths that resolve to nothing.
	DefaultFallbackFile = "fallback.html"
)

// ServerConfig holds the configuration for the static file server.
type ServerConfig struct {
	Addr         string // listen address (default: ":3000")
	Root         string // directory tree the server may read from (default: working directory)
	FallbackFile string // root-relative landing page (default: fallback.html)
}

// ConfigFromEnv builds a ServerConfig from PORT and the current working directory.
func ConfigFromEnv() (ServerConfig, error) {
	wd, err := os.Getwd()
	if err != nil {
		return ServerConfig{}, fmt.Errorf("resolve working directory: %w", err)
	}
	return ServerConfig{
		Addr:         fmt.Sprintf(":%d", PortFromEnv()),
		Root:         wd,
		FallbackFile: DefaultFallbackFile,
	}, nil
}

// PortFromEnv returns the PORT environment variable as a port number. Values
// that are not a plain integer in 1..65535 are treated as unset.
func PortFromEnv() int {
	return parsePort(os.Getenv("PORT"))
}

func parsePort(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultPort
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return DefaultPort
	}
	return port
}
