// ABOUTME: Help display for the assetserve CLI with subcommands, flags, examples, and environment status.
// ABOUTME: Provides printHelp for usage output and envStatus for showing the effective PORT.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/2389-research/assetserve/web"
)

// printHelp writes a formatted help message to w.
func printHelp(w io.Writer, ver string) {
	fmt.Fprintf(w, "assetserve %s: static asset server and build step\n", ver)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  assetserve [serve] [-dir <dir>] [-fallback <file>]   Serve a directory over HTTP")
	fmt.Fprintln(w, "  assetserve build [-src <dir>] [-out <dir>]           Build a dist directory")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Serve Flags:")
	fmt.Fprintln(w, "  -dir <dir>            Directory to serve (default: current directory)")
	fmt.Fprintf(w, "  -fallback <file>      File served for / and unknown paths (default: %s)\n", web.DefaultFallbackFile)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Build Flags:")
	fmt.Fprintln(w, "  -config <file>        Build config (default: assetbuild.yaml|yml|toml in the source dir)")
	fmt.Fprintln(w, "  -src <dir>            Source directory (default: .)")
	fmt.Fprintln(w, "  -out <dir>            Output directory, relative to the source dir (default: dist)")
	fmt.Fprintln(w, "  -build-version <v>    Version for build-info.json (default: package.json version)")
	fmt.Fprintln(w, "  -no-bundle            Copy scripts instead of bundling them")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Other:")
	fmt.Fprintln(w, "  -version              Print version and exit")
	fmt.Fprintln(w, "  -help                 Show this help")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  assetserve")
	fmt.Fprintln(w, "  PORT=8080 assetserve -dir dist")
	fmt.Fprintln(w, "  assetserve build -build-version 1.2.0")
	fmt.Fprintln(w, "  assetserve build -src site -no-bundle")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  PORT                  %s\n", envStatus("PORT"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  A .env file in the working directory is loaded at startup without")
	fmt.Fprintln(w, "  overriding variables that are already set.")
}

// envStatus describes the named environment variable for the help screen.
func envStatus(key string) string {
	if v := os.Getenv(key); v != "" {
		return fmt.Sprintf("[set: %s]", v)
	}
	return "[not set]"
}
