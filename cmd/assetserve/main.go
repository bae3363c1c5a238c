// ABOUTME: CLI entrypoint for assetserve with serve (default) and build subcommands.
// ABOUTME: Wires env config, the static file server, signal-driven graceful shutdown, and the asset builder.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/2389-research/assetserve/bundle"
	"github.com/2389-research/assetserve/web"
)

var version = "dev"

// config holds all CLI configuration parsed from the subcommand and its flags.
type config struct {
	command     string // "serve" or "build"
	showVersion bool

	// serve
	dir      string
	fallback string

	// build
	configFile   string
	srcDir       string
	outDir       string
	buildVersion string
	noBundle     bool
}

func main() {
	loadDotEnv(".env")

	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if cfg.showVersion {
		fmt.Printf("assetserve %s\n", version)
		os.Exit(0)
	}

	os.Exit(run(cfg))
}

// parseArgs reads an optional subcommand followed by its flags. Without a
// subcommand the server is started.
func parseArgs(args []string, stderr io.Writer) (config, error) {
	cfg := config{command: "serve"}
	if len(args) > 0 && (args[0] == "serve" || args[0] == "build") {
		cfg.command = args[0]
		args = args[1:]
	}

	fs := flag.NewFlagSet("assetserve "+cfg.command, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.showVersion, "version", false, "Print version and exit")

	switch cfg.command {
	case "serve":
		fs.StringVar(&cfg.dir, "dir", "", "Directory to serve (default: current directory)")
		fs.StringVar(&cfg.fallback, "fallback", "", "Fallback file served for / and unknown paths (default: fallback.html)")
	case "build":
		fs.StringVar(&cfg.configFile, "config", "", "Build config file (default: assetbuild.yaml|yml|toml in the source dir)")
		fs.StringVar(&cfg.srcDir, "src", "", "Source directory (default: .)")
		fs.StringVar(&cfg.outDir, "out", "", "Output directory, relative to the source dir (default: dist)")
		fs.StringVar(&cfg.buildVersion, "build-version", "", "Version recorded in build-info.json (default: package.json version)")
		fs.BoolVar(&cfg.noBundle, "no-bundle", false, "Copy scripts instead of bundling them")
	}

	fs.Usage = func() {
		printHelp(stderr, version)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected argument %q\n", fs.Arg(0))
		return cfg, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return cfg, nil
}

// run dispatches to the subcommand. Returns an exit code: 0 for success, 1 for failure.
func run(cfg config) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if cfg.command == "build" {
		return runBuild(ctx, cfg, os.Stdout, os.Stderr)
	}
	return runServe(ctx, cfg, os.Stderr)
}

// runServe starts the static file server and blocks until it stops.
func runServe(ctx context.Context, cfg config, stderr io.Writer) int {
	serverCfg, err := web.ConfigFromEnv()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	if cfg.dir != "" {
		serverCfg.Root = cfg.dir
	}
	if cfg.fallback != "" {
		serverCfg.FallbackFile = cfg.fallback
	}

	srv, err := web.NewServer(serverCfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	printBanner(stderr, srv, serverCfg.Addr)

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(stderr, "Server closed")
	return 0
}

// runBuild loads the build config, applies flag overrides, and runs one build.
func runBuild(ctx context.Context, cfg config, stdout, stderr io.Writer) int {
	buildCfg, err := buildConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if _, err := bundle.NewBuilder(buildCfg, stdout).Build(ctx); err != nil {
		fmt.Fprintf(stderr, "Build failed: %v\n", err)
		return 1
	}
	return 0
}

// buildConfig resolves the config file (explicit or discovered) and layers
// the command-line flags over it.
func buildConfig(cfg config) (bundle.Config, error) {
	src := cfg.srcDir
	if src == "" {
		src = "."
	}

	path := cfg.configFile
	if path == "" {
		path = bundle.FindConfig(src)
	}

	buildCfg := bundle.DefaultConfig()
	buildCfg.SourceDir = src
	if path != "" {
		loaded, err := bundle.LoadConfig(path)
		if err != nil {
			return buildCfg, err
		}
		buildCfg = loaded
		if cfg.srcDir != "" {
			buildCfg.SourceDir = cfg.srcDir
		}
	}

	if cfg.outDir != "" {
		buildCfg.DistDir = cfg.outDir
	}
	if cfg.buildVersion != "" {
		buildCfg.Version = cfg.buildVersion
	}
	if cfg.noBundle {
		buildCfg.NoBundle = true
	}
	return buildCfg, nil
}
