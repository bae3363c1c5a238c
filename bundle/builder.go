// ABOUTME: Asset build step that fills a dist directory the static server can serve.
// ABOUTME: Bundles scripts with esbuild (falling back to plain copies) and copies CSS, HTML, and images.
package bundle

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

const (
	// BundleFileName is the esbuild output inside the dist dir.
	BundleFileName = "bundle.min.js"
	// ImagesDir is the dist subdirectory receiving copied images.
	ImagesDir = "images"

	downloadSuffix = ".download"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	okColor      = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// Builder runs builds for one Config. Progress lines go to the writer given to
// NewBuilder.
type Builder struct {
	cfg Config
	out io.Writer
	now func() time.Time
}

// NewBuilder returns a Builder writing progress to out (io.Discard when nil).
func NewBuilder(cfg Config, out io.Writer) *Builder {
	if out == nil {
		out = io.Discard
	}
	return &Builder{cfg: cfg, out: out, now: time.Now}
}

// sourceFiles groups the top-level files of the source dir by category.
type sourceFiles struct {
	scripts []string
	css     []string
	html    []string
	images  []string
}

// Build produces the dist directory and returns the metadata written to
// build-info.json. Any I/O failure aborts the build.
func (b *Builder) Build(ctx context.Context) (*Info, error) {
	cfg, err := b.cfg.resolve()
	if err != nil {
		return nil, err
	}

	version := cfg.Version
	if version == "" {
		if version, err = packageVersion(cfg.SourceDir); err != nil {
			return nil, err
		}
	}
	if version == "" {
		version = "dev"
	}

	headingColor.Fprintf(b.out, "Building assets from %s\n", cfg.SourceDir)

	if err := os.MkdirAll(cfg.DistDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating dist dir: %w", err)
	}

	files, err := collect(cfg)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Files: FileCounts{
			JavaScript: len(files.scripts),
			CSS:        len(files.css),
			HTML:       len(files.html),
			Images:     len(files.images),
		},
		BuildVersion: version,
		BuildID:      uuid.NewString(),
	}

	if len(files.scripts) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bundled, err := b.processScripts(cfg, files.scripts)
		if err != nil {
			return nil, err
		}
		info.Bundled = bundled
	}

	steps := []struct {
		label string
		names []string
		dest  string
	}{
		{"CSS files", files.css, cfg.DistDir},
		{"HTML files", files.html, cfg.DistDir},
		{"images", files.images, filepath.Join(cfg.DistDir, ImagesDir)},
	}
	for _, step := range steps {
		if len(step.names) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		headingColor.Fprintf(b.out, "Processing %s:\n", step.label)
		if err := os.MkdirAll(step.dest, 0o755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", step.dest, err)
		}
		for _, name := range step.names {
			if err := copyFile(filepath.Join(cfg.SourceDir, name), filepath.Join(step.dest, name)); err != nil {
				return nil, err
			}
			fmt.Fprintf(b.out, "  - %s -> %s\n", name, relTo(cfg.SourceDir, filepath.Join(step.dest, name)))
		}
	}

	info.Timestamp = b.now().UTC()
	if err := writeInfo(cfg.DistDir, info); err != nil {
		return nil, err
	}

	okColor.Fprintf(b.out, "Build completed: %s\n", relTo(cfg.SourceDir, filepath.Join(cfg.DistDir, InfoFileName)))
	return info, nil
}

// processScripts bundles non-vendor scripts into BundleFileName and copies
// vendor scripts beside it. When bundling is disabled or esbuild reports
// errors every script is copied as-is. It reports whether a bundle was written.
func (b *Builder) processScripts(cfg Config, scripts []string) (bool, error) {
	headingColor.Fprintf(b.out, "Found JavaScript files to process:\n")
	for _, name := range scripts {
		fmt.Fprintf(b.out, "  - %s\n", name)
	}

	var app, vendor []string
	for _, name := range scripts {
		if isVendor(name, cfg.Vendor) {
			vendor = append(vendor, name)
		} else {
			app = append(app, name)
		}
	}

	copyAll := scripts
	bundled := false
	if !cfg.NoBundle && len(app) > 0 {
		if err := bundleScripts(cfg, app); err != nil {
			warnColor.Fprintf(b.out, "Bundling failed, copying files directly: %v\n", err)
		} else {
			okColor.Fprintf(b.out, "Bundle created: %s\n", relTo(cfg.SourceDir, filepath.Join(cfg.DistDir, BundleFileName)))
			copyAll = vendor
			bundled = true
		}
	}

	for _, name := range copyAll {
		dest := strings.TrimSuffix(name, downloadSuffix)
		if err := copyFile(filepath.Join(cfg.SourceDir, name), filepath.Join(cfg.DistDir, dest)); err != nil {
			return false, err
		}
		fmt.Fprintf(b.out, "  copied %s -> %s\n", name, relTo(cfg.SourceDir, filepath.Join(cfg.DistDir, dest)))
	}
	return bundled, nil
}

// bundleScripts feeds esbuild a synthetic entry point importing every script,
// minified into an IIFE exposing cfg.GlobalName.
func bundleScripts(cfg Config, scripts []string) error {
	imports := make([]string, 0, len(scripts))
	for _, name := range scripts {
		imports = append(imports, fmt.Sprintf("import %q;", "./"+name))
	}

	result := api.Build(api.BuildOptions{
		Stdin: &api.StdinOptions{
			Contents:   strings.Join(imports, "\n"),
			ResolveDir: cfg.SourceDir,
			Sourcefile: "entry.js",
			Loader:     api.LoaderJS,
		},
		AbsWorkingDir:     cfg.SourceDir,
		Bundle:            true,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Format:            api.FormatIIFE,
		GlobalName:        cfg.GlobalName,
		Loader:            map[string]api.Loader{downloadSuffix: api.LoaderJS},
		Outfile:           filepath.Join(cfg.DistDir, BundleFileName),
		Write:             true,
		LogLevel:          api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		msgs := make([]string, 0, len(result.Errors))
		for _, m := range result.Errors {
			msgs = append(msgs, m.Text)
		}
		return fmt.Errorf("esbuild: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// collect lists the top-level regular files of the source dir by category.
func collect(cfg Config) (sourceFiles, error) {
	var files sourceFiles

	entries, err := os.ReadDir(cfg.SourceDir)
	if err != nil {
		return files, fmt.Errorf("reading source dir: %w", err)
	}

	ignored := make(map[string]bool, len(cfg.Ignore))
	for _, name := range cfg.Ignore {
		ignored[name] = true
	}

	for _, e := range entries {
		name := e.Name()
		if !e.Type().IsRegular() || ignored[name] {
			continue
		}
		lower := strings.ToLower(name)
		switch {
		case strings.HasSuffix(lower, ".js"+downloadSuffix), strings.HasSuffix(lower, ".js"):
			files.scripts = append(files.scripts, name)
		case strings.HasSuffix(lower, ".css"):
			files.css = append(files.css, name)
		case strings.HasSuffix(lower, ".html"):
			files.html = append(files.html, name)
		case isImage(lower):
			files.images = append(files.images, name)
		}
	}

	for _, list := range [][]string{files.scripts, files.css, files.html, files.images} {
		sort.Strings(list)
	}
	return files, nil
}

func isImage(lower string) bool {
	switch filepath.Ext(lower) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}

func isVendor(name string, markers []string) bool {
	lower := strings.ToLower(name)
	for _, m := range markers {
		if m != "" && strings.Contains(lower, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copying %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return nil
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
