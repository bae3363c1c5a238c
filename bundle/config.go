// ABOUTME: Build configuration for the asset bundler, loadable from YAML or TOML files.
// ABOUTME: Values missing from the file keep their defaults; relative dist dirs hang off the source dir.
package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ConfigFileNames are the names FindConfig looks for, in order.
var ConfigFileNames = []string{"assetbuild.yaml", "assetbuild.yml", "assetbuild.toml"}

// Config controls a single build.
type Config struct {
	SourceDir  string   `yaml:"source_dir" toml:"source_dir"`
	DistDir    string   `yaml:"dist_dir" toml:"dist_dir"`
	Version    string   `yaml:"version" toml:"version"`
	GlobalName string   `yaml:"global_name" toml:"global_name"`
	NoBundle   bool     `yaml:"no_bundle" toml:"no_bundle"`
	Vendor     []string `yaml:"vendor" toml:"vendor"` // substrings marking scripts that are copied, never bundled
	Ignore     []string `yaml:"ignore" toml:"ignore"` // exact top-level file names to skip
}

// DefaultConfig returns the configuration used when no file or flags say otherwise.
func DefaultConfig() Config {
	return Config{
		SourceDir:  ".",
		DistDir:    "dist",
		GlobalName: "App",
		Vendor:     []string{"jquery", "recaptcha"},
	}
}

// LoadConfig reads path over DefaultConfig. Files ending in .toml are decoded
// as TOML, everything else as YAML.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading build config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	// Relative source dirs in a config file are relative to the file itself.
	if !filepath.IsAbs(cfg.SourceDir) {
		cfg.SourceDir = filepath.Join(filepath.Dir(path), cfg.SourceDir)
	}
	return cfg, nil
}

// FindConfig returns the first config file from ConfigFileNames present in dir,
// or "" when there is none.
func FindConfig(dir string) string {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			return p
		}
	}
	return ""
}

// resolve returns a copy with absolute, cleaned directories.
func (c Config) resolve() (Config, error) {
	src, err := filepath.Abs(c.SourceDir)
	if err != nil {
		return c, fmt.Errorf("resolving source dir: %w", err)
	}
	c.SourceDir = src

	dist := c.DistDir
	if dist == "" {
		dist = "dist"
	}
	if !filepath.IsAbs(dist) {
		dist = filepath.Join(src, dist)
	}
	c.DistDir = filepath.Clean(dist)

	if c.DistDir == c.SourceDir {
		return c, fmt.Errorf("dist dir must differ from source dir %s", c.SourceDir)
	}
	return c, nil
}
