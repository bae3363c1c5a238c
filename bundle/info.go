// ABOUTME: Build metadata written next to the bundled assets as build-info.json.
// ABOUTME: Records when the build ran, how many files of each kind it handled, and the version.
package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// InfoFileName is the metadata file written into the dist dir.
const InfoFileName = "build-info.json"

// FileCounts tallies the source files of each category a build processed.
type FileCounts struct {
	JavaScript int `json:"javascript"`
	CSS        int `json:"css"`
	HTML       int `json:"html"`
	Images     int `json:"images"`
}

// Info is the content of build-info.json.
type Info struct {
	Timestamp    time.Time  `json:"timestamp"`
	Files        FileCounts `json:"files"`
	BuildVersion string     `json:"buildVersion"`
	BuildID      string     `json:"buildId"`
	Bundled      bool       `json:"bundled"`
}

func writeInfo(dir string, info *Info) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding build info: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, InfoFileName), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing build info: %w", err)
	}
	return nil
}

// ReadInfo loads build-info.json from a dist dir.
func ReadInfo(dir string) (*Info, error) {
	data, err := os.ReadFile(filepath.Join(dir, InfoFileName))
	if err != nil {
		return nil, err
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", InfoFileName, err)
	}
	return &info, nil
}

// packageVersion returns the "version" field of dir/package.json, or "" when
// the file does not exist.
func packageVersion(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading package.json: %w", err)
	}
	var pkg struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", fmt.Errorf("parsing package.json: %w", err)
	}
	return pkg.Version, nil
}
