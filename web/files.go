// ABOUTME: Small filesystem helpers for the static server: existence checks and root listings.
// ABOUTME: AvailableFiles feeds the startup banner with the files reachable at the top of the root.
package web

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// AvailableFiles returns the non-hidden regular files directly under root, sorted by name.
func AvailableFiles(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", root, err)
	}

	var names []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
