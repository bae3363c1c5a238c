// ABOUTME: Loads environment variables from a .env file at startup.
// ABOUTME: Delegates parsing to godotenv, which never clobbers variables already in the environment.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// loadDotEnv reads a .env file and sets any variables not already in the
// environment. Missing files are silently ignored.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: loading %s: %v\n", path, err)
	}
}
