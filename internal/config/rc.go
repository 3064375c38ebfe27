// Package config resolves figkit settings from flags, the environment,
// .figkitrc, figkit.toml and the global config store.
package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// RCFile is the per-directory KEY=VALUE settings file.
const RCFile = ".figkitrc"

// ReadRC parses the .figkitrc file in the current directory and returns
// all key-value pairs as a map. Lines starting with '#' are comments.
// Returns nil if the file does not exist or cannot be read.
func ReadRC() map[string]string {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	return ReadRCFile(filepath.Join(cwd, RCFile))
}

// ReadRCFile parses a KEY=VALUE file at path.
func ReadRCFile(path string) map[string]string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	m := make(map[string]string)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			m[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return m
}
