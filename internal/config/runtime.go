package config

import (
	"os"
	"path/filepath"
)

const defaultRuntimeDir = ".studybuddy"

// GetRuntimePath resolves the runtime directory before any .env is loaded.
func GetRuntimePath() string {
	return resolveRuntimePath(os.Getenv("STUDYBUDDY_RUNTIME_PATH"))
}

func resolveRuntimePath(path string) string {
	if path == "" {
		path = defaultRuntimeDir
	}
	if !filepath.IsAbs(path) {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path)
		}
	}
	return path
}
