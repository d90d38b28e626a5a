// Package utils provides small helpers shared across the application.
package utils

import (
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands ~ and environment-free relative paths to absolute
// ones. Returns the input unchanged when expansion fails.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	if abs, err := filepath.Abs(s); err == nil {
		return abs
	}
	return s
}
