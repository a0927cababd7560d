// Package project provides utilities for detecting project root directories.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/datos-demre/demre/internal/constants"
)

// markers identify a project root. "data" is the folder the DEMRE tree
// lives under.
var markers = []string{".git", "go.mod", "data"}

// FindRoot finds the project root directory.
func FindRoot() (string, error) {
	if root, found := checkProjectDirEnv(); found {
		return root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	if root, found := findProjectMarker(cwd); found {
		return root, nil
	}

	// Fall back to current working directory
	return cwd, nil
}

// FindProjectMarkerFrom finds the project root directory starting from the given directory.
func FindProjectMarkerFrom(startDir string) (string, bool) {
	return findProjectMarker(startDir)
}

// checkProjectDirEnv checks if DEMRE_PROJECT_DIR is set to an existing directory
func checkProjectDirEnv() (string, bool) {
	dir := os.Getenv(constants.ProjectDirEnv)
	if dir == "" {
		return "", false
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", false
	}

	return abs, true
}

// findProjectMarker searches for project root markers starting from the given directory
func findProjectMarker(startDir string) (string, bool) {
	currentDir := startDir

	for {
		if hasProjectMarker(currentDir) {
			return currentDir, true
		}

		parentDir := filepath.Dir(currentDir)

		// Stop if we've reached the filesystem root
		if parentDir == currentDir {
			break
		}

		currentDir = parentDir
	}

	return "", false
}

func hasProjectMarker(dir string) bool {
	for _, marker := range markers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}
