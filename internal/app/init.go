package app

import (
	"fmt"
	"path/filepath"

	"github.com/datos-demre/demre/internal/config"
	"github.com/datos-demre/demre/internal/prompt"
	"github.com/spf13/afero"
)

// Initialize writes the default config file to path. An existing file is only
// replaced when force is set or the user confirms through p. It reports
// whether the file was written.
func Initialize(fs afero.Fs, path string, force bool, p prompt.Prompter) (bool, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return false, fmt.Errorf("failed to check config file %s: %w", path, err)
	}

	if exists && !force {
		if p == nil {
			return false, fmt.Errorf("config file %s already exists, use --force to overwrite", path)
		}
		ok, confirmErr := prompt.Confirm(p, fmt.Sprintf("%s already exists. Overwrite?", path))
		if confirmErr != nil {
			return false, fmt.Errorf("failed to confirm overwrite: %w", confirmErr)
		}
		if !ok {
			return false, nil
		}
	}

	data, err := config.DefaultConfigYAML()
	if err != nil {
		return false, fmt.Errorf("failed to render default config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			return false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		return false, fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return true, nil
}
