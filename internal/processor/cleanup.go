package processor

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrFolderNotEmpty is returned when an extraction folder still holds files
// after its entries were renamed away.
var ErrFolderNotEmpty = errors.New("extraction folder not empty")

// tracker records where one kind of entry was extracted inside a year
// folder, so cleanup does not depend on whichever entry came last.
type tracker struct {
	last    map[string]string
	final   map[string]struct{}
	yearDir string
	dirs    []string
}

func newTracker(yearDir string) *tracker {
	return &tracker{
		yearDir: yearDir,
		last:    make(map[string]string),
		final:   make(map[string]struct{}),
	}
}

func (t *tracker) extracted(path string) {
	dir := filepath.Dir(path)
	if _, seen := t.last[dir]; !seen {
		t.dirs = append(t.dirs, dir)
	}
	t.last[dir] = path
}

func (t *tracker) renamed(path string) {
	t.final[path] = struct{}{}
}

// cleanup removes stray files and the intermediate folders the archive's
// internal paths created. Nothing is removed when nothing was extracted.
func (t *tracker) cleanup(fs afero.Fs, year string) error {
	dirs := make([]string, len(t.dirs))
	copy(dirs, t.dirs)
	// Deepest first, so children are gone before their parents are checked.
	sort.SliceStable(dirs, func(i, j int) bool {
		return strings.Count(dirs[i], string(filepath.Separator)) >
			strings.Count(dirs[j], string(filepath.Separator))
	})

	for _, dir := range dirs {
		exists, err := afero.DirExists(fs, dir)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", dir, err)
		}
		if !exists {
			continue
		}

		if err := t.removeLeftover(fs, t.last[dir]); err != nil {
			return err
		}

		if err := t.removeFolders(fs, dir, year); err != nil {
			return err
		}
	}

	return nil
}

func (t *tracker) removeLeftover(fs afero.Fs, path string) error {
	if _, isFinal := t.final[path]; isFinal {
		return nil
	}

	exists, err := afero.Exists(fs, path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !exists {
		return nil
	}

	if err := fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove leftover %s: %w", path, err)
	}
	return nil
}

// removeFolders deletes dir and then each parent that became empty, stopping
// at the year folder or at any folder named after the year.
func (t *tracker) removeFolders(fs afero.Fs, dir, year string) error {
	for current := dir; t.inside(current); current = filepath.Dir(current) {
		if filepath.Base(current) == year {
			return nil
		}

		empty, err := afero.IsEmpty(fs, current)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", current, err)
		}
		if !empty {
			if current == dir {
				return fmt.Errorf("%w: %s", ErrFolderNotEmpty, dir)
			}
			// A sibling extraction folder is still pending removal.
			return nil
		}

		if err := fs.Remove(current); err != nil {
			return fmt.Errorf("failed to remove %s: %w", current, err)
		}
	}
	return nil
}

func (t *tracker) inside(dir string) bool {
	return strings.HasPrefix(dir, t.yearDir+string(filepath.Separator))
}
