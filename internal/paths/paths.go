// Package paths derives the DEMRE data tree from a project root.
package paths

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/datos-demre/demre/internal/config"
	"github.com/spf13/afero"
)

// ErrEmptyRoot is returned when no project root is given.
var ErrEmptyRoot = errors.New("project root is empty")

// Layout holds the canonical folders of a project. It is built once and
// never modified.
type Layout struct {
	Root         string
	Data         string
	Raw          string
	RawDEMRE     string
	RawOpen      string
	Archives     string
	Databases    string
	Files        string
	Dictionaries string
	Processed    string
}

// New computes the layout below root using the given folder names.
func New(root string, folders config.Folders) (*Layout, error) {
	if strings.TrimSpace(root) == "" {
		return nil, ErrEmptyRoot
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}

	data := filepath.Join(abs, folders.Data)
	raw := filepath.Join(data, folders.Raw)
	open := filepath.Join(raw, folders.Open)
	databases := filepath.Join(open, folders.Databases)

	return &Layout{
		Root:         abs,
		Data:         data,
		Raw:          raw,
		RawDEMRE:     filepath.Join(raw, folders.DEMRE),
		RawOpen:      open,
		Archives:     filepath.Join(open, folders.Archives),
		Databases:    databases,
		Files:        filepath.Join(databases, folders.Files),
		Dictionaries: filepath.Join(databases, folders.Dictionaries),
		Processed:    filepath.Join(data, folders.Processed),
	}, nil
}

// FilesYear returns the data-file folder for one admission year.
func (l *Layout) FilesYear(year string) string {
	return filepath.Join(l.Files, year)
}

// DictionariesYear returns the dictionary folder for one admission year.
func (l *Layout) DictionariesYear(year string) string {
	return filepath.Join(l.Dictionaries, year)
}

// OutputDirs lists the folders the processor writes into.
func (l *Layout) OutputDirs() []string {
	return []string{l.Files, l.Dictionaries}
}

// Ensure creates the output folders if they are missing.
func (l *Layout) Ensure(fs afero.Fs) error {
	for _, dir := range l.OutputDirs() {
		if err := fs.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Entries returns label/path pairs in tree order, for display.
func (l *Layout) Entries() [][2]string {
	return [][2]string{
		{"root", l.Root},
		{"data", l.Data},
		{"raw", l.Raw},
		{"raw demre", l.RawDEMRE},
		{"raw open", l.RawOpen},
		{"archives", l.Archives},
		{"databases", l.Databases},
		{"files", l.Files},
		{"dictionaries", l.Dictionaries},
		{"processed", l.Processed},
	}
}
