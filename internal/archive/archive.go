// Package archive reads the entries of compressed bundles through an
// afero filesystem.
package archive

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrUnsupportedFormat is returned for bundle extensions without an opener.
	ErrUnsupportedFormat = errors.New("unsupported archive format")

	// ErrUnsafeEntryPath is returned for entries that would be written
	// outside the destination folder.
	ErrUnsafeEntryPath = errors.New("unsafe entry path")
)

// Entry describes one member of an archive.
type Entry struct {
	Name  string
	IsDir bool
}

// Reader walks the entries of an open archive. Read returns the contents
// of the entry last returned by Next.
type Reader interface {
	io.Reader
	// Next advances to the next entry and returns io.EOF after the last one.
	Next() (*Entry, error)
	Close() error
}

// Opener opens one archive format.
type Opener interface {
	Open(fs afero.Fs, path string) (Reader, error)
}

// Registry maps lower-case file extensions to openers.
type Registry struct {
	openers map[string]Opener
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{openers: make(map[string]Opener)}
}

// DefaultRegistry knows RAR and ZIP bundles.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(".rar", RAR{})
	registry.Register(".zip", Zip{})
	return registry
}

// Register associates ext (".rar") with opener.
func (r *Registry) Register(ext string, opener Opener) {
	r.openers[strings.ToLower(ext)] = opener
}

// For returns the opener handling the extension of name.
func (r *Registry) For(name string) (Opener, error) {
	ext := strings.ToLower(filepath.Ext(name))
	opener, ok := r.openers[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return opener, nil
}

// Supports reports whether ext has an opener.
func (r *Registry) Supports(ext string) bool {
	_, ok := r.openers[strings.ToLower(ext)]
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.openers))
	for ext := range r.openers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Open opens path with the opener matching its extension.
func (r *Registry) Open(fs afero.Fs, path string) (Reader, error) {
	opener, err := r.For(path)
	if err != nil {
		return nil, err
	}
	return opener.Open(fs, path)
}

// EntryPath joins an archive entry name onto destDir, rejecting names that
// are absolute or climb out of destDir.
func EntryPath(destDir, name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	if name == "" || strings.HasPrefix(name, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafeEntryPath, name)
	}

	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeEntryPath, name)
	}

	return filepath.Join(destDir, clean), nil
}

// Extract writes the current entry of r below destDir, keeping the entry's
// internal folders, and returns the written path.
func Extract(fs afero.Fs, r io.Reader, destDir, name string) (string, error) {
	target, err := EntryPath(destDir, name)
	if err != nil {
		return "", err
	}

	if err := fs.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	file, err := fs.OpenFile(target, osCreateFlags, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(file, r); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("failed to extract %s: %w", name, err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", target, err)
	}

	return target, nil
}
