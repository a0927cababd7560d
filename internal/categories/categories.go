// Package categories maps the short tokens embedded in DEMRE file names to
// canonical dataset names.
package categories

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/datos-demre/demre/internal/config"
)

var (
	// ErrUnknownCategory is returned when a token is not in the table.
	ErrUnknownCategory = errors.New("unknown category token")

	// ErrEmptyTable is returned when a table would have no entries.
	ErrEmptyTable = errors.New("category table is empty")
)

// Table is an immutable token lookup table.
type Table struct {
	names map[string]string
}

// New copies entries into a new Table. Tokens are normalized the same way
// file-name tokens are, so "Matrícula" and "matricula" are the same key.
func New(entries map[string]string) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}

	names := make(map[string]string, len(entries))
	for token, name := range entries {
		key := normalize(token)
		if key == "" {
			return nil, fmt.Errorf("invalid category token %q", token)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("category %q has an empty name", token)
		}
		names[key] = name
	}

	return &Table{names: names}, nil
}

// Default returns the built-in DEMRE table.
func Default() *Table {
	table, err := New(config.DefaultCategories())
	if err != nil {
		panic(err)
	}
	return table
}

// Lookup returns the canonical name for token.
func (t *Table) Lookup(token string) (string, error) {
	name, ok := t.names[normalize(token)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, token)
	}
	return name, nil
}

// Names returns the distinct canonical names, sorted.
func (t *Table) Names() []string {
	seen := make(map[string]struct{}, len(t.names))
	names := make([]string, 0, len(t.names))
	for _, name := range t.names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of tokens in the table.
func (t *Table) Len() int {
	return len(t.names)
}
