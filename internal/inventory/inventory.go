// Package inventory reports what the processor has produced so far.
package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datos-demre/demre/internal/categories"
	"github.com/datos-demre/demre/internal/paths"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// DataFile is a renamed data file.
type DataFile struct {
	Category string
	Path     string
	Size     int64
}

// Dictionary is a renamed dictionary workbook.
type Dictionary struct {
	Category string
	Path     string
	// Error is set when the workbook could not be read.
	Error  string
	Sheets []string
	Size   int64
}

// Year collects the outputs of one admission year.
type Year struct {
	Year         string
	DataFiles    []DataFile
	Dictionaries []Dictionary
	// Missing lists canonical categories without a data file.
	Missing []string
	// Unrecognized lists files whose names are not canonical.
	Unrecognized []string
}

// Report is the inventory of all years, sorted by year.
type Report struct {
	Years []Year
}

// Scanner builds reports for one layout.
type Scanner struct {
	fs     afero.Fs
	layout *paths.Layout
	table  *categories.Table
	rules  categories.Rules
}

// NewScanner creates a Scanner.
func NewScanner(fs afero.Fs, layout *paths.Layout, table *categories.Table, rules categories.Rules) *Scanner {
	return &Scanner{fs: fs, layout: layout, table: table, rules: rules}
}

// Scan walks the year folders of the data and dictionary roots. Missing
// roots produce an empty report.
func (s *Scanner) Scan() (*Report, error) {
	years, err := s.years()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, year := range years {
		entry, err := s.scanYear(year)
		if err != nil {
			return nil, err
		}
		report.Years = append(report.Years, *entry)
	}

	return report, nil
}

func (s *Scanner) years() ([]string, error) {
	seen := make(map[string]struct{})
	for _, root := range s.layout.OutputDirs() {
		infos, err := s.readDir(root)
		if err != nil {
			return nil, err
		}
		for _, info := range infos {
			if info.IsDir() {
				seen[info.Name()] = struct{}{}
			}
		}
	}

	years := make([]string, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Strings(years)
	return years, nil
}

func (s *Scanner) scanYear(year string) (*Year, error) {
	entry := &Year{Year: year}
	known := make(map[string]struct{})
	for _, name := range s.table.Names() {
		known[name] = struct{}{}
	}

	infos, err := s.readDir(s.layout.FilesYear(year))
	if err != nil {
		return nil, err
	}
	present := make(map[string]struct{})
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		category := strings.TrimSuffix(info.Name(), filepath.Ext(info.Name()))
		if _, ok := known[category]; !ok || info.Name() != s.rules.CSVName(category) {
			entry.Unrecognized = append(entry.Unrecognized, filepath.Join(s.layout.FilesYear(year), info.Name()))
			continue
		}
		present[category] = struct{}{}
		entry.DataFiles = append(entry.DataFiles, DataFile{
			Category: category,
			Path:     filepath.Join(s.layout.FilesYear(year), info.Name()),
			Size:     info.Size(),
		})
	}

	for _, name := range s.table.Names() {
		if _, ok := present[name]; !ok {
			entry.Missing = append(entry.Missing, name)
		}
	}

	infos, err = s.readDir(s.layout.DictionariesYear(year))
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		path := filepath.Join(s.layout.DictionariesYear(year), info.Name())
		category := strings.TrimSuffix(strings.TrimPrefix(info.Name(), s.rules.DictPrefix), filepath.Ext(info.Name()))
		if _, ok := known[category]; !ok || info.Name() != s.rules.DictName(category) {
			entry.Unrecognized = append(entry.Unrecognized, path)
			continue
		}
		entry.Dictionaries = append(entry.Dictionaries, s.inspect(category, path, info.Size()))
	}

	return entry, nil
}

// inspect reads the sheet names of a dictionary workbook.
func (s *Scanner) inspect(category, path string, size int64) Dictionary {
	dict := Dictionary{Category: category, Path: path, Size: size}

	file, err := s.fs.Open(path)
	if err != nil {
		dict.Error = err.Error()
		return dict
	}
	defer func() { _ = file.Close() }()

	workbook, err := excelize.OpenReader(file)
	if err != nil {
		dict.Error = fmt.Sprintf("failed to read workbook: %v", err)
		return dict
	}
	defer func() { _ = workbook.Close() }()

	dict.Sheets = workbook.GetSheetList()
	return dict
}

func (s *Scanner) readDir(dir string) ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	return infos, nil
}
