// Package processor extracts DEMRE bundles into year-partitioned folders and
// renames the extracted spreadsheets to their canonical names.
package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datos-demre/demre/internal/archive"
	"github.com/datos-demre/demre/internal/categories"
	"github.com/datos-demre/demre/internal/config"
	"github.com/datos-demre/demre/internal/constants"
	"github.com/datos-demre/demre/internal/logging"
	"github.com/datos-demre/demre/internal/paths"
	"github.com/datos-demre/demre/internal/progress"
	"github.com/spf13/afero"
)

// ErrInvalidBundleName is returned when the year cannot be read from a
// bundle's file name.
var ErrInvalidBundleName = errors.New("invalid bundle name")

// Options configures a Processor. Layout and Table are required. A zero
// Rules uses the default entry naming.
type Options struct {
	Fs       afero.Fs
	Layout   *paths.Layout
	Table    *categories.Table
	Registry *archive.Registry
	Reporter progress.Reporter
	Rules    categories.Rules
	Bundles  config.Bundles
}

// Processor runs one pass over the bundles of a layout.
type Processor struct {
	fs       afero.Fs
	layout   *paths.Layout
	table    *categories.Table
	registry *archive.Registry
	reporter progress.Reporter
	rules    categories.Rules
	bundles  config.Bundles
	exts     map[string]struct{}
}

// BundleResult lists the files a bundle produced.
type BundleResult struct {
	Name         string
	Year         string
	DataFiles    []string
	Dictionaries []string
}

// Summary is the outcome of a completed run.
type Summary struct {
	Bundles []BundleResult
}

// DataFiles counts the data files written across all bundles.
func (s *Summary) DataFiles() int {
	n := 0
	for _, b := range s.Bundles {
		n += len(b.DataFiles)
	}
	return n
}

// Dictionaries counts the dictionaries written across all bundles.
func (s *Summary) Dictionaries() int {
	n := 0
	for _, b := range s.Bundles {
		n += len(b.Dictionaries)
	}
	return n
}

// New validates opts and builds a Processor.
func New(opts Options) (*Processor, error) {
	if opts.Layout == nil {
		return nil, errors.New("layout is required")
	}
	if opts.Table == nil {
		return nil, errors.New("category table is required")
	}
	if err := opts.Bundles.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle settings: %w", err)
	}
	if opts.Rules == (categories.Rules{}) {
		opts.Rules = categories.RulesFromConfig(config.DefaultConfig().Entries)
	}

	p := &Processor{
		fs:       opts.Fs,
		layout:   opts.Layout,
		table:    opts.Table,
		registry: opts.Registry,
		reporter: opts.Reporter,
		rules:    opts.Rules,
		bundles:  opts.Bundles,
		exts:     make(map[string]struct{}, len(opts.Bundles.Extensions)),
	}
	if p.fs == nil {
		p.fs = afero.NewOsFs()
	}
	if p.registry == nil {
		p.registry = archive.DefaultRegistry()
	}
	if p.reporter == nil {
		p.reporter = progress.Nop{}
	}

	for _, ext := range opts.Bundles.Extensions {
		if !p.registry.Supports(ext) {
			return nil, fmt.Errorf("%w: %q", archive.ErrUnsupportedFormat, ext)
		}
		p.exts[strings.ToLower(ext)] = struct{}{}
	}

	return p, nil
}

// Run processes every matching bundle in lexicographic order. It stops at
// the first error; files already written stay on disk.
func (p *Processor) Run(ctx context.Context) (*Summary, error) {
	logger := logging.Get(ctx)

	if err := p.layout.Ensure(p.fs); err != nil {
		return nil, err
	}

	names, err := p.Discover()
	if err != nil {
		return nil, err
	}
	logger.Info().Int("bundles", len(names)).Str("dir", p.layout.Archives).Msg("discovered bundles")

	summary := &Summary{}
	p.reporter.Start(len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("run interrupted before %s: %w", name, err)
		}

		p.reporter.Step(name)
		result, err := p.processBundle(ctx, name)
		if err != nil {
			logger.Error().Err(err).Str("bundle", name).Msg("bundle failed")
			return summary, fmt.Errorf("failed to process bundle %s: %w", name, err)
		}
		summary.Bundles = append(summary.Bundles, *result)
	}
	p.reporter.Done()

	logger.Info().
		Int("bundles", len(summary.Bundles)).
		Int("data_files", summary.DataFiles()).
		Int("dictionaries", summary.Dictionaries()).
		Msg("run complete")

	return summary, nil
}

// Discover lists the bundle names in the archives folder, sorted.
func (p *Processor) Discover() ([]string, error) {
	infos, err := afero.ReadDir(p.fs, p.layout.Archives)
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles in %s: %w", p.layout.Archives, err)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		if p.matches(info.Name()) {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)

	return names, nil
}

func (p *Processor) matches(name string) bool {
	if !strings.HasPrefix(name, p.bundles.Prefix) {
		return false
	}
	_, ok := p.exts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// ParseYear reads the admission year from a bundle name such as
// "PROCESO-DE-ADMISION-2019-INSCRITOS.rar".
func ParseYear(name string, bundles config.Bundles) (string, error) {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	fields := strings.Split(stem, bundles.Separator)
	if bundles.YearField < 0 || bundles.YearField >= len(fields) {
		return "", fmt.Errorf("%w: %q has no field %d", ErrInvalidBundleName, name, bundles.YearField)
	}

	year := fields[bundles.YearField]
	if year == "" || strings.Trim(year, "0123456789") != "" {
		return "", fmt.Errorf("%w: %q field %d is %q, not a year",
			ErrInvalidBundleName, name, bundles.YearField, year)
	}

	return year, nil
}

func (p *Processor) processBundle(ctx context.Context, name string) (*BundleResult, error) {
	logger := logging.Get(ctx).With().Str("bundle", name).Logger()

	year, err := ParseYear(name, p.bundles)
	if err != nil {
		return nil, err
	}

	filesYear := p.layout.FilesYear(year)
	if err := p.fs.MkdirAll(filesYear, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", filesYear, err)
	}

	reader, err := p.registry.Open(p.fs, filepath.Join(p.layout.Archives, name))
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	result := &BundleResult{Name: name, Year: year}
	data := newTracker(filesYear)
	dicts := newTracker(p.layout.DictionariesYear(year))

	for {
		entry, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if entry.IsDir {
			continue
		}

		switch strings.ToLower(path.Ext(entry.Name)) {
		case constants.CSVExtension:
			final, err := p.extract(reader, entry.Name, data, p.csvName)
			if err != nil {
				return nil, err
			}
			result.DataFiles = append(result.DataFiles, final)
			logger.Debug().Str("entry", entry.Name).Str("path", final).Msg("extracted data file")
		case constants.XLSXExtension:
			final, err := p.extract(reader, entry.Name, dicts, p.dictName)
			if err != nil {
				return nil, err
			}
			result.Dictionaries = append(result.Dictionaries, final)
			logger.Debug().Str("entry", entry.Name).Str("path", final).Msg("extracted dictionary")
		default:
			logger.Debug().Str("entry", entry.Name).Msg("skipping entry")
		}
	}

	for _, tr := range []*tracker{data, dicts} {
		if err := tr.cleanup(p.fs, year); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("year", year).
		Int("data_files", len(result.DataFiles)).
		Int("dictionaries", len(result.Dictionaries)).
		Msg("bundle processed")

	return result, nil
}

// extract writes the current entry below the tracker's year folder and moves
// it to the name chosen by rename.
func (p *Processor) extract(
	r io.Reader, entryName string, tr *tracker, rename func(base string) (string, error),
) (string, error) {
	extracted, err := archive.Extract(p.fs, r, tr.yearDir, entryName)
	if err != nil {
		return "", err
	}
	tr.extracted(extracted)

	finalName, err := rename(filepath.Base(extracted))
	if err != nil {
		return "", fmt.Errorf("failed to name %s: %w", entryName, err)
	}

	final := filepath.Join(tr.yearDir, finalName)
	if final != extracted {
		if err := p.fs.Rename(extracted, final); err != nil {
			return "", fmt.Errorf("failed to move %s to %s: %w", extracted, final, err)
		}
	}
	tr.renamed(final)

	return final, nil
}

func (p *Processor) csvName(base string) (string, error) {
	token, err := p.rules.CSVToken(base)
	if err != nil {
		return "", err //nolint:wrapcheck // wrapped by extract
	}
	category, err := p.table.Lookup(token)
	if err != nil {
		return "", err //nolint:wrapcheck // wrapped by extract
	}
	return p.rules.CSVName(category), nil
}

func (p *Processor) dictName(base string) (string, error) {
	token, err := p.rules.DictToken(base)
	if err != nil {
		return "", err //nolint:wrapcheck // wrapped by extract
	}
	category, err := p.table.Lookup(token)
	if err != nil {
		return "", err //nolint:wrapcheck // wrapped by extract
	}
	return p.rules.DictName(category), nil
}
