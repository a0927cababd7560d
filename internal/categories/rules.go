package categories

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/datos-demre/demre/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrMalformedEntryName is returned when a file name has fewer
// underscore-delimited segments than the rule needs.
var ErrMalformedEntryName = errors.New("malformed entry name")

// Rules derives category tokens and output names from extracted file names.
type Rules struct {
	Strip       string
	DictPrefix  string
	CSVSegment  int
	DictSegment int
}

// RulesFromConfig builds Rules from the entries section of the config.
func RulesFromConfig(entries config.Entries) Rules {
	return Rules{
		Strip:       entries.Strip,
		DictPrefix:  entries.DictPrefix,
		CSVSegment:  entries.CSVSegment,
		DictSegment: entries.DictSegment,
	}
}

// CSVToken extracts the token of a data file, e.g. "ArchivoB_2019.csv" -> "b".
// The segment keeps its extension when the name has no underscore, which
// then fails the table lookup.
func (r Rules) CSVToken(base string) (string, error) {
	segment, err := r.segment(base, r.CSVSegment)
	if err != nil {
		return "", err
	}
	return r.strip(segment), nil
}

// DictToken extracts the token of a dictionary, e.g. "Libro_Codigos_ArchivoMatr.xlsx" -> "matr".
func (r Rules) DictToken(base string) (string, error) {
	segment, err := r.segment(base, r.DictSegment)
	if err != nil {
		return "", err
	}
	segment, _, _ = strings.Cut(segment, ".")
	return r.strip(segment), nil
}

// CSVName is the final file name of a data file.
func (Rules) CSVName(category string) string {
	return category + ".csv"
}

// DictName is the final file name of a dictionary.
func (r Rules) DictName(category string) string {
	return r.DictPrefix + category + ".xlsx"
}

func (r Rules) segment(base string, index int) (string, error) {
	segments := strings.Split(normalize(filepath.Base(base)), "_")
	if index < 0 || index >= len(segments) {
		return "", fmt.Errorf("%w: %q has %d segments, need segment %d",
			ErrMalformedEntryName, base, len(segments), index)
	}
	return segments[index], nil
}

func (r Rules) strip(segment string) string {
	if r.Strip == "" {
		return segment
	}
	return strings.ReplaceAll(segment, normalize(r.Strip), "")
}

// normalize lower-cases s and removes diacritics.
func normalize(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}
	return cases.Lower(language.Und).String(strings.TrimSpace(folded))
}
