package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/datos-demre/demre/internal/inventory"
	"github.com/datos-demre/demre/internal/paths"
	"github.com/datos-demre/demre/internal/processor"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// FormatSummary renders the outcome of a processing run.
func FormatSummary(summary *processor.Summary) string {
	if summary == nil || len(summary.Bundles) == 0 {
		return "No bundles processed\n"
	}

	var b strings.Builder
	for _, bundle := range summary.Bundles {
		_, _ = fmt.Fprintf(&b, "%s %s: %d data files, %d dictionaries\n",
			color.CyanString(bundle.Year), bundle.Name, len(bundle.DataFiles), len(bundle.Dictionaries))
	}
	_, _ = fmt.Fprintf(&b, "%s %d bundles, %d data files, %d dictionaries\n",
		color.GreenString("Total:"), len(summary.Bundles), summary.DataFiles(), summary.Dictionaries())
	return b.String()
}

// FormatStatus renders an inventory report.
func FormatStatus(report *inventory.Report) string {
	if report == nil || len(report.Years) == 0 {
		return color.YellowString("No processed years found") + "\n"
	}

	var b strings.Builder
	for i := range report.Years {
		year := &report.Years[i]
		_, _ = fmt.Fprintln(&b, color.New(color.Bold).Sprint(year.Year))

		for _, file := range year.DataFiles {
			_, _ = fmt.Fprintf(&b, "  %-16s %10s\n", filepath.Base(file.Path), humanize.Bytes(uint64(max(file.Size, 0))))
		}
		for _, dict := range year.Dictionaries {
			detail := fmt.Sprintf("%d sheets", len(dict.Sheets))
			if dict.Error != "" {
				detail = color.RedString("unreadable: %s", dict.Error)
			}
			_, _ = fmt.Fprintf(&b, "  %-16s %10s  %s\n",
				filepath.Base(dict.Path), humanize.Bytes(uint64(max(dict.Size, 0))), detail)
		}
		if len(year.Missing) > 0 {
			_, _ = fmt.Fprintf(&b, "  %s %s\n", color.YellowString("missing:"), strings.Join(year.Missing, ", "))
		}
		if len(year.Unrecognized) > 0 {
			_, _ = fmt.Fprintf(&b, "  %s %s\n", color.RedString("unrecognized:"), strings.Join(year.Unrecognized, ", "))
		}
	}
	return b.String()
}

// FormatPaths lists every folder of the layout.
func FormatPaths(layout *paths.Layout) string {
	var b strings.Builder
	for _, entry := range layout.Entries() {
		_, _ = fmt.Fprintf(&b, "%-13s %s\n", entry[0], entry[1])
	}
	return b.String()
}
