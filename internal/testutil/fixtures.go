package testutil

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// File is one member of a fixture archive. A Name ending in "/" is a
// directory entry.
type File struct {
	Name string
	Body []byte
}

// ZipBytes builds a ZIP archive holding files in order.
func ZipBytes(t *testing.T, files ...File) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		member, err := w.Create(f.Name)
		if err != nil {
			t.Fatalf("Failed to add %s to fixture archive: %v", f.Name, err)
		}
		if _, err := member.Write(f.Body); err != nil {
			t.Fatalf("Failed to write %s to fixture archive: %v", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish fixture archive: %v", err)
	}

	return buf.Bytes()
}

// WriteZip writes a ZIP archive to path on fs, creating parent folders.
func WriteZip(t *testing.T, fs afero.Fs, path string, files ...File) {
	t.Helper()
	WriteFile(t, fs, path, ZipBytes(t, files...))
}

// WriteFile writes data to path on fs, creating parent folders.
func WriteFile(t *testing.T, fs afero.Fs, path string, data []byte) {
	t.Helper()

	if err := fs.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("Failed to create fixture directory for %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o600); err != nil {
		t.Fatalf("Failed to write fixture %s: %v", path, err)
	}
}

// Workbook builds an xlsx workbook with the given sheet names. Each sheet
// gets a header cell so it is not empty.
func Workbook(t *testing.T, sheets ...string) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				t.Fatalf("Failed to rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			t.Fatalf("Failed to add sheet %s: %v", sheet, err)
		}
		if err := f.SetCellValue(sheet, "A1", "VARIABLE"); err != nil {
			t.Fatalf("Failed to set cell: %v", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}

	return buf.Bytes()
}
