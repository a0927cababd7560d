package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nwaples/rardecode/v2"
	"github.com/spf13/afero"
)

const osCreateFlags = os.O_CREATE | os.O_TRUNC | os.O_WRONLY

// RAR opens RAR bundles, the format the DEMRE portal publishes.
type RAR struct{}

// Open implements Opener.
func (RAR) Open(fs afero.Fs, path string) (Reader, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	rr, err := rardecode.NewReader(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read rar archive %s: %w", path, err)
	}

	return &rarReader{file: file, rr: rr}, nil
}

type rarReader struct {
	file afero.File
	rr   *rardecode.Reader
}

func (r *rarReader) Next() (*Entry, error) {
	header, err := r.rr.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read rar entry: %w", err)
	}
	return &Entry{Name: strings.ReplaceAll(header.Name, `\`, "/"), IsDir: header.IsDir}, nil
}

func (r *rarReader) Read(p []byte) (int, error) {
	return r.rr.Read(p) //nolint:wrapcheck // io.Reader passthrough
}

func (r *rarReader) Close() error {
	return r.file.Close() //nolint:wrapcheck // simple close
}

// Zip opens ZIP bundles.
type Zip struct{}

// Open implements Opener.
func (Zip) Open(fs afero.Fs, path string) (Reader, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to stat archive %s: %w", path, err)
	}

	// Insecure names are rejected per entry by Extract.
	zr, err := zip.NewReader(file, info.Size())
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		_ = file.Close()
		return nil, fmt.Errorf("failed to read zip archive %s: %w", path, err)
	}

	return &zipReader{file: file, zr: zr, index: -1}, nil
}

type zipReader struct {
	file    afero.File
	zr      *zip.Reader
	current io.ReadCloser
	index   int
}

func (z *zipReader) Next() (*Entry, error) {
	if err := z.closeCurrent(); err != nil {
		return nil, err
	}

	z.index++
	if z.index >= len(z.zr.File) {
		return nil, io.EOF
	}

	member := z.zr.File[z.index]
	rc, err := member.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open zip entry %s: %w", member.Name, err)
	}
	z.current = rc

	return &Entry{Name: member.Name, IsDir: member.FileInfo().IsDir()}, nil
}

func (z *zipReader) Read(p []byte) (int, error) {
	if z.current == nil {
		return 0, io.EOF
	}
	return z.current.Read(p) //nolint:wrapcheck // io.Reader passthrough
}

func (z *zipReader) Close() error {
	err := z.closeCurrent()
	if closeErr := z.file.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close archive: %w", closeErr)
	}
	return err
}

func (z *zipReader) closeCurrent() error {
	if z.current == nil {
		return nil
	}
	err := z.current.Close()
	z.current = nil
	if err != nil {
		return fmt.Errorf("failed to close zip entry: %w", err)
	}
	return nil
}
