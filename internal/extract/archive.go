package extract

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var ErrMissingInput = errors.New("input file not found")

// Archive is the TOC stream and the data stream of one archive.
type Archive struct {
	TOC      io.ReaderAt
	TOCSize  int64
	Data     io.ReaderAt
	DataSize int64

	closers []io.Closer
}

// OpenArchive opens both files. The returned Archive owns them; Close
// releases both.
func OpenArchive(tocPath, dataPath string) (*Archive, error) {
	a := &Archive{}
	var err error
	if a.Data, a.DataSize, err = a.open(dataPath, "data"); err != nil {
		return nil, err
	}
	if a.TOC, a.TOCSize, err = a.open(tocPath, "TOC"); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) open(path, kind string) (io.ReaderAt, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s file %s", ErrMissingInput, kind, path)
		}
		return nil, 0, fmt.Errorf("open %s file: %w", kind, err)
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat %s file: %w", kind, err)
	}
	if fi.IsDir() {
		_ = f.Close()
		return nil, 0, fmt.Errorf("%w: %s path %s is a directory", ErrMissingInput, kind, path)
	}
	a.closers = append(a.closers, f)
	return f, fi.Size(), nil
}

// Close closes every file the Archive opened. It is safe to call twice.
func (a *Archive) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
