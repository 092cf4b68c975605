// Package extract copies the byte ranges listed in a TOC out of the data file
// and hands them to a Sink.
package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var (
	ErrOffsetOutOfRange   = errors.New("offset outside data file")
	ErrRangeExceedsStream = errors.New("range runs past end of data file")
)

// Range returns data[offset:offset+size]. data must be length bytes long.
func Range(data io.ReaderAt, length int64, offset, size uint32) ([]byte, error) {
	if int64(offset) >= length {
		return nil, fmt.Errorf("%w: offset 0x%08X, data size 0x%08X", ErrOffsetOutOfRange, offset, length)
	}
	if int64(offset)+int64(size) > length {
		return nil, fmt.Errorf("%w: offset 0x%08X, size %d, data size 0x%08X", ErrRangeExceedsStream, offset, size, length)
	}
	buf := make([]byte, size)
	n, err := data.ReadAt(buf, int64(offset))
	if n < len(buf) {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %d bytes at 0x%08X: %w", size, offset, err)
	}
	return buf, nil
}

// Characters that cannot appear in a path component on any common platform.
const illegalChars = "\"<>|:*?"

// SafeName turns an archive entry name into a relative path below the output
// directory. Both '/' and '\' become directory separators, characters that are
// illegal in a file name become '_', and ".." components are defused.
// SafeName(SafeName(s)) == SafeName(s).
func SafeName(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '/' || r == '\\':
			sb.WriteRune(filepath.Separator)
		case r < 0x20 || strings.ContainsRune(illegalChars, r):
			sb.WriteByte('_')
		default:
			sb.WriteRune(r)
		}
	}

	parts := strings.Split(sb.String(), string(filepath.Separator))
	for i, p := range parts {
		if p == ".." {
			parts[i] = "__"
		}
	}
	return strings.TrimLeft(strings.Join(parts, string(filepath.Separator)), string(filepath.Separator))
}
