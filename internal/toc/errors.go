package toc

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSignature = errors.New("unsupported TOC signature")
	ErrTruncatedInput       = errors.New("truncated TOC input")
	ErrTruncatedDirectory   = errors.New("TOC ends before all records were read")
	ErrRecordDecode         = errors.New("record decode failed")
)

// UnsupportedSignatureError carries the 4 bytes found at the start of the TOC.
type UnsupportedSignatureError struct {
	Tag [4]byte
}

func (e *UnsupportedSignatureError) Error() string {
	return fmt.Sprintf("unsupported TOC signature '%s' (% X), expected '%s' or '%s'",
		printable(e.Tag[:]), e.Tag[:], TagBigEndian, TagLittleEndian)
}

func (e *UnsupportedSignatureError) Is(target error) bool {
	return target == ErrUnsupportedSignature
}

// RecordDecodeError reports a single file record that could not be read.
// The decoder moves on to the next record after returning it.
type RecordDecodeError struct {
	Index int
	Err   error
}

func (e *RecordDecodeError) Error() string {
	return fmt.Sprintf("record %d: %v", e.Index, e.Err)
}

func (e *RecordDecodeError) Unwrap() error { return e.Err }

func (e *RecordDecodeError) Is(target error) bool {
	return target == ErrRecordDecode
}

func printable(b []byte) string {
	out := make([]byte, len(b))
	for i, c := range b {
		if c < 0x20 || c > 0x7E {
			c = '.'
		}
		out[i] = c
	}
	return string(out)
}
