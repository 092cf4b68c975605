// Package toc decodes the "1rrs"/"srr1" table of contents: a signature that
// selects the byte order, a fixed header, a block of opaque hash records, a run
// of zero words of unknown length and finally the file records, each pointing
// at a byte range in the companion data file.
package toc

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Record is one file entry. Offset and Size address the data file.
type Record struct {
	Index      int
	Size       uint32
	Offset     uint32
	NameLength uint16
	Name       string
}

// Options tunes a Decoder. The zero value decodes ASCII names, detects the
// byte order from the signature and logs nothing.
type Options struct {
	Logger *zerolog.Logger
	Names  NameDecoder
	// Order, when set, overrides the detected byte order. The signature must
	// still be one of the known tags.
	Order *ByteOrder
	// TailGuard is the number of bytes that must remain in the TOC before
	// another record is attempted. Zero means MinRecordSize.
	TailGuard int64
}

// Decoder walks the record list of one TOC stream. It is not safe for
// concurrent use.
type Decoder struct {
	c         *cursor
	log       zerolog.Logger
	names     NameDecoder
	guard     int64
	order     ByteOrder
	header    Header
	zeroWords int
	next      uint32
	decoded   int
	done      bool
	truncated bool
}

// NewDecoder reads everything up to the first file record. Any error it
// returns is fatal for the TOC.
func NewDecoder(r io.ReaderAt, size int64, opts Options) (*Decoder, error) {
	d := &Decoder{
		c:     newCursor(r, size),
		log:   zerolog.Nop(),
		names: opts.Names,
		guard: opts.TailGuard,
	}
	if opts.Logger != nil {
		d.log = *opts.Logger
	}
	if d.names == nil {
		d.names = DecodeASCII
	}
	if d.guard <= 0 {
		d.guard = MinRecordSize
	}

	order, err := readSignature(d.c, d.log)
	if err != nil {
		return nil, err
	}
	if opts.Order != nil && *opts.Order != order {
		d.log.Warn().
			Stringer("detected", order).
			Stringer("forced", *opts.Order).
			Msg("Byte order overridden")
		order = *opts.Order
	}
	d.order = order

	if d.header, err = readHeader(d.c, order, d.log); err != nil {
		return nil, err
	}
	if err = skipHashes(d.c, d.header.HashCount); err != nil {
		return nil, err
	}
	if d.zeroWords, err = skipZeroRun(d.c, order); err != nil {
		return nil, err
	}
	d.log.Info().Int("zero_words", d.zeroWords).Msg("Skipped zero padding before file list")
	return d, nil
}

func (d *Decoder) Order() ByteOrder { return d.order }
func (d *Decoder) Header() Header   { return d.header }
func (d *Decoder) ZeroWords() int   { return d.zeroWords }

// Decoded is the number of records returned successfully so far.
func (d *Decoder) Decoded() int { return d.decoded }

// Truncated reports whether the record loop stopped before FileCount.
func (d *Decoder) Truncated() bool { return d.truncated }

// Next returns the next file record.
//
// It returns io.EOF after the last declared record, an error matching
// ErrTruncatedDirectory when the TOC runs out first (both end the loop), and a
// *RecordDecodeError for a record that could not be read, after which the
// caller may keep calling Next.
func (d *Decoder) Next() (Record, error) {
	if d.done || d.next >= d.header.FileCount {
		d.done = true
		return Record{}, io.EOF
	}
	if d.c.remaining() < d.guard {
		d.done = true
		d.truncated = true
		d.log.Warn().
			Int("decoded", d.decoded).
			Uint32("declared", d.header.FileCount).
			Int64("remaining", d.c.remaining()).
			Msg("Reached end of TOC early")
		return Record{}, fmt.Errorf("%w: %d of %d records", ErrTruncatedDirectory, d.decoded, d.header.FileCount)
	}

	i := int(d.next)
	d.next++
	rec, err := d.readRecord(i)
	if err != nil {
		// a short read leaves nothing usable behind it
		d.c.pos = d.c.size
		return Record{}, &RecordDecodeError{Index: i, Err: err}
	}
	d.decoded++
	return rec, nil
}

func (d *Decoder) readRecord(i int) (Record, error) {
	rec := Record{Index: i}
	var err error
	if rec.Size, err = d.c.u32(d.order); err != nil {
		return rec, fmt.Errorf("read size: %w", err)
	}
	if rec.Offset, err = d.c.u32(d.order); err != nil {
		return rec, fmt.Errorf("read offset: %w", err)
	}
	if err = d.c.skip(8); err != nil {
		return rec, err
	}
	if rec.NameLength, err = d.c.u16(d.order); err != nil {
		return rec, fmt.Errorf("read name length: %w", err)
	}
	if err = d.c.skip(1); err != nil {
		return rec, err
	}
	raw, err := d.c.bytes(int(rec.NameLength))
	if err != nil {
		return rec, fmt.Errorf("read name of %d bytes: %w", rec.NameLength, err)
	}
	if rec.Name, err = d.names(bytes.TrimRight(raw, "\x00")); err != nil {
		return rec, err
	}
	return rec, nil
}

// Listing is a fully decoded TOC.
type Listing struct {
	Order     ByteOrder
	Header    Header
	ZeroWords int
	Records   []Record
	Failures  []*RecordDecodeError
	Truncated bool
}

// Decode reads the whole record list into memory. Per-record failures are
// collected in Failures; only header-level problems are returned as errors.
func Decode(r io.ReaderAt, size int64, opts Options) (*Listing, error) {
	d, err := NewDecoder(r, size, opts)
	if err != nil {
		return nil, err
	}
	l := &Listing{Order: d.Order(), Header: d.Header(), ZeroWords: d.ZeroWords()}
	for {
		rec, err := d.Next()
		var rde *RecordDecodeError
		switch {
		case err == nil:
			l.Records = append(l.Records, rec)
			continue
		case errors.As(err, &rde):
			l.Failures = append(l.Failures, rde)
			continue
		case errors.Is(err, ErrTruncatedDirectory):
			l.Truncated = true
		case !errors.Is(err, io.EOF):
			return l, err
		}
		return l, nil
	}
}
