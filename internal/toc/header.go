package toc

import (
	"fmt"

	"github.com/rs/zerolog"
)

const (
	hashRecordSize = 20 + 12
	// MinRecordSize is the fixed part of a file record, before its name.
	MinRecordSize = 4 + 4 + 8 + 2 + 1
)

// Secondary signatures seen after the header fields.
var secondaryTags = map[string]bool{
	"bssd": true,
	"dssb": true,
}

// Header holds the fixed fields that follow the primary signature.
// Reserved fields are kept as read; their meaning is unknown.
type Header struct {
	Version   uint32
	FileCount uint32
	Reserved0 uint32
	Reserved  [16]byte
	HashCount uint32
	Reserved1 uint32
	Secondary string
}

// readSignature consumes the primary tag and leaves the cursor at offset 4
// for both byte orders.
func readSignature(c *cursor, log zerolog.Logger) (ByteOrder, error) {
	tag, err := c.tag()
	if err != nil {
		return 0, fmt.Errorf("read signature: %w", err)
	}
	order, err := DetectOrder(tag)
	if err != nil {
		return 0, err
	}
	log.Info().
		Str("signature", string(tag[:])).
		Str("hex", fmt.Sprintf("% X", tag[:])).
		Stringer("order", order).
		Msg("Signature detected")
	return order, nil
}

func readHeader(c *cursor, order ByteOrder, log zerolog.Logger) (Header, error) {
	var (
		h   Header
		err error
	)
	if h.Version, err = c.u32(order); err != nil {
		return h, fmt.Errorf("read version: %w", err)
	}
	if h.FileCount, err = c.u32(order); err != nil {
		return h, fmt.Errorf("read file count: %w", err)
	}
	if h.Reserved0, err = c.u32(order); err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err = c.read(h.Reserved[:]); err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if h.HashCount, err = c.u32(order); err != nil {
		return h, fmt.Errorf("read hash count: %w", err)
	}
	if h.Reserved1, err = c.u32(order); err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	tag, err := c.tag()
	if err != nil {
		return h, fmt.Errorf("read secondary signature: %w", err)
	}
	h.Secondary = string(tag[:])

	log.Info().
		Uint32("version", h.Version).
		Uint32("files", h.FileCount).
		Uint32("hashes", h.HashCount).
		Str("secondary", printable(tag[:])).
		Msg("Header read")
	if !secondaryTags[h.Secondary] {
		log.Warn().
			Str("secondary", printable(tag[:])).
			Msg("Unexpected secondary signature, expected 'bssd' or 'dssb'")
	}
	return h, nil
}

// skipHashes steps over count opaque hash records.
func skipHashes(c *cursor, count uint32) error {
	if err := c.skip(int64(count) * hashRecordSize); err != nil {
		return fmt.Errorf("skip %d hash records: %w", count, err)
	}
	return nil
}

// skipZeroRun consumes the zero words in front of the record list and stops
// on the first non-zero word without consuming it. The final 4 bytes of the
// stream are never probed.
func skipZeroRun(c *cursor, order ByteOrder) (int, error) {
	n := 0
	for c.pos < c.size-4 {
		v, err := c.u32(order)
		if err != nil {
			return n, fmt.Errorf("scan zero padding: %w", err)
		}
		if v != 0 {
			c.rewind(4)
			break
		}
		n++
	}
	return n, nil
}
