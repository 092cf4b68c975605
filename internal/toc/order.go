package toc

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// ByteOrder selects how multi-byte TOC fields are assembled. It is fixed once
// the signature has been read.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// Primary signatures. "srr1" is "1rrs" spelled byte-reversed.
const (
	TagLittleEndian = "srr1"
	TagBigEndian    = "1rrs"
)

var signatures = map[string]ByteOrder{
	TagLittleEndian: LittleEndian,
	TagBigEndian:    BigEndian,
}

// DetectOrder maps a primary signature to its byte order.
func DetectOrder(tag [4]byte) (ByteOrder, error) {
	order, ok := signatures[string(tag[:])]
	if !ok {
		return 0, &UnsupportedSignatureError{Tag: tag}
	}
	return order, nil
}

// ParseByteOrder accepts the names used in config files and flags.
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "little", "le", "little-endian", TagLittleEndian:
		return LittleEndian, nil
	case "big", "be", "big-endian", TagBigEndian:
		return BigEndian, nil
	}
	return 0, fmt.Errorf("unknown byte order %q", s)
}

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// Signature returns the primary tag that selects o.
func (o ByteOrder) Signature() string {
	if o == BigEndian {
		return TagBigEndian
	}
	return TagLittleEndian
}

func (o ByteOrder) binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}
