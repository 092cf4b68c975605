// Package testutil builds TOC images in memory for package tests.
package testutil

import (
	"bytes"
	"encoding/binary"
)

// Entry is one file record to encode.
type Entry struct {
	Name   string
	Size   uint32
	Offset uint32
	// NameLength overrides len(Name) when non-zero.
	NameLength int
}

// TOC describes a table of contents image. Order decides the byte order of
// every integer field; Signature defaults to the tag matching Order.
type TOC struct {
	Order     binary.ByteOrder
	Signature string
	Version   uint32
	// FileCount overrides len(Entries) when non-zero.
	FileCount uint32
	Hashes    int
	Secondary string
	ZeroWords int
	Entries   []Entry
	// Tail is appended after the last record.
	Tail []byte
}

// Bytes encodes t.
func (t TOC) Bytes() []byte {
	order := t.Order
	if order == nil {
		order = binary.BigEndian
	}
	sig := t.Signature
	if sig == "" {
		sig = "srr1"
		if order == binary.BigEndian {
			sig = "1rrs"
		}
	}
	secondary := t.Secondary
	if secondary == "" {
		secondary = "bssd"
	}
	count := t.FileCount
	if count == 0 {
		count = uint32(len(t.Entries))
	}

	var buf bytes.Buffer
	u32 := func(v uint32) { _ = binary.Write(&buf, order, v) }

	buf.WriteString(sig)
	u32(t.Version)
	u32(count)
	u32(0xDEADBEEF)
	buf.Write(bytes.Repeat([]byte{0x11}, 16))
	u32(uint32(t.Hashes))
	u32(0xCAFEF00D)
	buf.WriteString(secondary)
	buf.Write(bytes.Repeat([]byte{0xAB}, t.Hashes*32))
	buf.Write(make([]byte, t.ZeroWords*4))
	for _, e := range t.Entries {
		buf.Write(EncodeRecord(order, e))
	}
	buf.Write(t.Tail)
	return buf.Bytes()
}

// EncodeRecord encodes a single file record.
func EncodeRecord(order binary.ByteOrder, e Entry) []byte {
	n := e.NameLength
	if n == 0 {
		n = len(e.Name)
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, order, e.Size)
	_ = binary.Write(&buf, order, e.Offset)
	buf.Write(bytes.Repeat([]byte{0x22}, 8))
	_ = binary.Write(&buf, order, uint16(n))
	buf.WriteByte(0x33)
	buf.WriteString(e.Name)
	return buf.Bytes()
}
