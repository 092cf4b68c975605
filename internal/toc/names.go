package toc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

// NameDecoder turns raw record name bytes into text.
type NameDecoder func([]byte) (string, error)

// DecodeASCII keeps 7-bit bytes and replaces everything above 0x7F with '?'.
func DecodeASCII(b []byte) (string, error) {
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if c > 0x7F {
			c = '?'
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

func decodeWith(enc encoding.Encoding) NameDecoder {
	return func(b []byte) (string, error) {
		out, err := enc.NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("decode name: %w", err)
		}
		return string(out), nil
	}
}

// NameDecoderFor returns the decoder registered under name.
// An empty name selects ASCII.
func NameDecoderFor(name string) (NameDecoder, error) {
	switch strings.ToLower(name) {
	case "", "ascii":
		return DecodeASCII, nil
	case "cp1252", "windows-1252":
		return decodeWith(charmap.Windows1252), nil
	case "shift-jis", "shift_jis", "sjis":
		return decodeWith(japanese.ShiftJIS), nil
	}
	return nil, fmt.Errorf("unknown name encoding %q", name)
}
