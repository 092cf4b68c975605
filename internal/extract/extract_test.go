package extract

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRange(t *testing.T) {
	data := []byte("0123456789")
	r := bytes.NewReader(data)
	n := int64(len(data))

	testCases := []struct {
		name         string
		offset, size uint32
		expect       string
		err          error
	}{
		{"whole", 0, 10, "0123456789", nil},
		{"middle", 3, 4, "3456", nil},
		{"last byte", 9, 1, "9", nil},
		{"empty", 4, 0, "", nil},
		{"offset at end", 10, 0, "", ErrOffsetOutOfRange},
		{"offset past end", 0xFFFFFFFF, 1, "", ErrOffsetOutOfRange},
		{"too long", 0, 100, "", ErrRangeExceedsStream},
		{"one past", 5, 6, "", ErrRangeExceedsStream},
		{"no wrap", 5, 0xFFFFFFFF, "", ErrRangeExceedsStream},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Range(r, n, tc.offset, tc.size)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, int(tc.size))
			assert.Equal(t, tc.expect, string(got))
		})
	}
}

func TestRange_Deterministic(t *testing.T) {
	data := bytes.Repeat([]byte{1, 2, 3, 4, 5, 6, 7}, 100)
	r := bytes.NewReader(data)
	first, err := Range(r, int64(len(data)), 13, 200)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Range(r, int64(len(data)), 13, 200)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, data[13:213], first)
}

func TestSafeName(t *testing.T) {
	sep := string(filepath.Separator)
	testCases := []struct {
		name   string
		expect string
	}{
		{"a.txt", "a.txt"},
		{`data\maps\level1.map`, "data" + sep + "maps" + sep + "level1.map"},
		{"data/maps/level1.map", "data" + sep + "maps" + sep + "level1.map"},
		{`what?.txt`, "what_.txt"},
		{`a<b>c|d"e*f:g`, "a_b_c_d_e_f_g"},
		{"tab\there", "tab_here"},
		{"nul\x00", "nul_"},
		{"../../etc/passwd", "__" + sep + "__" + sep + "etc" + sep + "passwd"},
		{"/abs/path", "abs" + sep + "path"},
		{`\\server\share`, "server" + sep + "share"},
		{"C:/game/x.bin", "C_" + sep + "game" + sep + "x.bin"},
		{"..hidden/..x", "..hidden" + sep + "..x"},
		{"", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SafeName(tc.name)
			assert.Equal(t, tc.expect, got)
			assert.Equal(t, got, SafeName(got))
		})
	}
}

func TestSafeName_Idempotent(t *testing.T) {
	alphabet := []byte("ab./\\:*?\"<>|\x00\x01 .")
	for i := 0; i < 500; i++ {
		var sb strings.Builder
		for j, k := 0, i; j < 8; j, k = j+1, k*7+3 {
			sb.WriteByte(alphabet[k%len(alphabet)])
		}
		once := SafeName(sb.String())
		assert.Equal(t, once, SafeName(once), "input %q", sb.String())
	}
}
