package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srrtoc/internal/toc"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultOutputDir, c.OutputDir)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "ascii", c.NameEncoding)
	assert.Equal(t, "auto", c.ByteOrder)
	assert.Equal(t, int64(toc.MinRecordSize), c.TailGuard)
	require.NoError(t, c.Validate())

	o, err := c.Order()
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"output_dir": "out",
		"log_level": "debug",
		"name_encoding": "shift-jis",
		"byte_order": "big",
		"tail_guard": 51,
		"png_previews": true
	}`), 0644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, "out", c.OutputDir)
	assert.True(t, c.PNGPreviews)

	opts, err := c.DecodeOptions(zerolog.Nop())
	require.NoError(t, err)
	require.NotNil(t, opts.Order)
	assert.Equal(t, toc.BigEndian, *opts.Order)
	assert.Equal(t, int64(51), opts.TailGuard)
	assert.NotNil(t, opts.Names)
	assert.NotNil(t, opts.Logger)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	c.LogLevel = "loud"
	c.NameEncoding = "klingon"
	c.ByteOrder = "sideways"
	c.TailGuard = -1
	err = c.Validate()
	require.Error(t, err)
	for _, field := range []string{"log_level", "name_encoding", "byte_order", "tail_guard"} {
		assert.Contains(t, err.Error(), field)
	}
}
