package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"srrtoc/internal/toc"
)

const DefaultOutputDir = "extracted_files"

type Config struct {
	OutputDir    string `json:"output_dir,omitempty"`
	LogLevel     string `json:"log_level,omitempty"`
	LogFile      string `json:"log_file,omitempty"` // rotated with lumberjack when set
	NameEncoding string `json:"name_encoding,omitempty"`
	ByteOrder    string `json:"byte_order,omitempty"` // auto, little or big
	// TailGuard is how many TOC bytes must remain before another record is
	// read. 51 matches the older 50-byte end-of-file margin.
	TailGuard   int64  `json:"tail_guard,omitempty"`
	PNGPreviews bool   `json:"png_previews,omitempty"`
	Manifest    string `json:"manifest,omitempty"`
}

// Load reads a JSON config file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	c := &Config{}
	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := json.Unmarshal(file, c); err != nil {
			return nil, fmt.Errorf("error unmarshaling config: %w", err)
		}
	}
	c.setDefaults()
	return c, nil
}

func (c *Config) setDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.NameEncoding == "" {
		c.NameEncoding = "ascii"
	}
	if c.ByteOrder == "" {
		c.ByteOrder = "auto"
	}
	if c.TailGuard == 0 {
		c.TailGuard = toc.MinRecordSize
	}
}

func (c *Config) Validate() error {
	var errs []error
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	if _, err := toc.NameDecoderFor(c.NameEncoding); err != nil {
		errs = append(errs, fmt.Errorf("name_encoding: %w", err))
	}
	if _, err := c.Order(); err != nil {
		errs = append(errs, fmt.Errorf("byte_order: %w", err))
	}
	if c.TailGuard < 0 {
		errs = append(errs, errors.New("tail_guard: must not be negative"))
	}
	return errors.Join(errs...)
}

// Order returns the forced byte order, or nil for "auto".
func (c *Config) Order() (*toc.ByteOrder, error) {
	if c.ByteOrder == "" || strings.EqualFold(c.ByteOrder, "auto") {
		return nil, nil
	}
	o, err := toc.ParseByteOrder(c.ByteOrder)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// DecodeOptions builds the decoder settings described by c.
func (c *Config) DecodeOptions(log zerolog.Logger) (toc.Options, error) {
	names, err := toc.NameDecoderFor(c.NameEncoding)
	if err != nil {
		return toc.Options{}, err
	}
	order, err := c.Order()
	if err != nil {
		return toc.Options{}, err
	}
	return toc.Options{
		Logger:    &log,
		Names:     names,
		Order:     order,
		TailGuard: c.TailGuard,
	}, nil
}
