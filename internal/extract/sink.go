package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

var ErrPathIsDirectory = errors.New("path conflicts with an existing directory")

// Entry is what the engine hands to a Sink for every extracted file.
type Entry struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Path   string `json:"path"`
	Offset uint32 `json:"offset"`
	Size   uint32 `json:"size"`
}

// Sink stores extracted files. Entry.Path is already a safe relative path.
type Sink interface {
	Put(e Entry, data []byte) error
}

// DirSink writes entries below Root. Directories, Root included, are only
// created when a file is written into them.
type DirSink struct {
	Root string
	log  zerolog.Logger
	made map[string]bool
}

func NewDirSink(root string, log zerolog.Logger) *DirSink {
	return &DirSink{Root: root, log: log, made: make(map[string]bool)}
}

// Path is the on-disk location of a relative entry path.
func (s *DirSink) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *DirSink) Put(e Entry, data []byte) error {
	out := s.Path(e.Path)
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return fmt.Errorf("%s: %w", out, ErrPathIsDirectory)
	}

	dir := filepath.Dir(out)
	if !s.made[dir] {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			s.log.Debug().Str("dir", dir).Msg("Creating directory")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		s.made[dir] = true
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	return nil
}

// Manifest records every entry that reached the wrapped Sink.
type Manifest struct {
	Next Sink `json:"-"`

	Order   string  `json:"byte_order,omitempty"`
	Version uint32  `json:"version"`
	Files   uint32  `json:"declared_files"`
	Entries []Entry `json:"entries"`
}

func (m *Manifest) Put(e Entry, data []byte) error {
	if m.Next != nil {
		if err := m.Next.Put(e, data); err != nil {
			return err
		}
	}
	m.Entries = append(m.Entries, e)
	return nil
}

// WriteFile stores the manifest as indented JSON.
func (m *Manifest) WriteFile(path string) error {
	if m.Entries == nil {
		m.Entries = []Entry{}
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create manifest directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0644)
}
