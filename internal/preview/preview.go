// Package preview writes PNG copies of extracted bitmap entries next to the
// originals so textures can be inspected without game tools.
package preview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"srrtoc/internal/extract"
)

var convertible = map[string]bool{
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// Sink stores entries through a DirSink and then converts the ones that look
// like bitmaps. Conversion failures are logged, never returned.
type Sink struct {
	dir *extract.DirSink
	log zerolog.Logger
}

func NewSink(dir *extract.DirSink, log zerolog.Logger) *Sink {
	return &Sink{dir: dir, log: log}
}

func (s *Sink) Put(e extract.Entry, data []byte) error {
	if err := s.dir.Put(e, data); err != nil {
		return err
	}
	if !convertible[strings.ToLower(filepath.Ext(e.Path))] {
		return nil
	}
	src := s.dir.Path(e.Path)
	dst, err := ToPNG(src)
	if err != nil {
		s.log.Warn().Err(err).Str("file", e.Path).Msg("No PNG preview")
		return nil
	}
	s.log.Debug().Str("png", dst).Msg("Wrote preview")
	return nil
}

// ToPNG decodes the image at src and saves it as src + ".png".
func ToPNG(src string) (string, error) {
	img, err := imgio.Open(src)
	if err != nil {
		return "", fmt.Errorf("can't open image: %w", err)
	}
	dst := src + ".png"
	if err := imgio.Save(dst, img, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("save %s: %w", dst, err)
	}
	return dst, nil
}
