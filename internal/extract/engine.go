package extract

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"srrtoc/internal/toc"
)

// Report summarizes one run. A run that returns a nil error reached the end
// of the record loop, even if Extracted is zero.
type Report struct {
	Order     toc.ByteOrder
	Header    toc.Header
	ZeroWords int
	Decoded   int
	Extracted int
	Failed    int
	Truncated bool
}

// Engine decodes a TOC and extracts every record it lists.
type Engine struct {
	sink Sink
	log  zerolog.Logger
	opts toc.Options
}

// New returns an Engine writing to sink. opts.Logger defaults to log.
func New(sink Sink, log zerolog.Logger, opts toc.Options) *Engine {
	if opts.Logger == nil {
		opts.Logger = &log
	}
	return &Engine{sink: sink, log: log, opts: opts}
}

// RunFiles opens both files, runs the extraction and closes them again.
func (e *Engine) RunFiles(ctx context.Context, tocPath, dataPath string) (Report, error) {
	e.log.Info().Str("data", dataPath).Str("toc", tocPath).Msg("Opening archive")
	a, err := OpenArchive(tocPath, dataPath)
	if err != nil {
		return Report{}, err
	}
	defer func() {
		if err := a.Close(); err != nil {
			e.log.Warn().Err(err).Msg("Failed to close archive")
		}
	}()
	return e.Run(ctx, a)
}

// Run extracts every record of a. Only TOC header failures and context
// cancellation are returned; per-record failures are logged and counted.
func (e *Engine) Run(ctx context.Context, a *Archive) (Report, error) {
	dec, err := toc.NewDecoder(a.TOC, a.TOCSize, e.opts)
	if err != nil {
		return Report{}, fmt.Errorf("parse TOC: %w", err)
	}
	rep := Report{Order: dec.Order(), Header: dec.Header(), ZeroWords: dec.ZeroWords()}
	total := rep.Header.FileCount
	e.log.Info().Uint32("files", total).Msg("Extracting files")

	for {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rec, err := dec.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, toc.ErrTruncatedDirectory) {
			rep.Truncated = true
			break
		}
		if err != nil {
			rep.Failed++
			e.log.Error().Err(err).Msg("Failed to decode record")
			continue
		}
		rep.Decoded++

		if err := e.extract(a, rec, total); err != nil {
			rep.Failed++
			e.log.Error().Err(err).Int("index", rec.Index).Str("name", rec.Name).Msg("Failed to extract file")
			continue
		}
		rep.Extracted++
	}

	e.log.Info().
		Int("extracted", rep.Extracted).
		Int("failed", rep.Failed).
		Uint32("declared", total).
		Bool("truncated", rep.Truncated).
		Msg("Extraction complete")
	return rep, nil
}

func (e *Engine) extract(a *Archive, rec toc.Record, total uint32) error {
	e.log.Info().
		Str("progress", fmt.Sprintf("%d/%d", rec.Index+1, total)).
		Str("name", rec.Name).
		Str("offset", fmt.Sprintf("0x%08X", rec.Offset)).
		Uint32("size", rec.Size).
		Msg("Extracting")

	data, err := Range(a.Data, a.DataSize, rec.Offset, rec.Size)
	if err != nil {
		return err
	}
	path := SafeName(rec.Name)
	if path == "" {
		path = fmt.Sprintf("unnamed_%05d", rec.Index)
	}
	return e.sink.Put(Entry{
		Index:  rec.Index,
		Name:   rec.Name,
		Path:   path,
		Offset: rec.Offset,
		Size:   rec.Size,
	}, data)
}
