package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"srrtoc/internal/config"
	"srrtoc/internal/extract"
	"srrtoc/internal/logger"
	"srrtoc/internal/preview"
	"srrtoc/internal/toc"
)

func printUsage(fs *flag.FlagSet) func() {
	return func() {
		w := fs.Output()
		exe := filepath.Base(os.Args[0])
		fmt.Fprintf(w, "Shadowrun TOC extractor\n")
		fmt.Fprintf(w, "\nUsage:\n")
		fmt.Fprintf(w, "  Extract:  %s -E <game.data> -T <game.toc> [-o out_dir]\n", exe)
		fmt.Fprintf(w, "  List:     %s -l -T <game.toc>\n", exe)
		fmt.Fprintf(w, "\nOptions:\n")
		fs.PrintDefaults()
	}
}

type options struct {
	data, toc  string
	configPath string
	list       bool
	cfg        *config.Config
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("srrtoc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = printUsage(fs)

	o := &options{}
	fs.StringVar(&o.data, "E", "", "data file (game.data)")
	fs.StringVar(&o.toc, "T", "", "TOC file (game.toc)")
	fs.StringVar(&o.configPath, "config", "", "JSON config file")
	fs.BoolVar(&o.list, "l", false, "list entries without extracting")
	outDir := fs.String("o", "", "output directory (default \""+config.DefaultOutputDir+"\")")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	logFile := fs.String("log-file", "", "also log to this file (rotated)")
	names := fs.String("names", "", "name encoding: ascii, cp1252 or shift-jis")
	order := fs.String("order", "", "byte order: auto, little or big")
	guard := fs.Int64("tail-guard", 0, "bytes that must remain in the TOC to read another record (51 = legacy margin)")
	png := fs.Bool("png", false, "write PNG previews of extracted .bmp/.tif files")
	manifest := fs.String("manifest", "", "write a JSON manifest of extracted entries to this path")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.toc == "" || (o.data == "" && !o.list) || fs.NArg() > 0 {
		fs.Usage()
		return nil, flag.ErrHelp
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	// flags win over the config file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			cfg.OutputDir = *outDir
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-file":
			cfg.LogFile = *logFile
		case "names":
			cfg.NameEncoding = *names
		case "order":
			cfg.ByteOrder = *order
		case "tail-guard":
			cfg.TailGuard = *guard
		case "png":
			cfg.PNGPreviews = *png
		case "manifest":
			cfg.Manifest = *manifest
		}
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o.cfg = cfg
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	o, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	log, closer := logger.New(o.cfg.LogLevel, o.cfg.LogFile)
	defer closer.Close()

	opts, err := o.cfg.DecodeOptions(log)
	if err != nil {
		log.Error().Err(err).Msg("Invalid options")
		return 2
	}

	if o.list {
		if err := list(o.toc, opts, stdout); err != nil {
			log.Error().Err(err).Msg("Listing failed")
			return 1
		}
		return 0
	}

	dir := extract.NewDirSink(o.cfg.OutputDir, log)
	var sink extract.Sink = dir
	if o.cfg.PNGPreviews {
		sink = preview.NewSink(dir, log)
	}
	var manifest *extract.Manifest
	if o.cfg.Manifest != "" {
		manifest = &extract.Manifest{Next: sink}
		sink = manifest
	}

	rep, err := extract.New(sink, log, opts).RunFiles(ctx, o.toc, o.data)
	if err != nil {
		log.Error().Err(err).Msg("Extraction failed")
		return 1
	}
	if manifest != nil {
		manifest.Order = rep.Order.String()
		manifest.Version = rep.Header.Version
		manifest.Files = rep.Header.FileCount
		if err := manifest.WriteFile(o.cfg.Manifest); err != nil {
			log.Error().Err(err).Msg("Failed to write manifest")
			return 1
		}
	}

	absPath, _ := filepath.Abs(o.cfg.OutputDir)
	fmt.Fprintf(stdout, "Unpacked %d of %d files to %s\n", rep.Extracted, rep.Header.FileCount, absPath)
	return 0
}

func list(tocPath string, opts toc.Options, w io.Writer) error {
	f, err := os.Open(tocPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: TOC file %s", extract.ErrMissingInput, tocPath)
		}
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	l, err := toc.Decode(f, fi.Size(), opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s, version %d, %d files declared, %d hashes, %d zero words\n",
		l.Order, l.Header.Version, l.Header.FileCount, l.Header.HashCount, l.ZeroWords)
	for _, r := range l.Records {
		fmt.Fprintf(w, "  [%4d] 0x%08X %10d  %s\n", r.Index, r.Offset, r.Size, r.Name)
	}
	for _, fe := range l.Failures {
		fmt.Fprintf(w, "  [%4d] ERROR %v\n", fe.Index, fe.Err)
	}
	if l.Truncated {
		fmt.Fprintf(w, "TOC ends early: %d of %d records\n", len(l.Records)+len(l.Failures), l.Header.FileCount)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
